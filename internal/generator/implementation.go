package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moamenhredeen/oas/internal/codewriter"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
)

// emitImplementation writes the client module in the configured dialect
func (g *Generator) emitImplementation(plan []plannedOperation) string {
	e := &implementationEmitter{
		w:          codewriter.New(),
		typed:      g.config.Dialect == models.DialectTyped,
		config:     g.config,
		clientType: naming.TypeName(g.config.ClientName),
	}

	e.w.WriteLine("// This client was generated by oas from an OpenAPI specification.")
	if e.typed {
		e.w.WriteLine(fmt.Sprintf("import type { %s } from './%s-types'", e.clientType, g.config.ClientName))
		e.w.WriteLine(fmt.Sprintf("import type * as Types from './%s-types'", g.config.ClientName))
	}

	e.writePrelude(needsHeadersHelper(plan))
	for _, p := range plan {
		e.w.BlankLine()
		e.writeOperation(p)
	}
	e.w.BlankLine()
	e.writeFactory(plan)

	return e.w.String()
}

type implementationEmitter struct {
	w          *codewriter.Writer
	typed      bool
	config     models.GenerationConfig
	clientType string
}

func needsHeadersHelper(plan []plannedOperation) bool {
	for _, p := range plan {
		if p.class.FullResponse {
			return true
		}
	}
	return false
}

// ts returns typed when emitting TypeScript and untyped otherwise
func (e *implementationEmitter) ts(typed, untyped string) string {
	if e.typed {
		return typed
	}
	return untyped
}

// jsDoc annotates an untyped declaration with a member of the client interface
func (e *implementationEmitter) jsDoc(member string) {
	if e.typed {
		return
	}
	e.w.WriteLine(fmt.Sprintf("/**  @type {import('./%s-types.d.ts').%s[%s]} */", e.config.ClientName, e.clientType, literal(member)))
}

func (e *implementationEmitter) writePrelude(headersHelper bool) {
	w := e.w
	w.BlankLine()
	w.WriteLine("let baseUrl = ''")
	w.WriteLine("let defaultHeaders = {}")
	w.WriteLine("let defaultFetchParams = {}")
	w.WriteLine("const defaultJsonType = { 'Content-Type': 'application/json' }")

	w.BlankLine()
	w.Write(e.ts("function sanitizeUrl (url: string): string", "function sanitizeUrl (url)")).Block(func() {
		w.Write("if (url.endsWith('/'))").Block(func() {
			w.WriteLine("return url.slice(0, -1)")
		})
		w.WriteLine("return url")
	})

	if headersHelper {
		w.BlankLine()
		w.Write(e.ts("function headersToJSON (headers: Headers): Record<string, string>", "function headersToJSON (headers)")).Block(func() {
			w.WriteLine(e.ts("const output: Record<string, string> = {}", "const output = {}"))
			w.Write("headers.forEach((value, key) => ").InlineBlock(func() {
				w.WriteLine("output[key] = value")
			})
			w.Write(")")
			w.WriteLine("return output")
		})
	}

	w.BlankLine()
	e.jsDoc("setBaseUrl")
	w.Write(e.ts(
		fmt.Sprintf("export const setBaseUrl: %s['setBaseUrl'] = (newUrl: string): void =>", e.clientType),
		"export const setBaseUrl = (newUrl) =>",
	)).Block(func() {
		w.WriteLine("baseUrl = sanitizeUrl(newUrl)")
	})

	w.BlankLine()
	e.jsDoc("setDefaultHeaders")
	w.Write(e.ts(
		fmt.Sprintf("export const setDefaultHeaders: %s['setDefaultHeaders'] = (headers: object): void =>", e.clientType),
		"export const setDefaultHeaders = (headers) =>",
	)).Block(func() {
		w.WriteLine("defaultHeaders = headers")
	})

	w.BlankLine()
	e.jsDoc("setDefaultFetchParams")
	w.Write(e.ts(
		fmt.Sprintf("export const setDefaultFetchParams: %s['setDefaultFetchParams'] = (fetchParams: RequestInit): void =>", e.clientType),
		"export const setDefaultFetchParams = (fetchParams) =>",
	)).Block(func() {
		w.WriteLine("defaultFetchParams = fetchParams")
	})
}

func (e *implementationEmitter) writeOperation(p plannedOperation) {
	w := e.w
	id := p.op.OperationID
	requestType := "Types." + naming.RequestTypeName(id)
	responsesType := "Types." + naming.ResponsesTypeName(id)

	w.Write(e.ts(
		fmt.Sprintf("const _%s = async (url: string, request: %s): Promise<%s> =>", id, requestType, responsesType),
		fmt.Sprintf("async function _%s (url, request)", id),
	)).Block(func() {
		e.writeRequest(p)
		w.BlankLine()
		e.writeResponse(p)
	})

	w.BlankLine()
	e.jsDoc(id)
	w.Write(e.ts(
		fmt.Sprintf("export const %s: %s['%s'] = async (request: %s): Promise<%s> =>", id, e.clientType, id, requestType, responsesType),
		fmt.Sprintf("export const %s = async (request) =>", id),
	)).Block(func() {
		w.WriteLine(fmt.Sprintf("return await _%s(baseUrl, request)", id))
	})
}

func (e *implementationEmitter) writeRequest(p plannedOperation) {
	w := e.w
	op := p.op
	full := e.config.FullRequest
	requestType := "Types." + naming.RequestTypeName(op.OperationID)

	if len(p.route.Query) > 0 {
		querySource := "request"
		keyType := fmt.Sprintf("(keyof NonNullable<%s>)[]", requestType)
		if full {
			querySource = "request?.query"
			keyType = fmt.Sprintf("(keyof NonNullable<%s['query']>)[]", requestType)
		}
		w.WriteLine(fmt.Sprintf("const queryParameters%s = %s", e.ts(": "+keyType, ""), literalList(p.route.Query)))
		w.WriteLine(fmt.Sprintf("const query = %s", querySource))
		w.WriteLine("const searchParams = new URLSearchParams()")
		w.Write("if (query)").Block(func() {
			w.Write("queryParameters.forEach((qp) => ").InlineBlock(func() {
				w.WriteLine("const queryValue = query[qp]")
				w.Write("if (queryValue !== undefined)").Block(func() {
					w.Write("if (Array.isArray(queryValue)) ").InlineBlock(func() {
						w.WriteLine("queryValue.forEach((p) => searchParams.append(qp, String(p)))")
					})
					w.Write(" else").Block(func() {
						w.WriteLine("searchParams.append(qp, String(queryValue))")
					})
				})
				if !full {
					w.WriteLine(e.ts("delete (query as Record<string, unknown>)[qp]", "delete query[qp]"))
				}
			})
			w.Write(")")
		})
		w.WriteLine("const queryString = searchParams.toString()")
		w.BlankLine()
	}

	carriesBody := op.Method.CarriesBody()
	if carriesBody {
		switch {
		case !full:
			w.WriteLine("const body = request")
		case op.RequestBody != nil:
			w.WriteLine("const body = request?.body")
		default:
			w.WriteLine("const body = undefined")
		}
		w.WriteLine("const isFormData = body instanceof FormData")
	}

	w.Write(e.ts("const headers: Record<string, string> =", "const headers =")).Block(func() {
		if carriesBody {
			w.WriteLine("...defaultHeaders,")
			w.WriteLine("...((isFormData || body === undefined) ? {} : defaultJsonType)")
		} else {
			w.WriteLine("...defaultHeaders")
		}
	})

	for _, name := range p.route.Header {
		key := literal(name)
		if full {
			w.Write(fmt.Sprintf("if (request?.headers?.[%s] !== undefined)", key)).Block(func() {
				w.WriteLine(fmt.Sprintf("headers[%s] = String(request.headers[%s])", key, key))
			})
			continue
		}
		w.Write(fmt.Sprintf("if (request && request[%s] !== undefined)", key)).Block(func() {
			w.WriteLine(fmt.Sprintf("headers[%s] = String(request[%s])", key, key))
			w.WriteLine(e.ts(
				fmt.Sprintf("delete (request as Record<string, unknown>)[%s]", key),
				fmt.Sprintf("delete request[%s]", key),
			))
		})
	}

	pathSource := "request"
	if full {
		pathSource = "request.path"
	}
	url := ExpandPath(strings.ReplaceAll(op.Path, "`", "\\`"), func(name string) string {
		return fmt.Sprintf("${encodeURIComponent(%s[%s])}", pathSource, literal(name))
	})
	if len(p.route.Query) > 0 {
		url += "${queryString ? '?' + queryString : ''}"
	}

	w.BlankLine()
	w.Write(fmt.Sprintf("const response = await fetch(`${url}%s`, ", url)).InlineBlock(func() {
		w.WriteLine(fmt.Sprintf("method: '%s',", op.Method.Upper()))
		if carriesBody {
			w.WriteLine("body: isFormData ? body : JSON.stringify(body),")
		}
		if e.config.WithCredentials {
			w.WriteLine("credentials: 'include',")
		}
		w.WriteLine("headers,")
		w.WriteLine("...defaultFetchParams")
	})
	w.Write(")")
	w.NewLine()
}

func (e *implementationEmitter) writeResponse(p plannedOperation) {
	w := e.w
	allCodes := p.op.StatusCodes()

	for _, rule := range p.class.Rules() {
		switch rule.Kind {
		case RuleFailure:
			w.Write("if (response.status < 200 || response.status >= 400)").Block(func() {
				w.WriteLine("throw new Error(await response.text())")
			})
			w.BlankLine()

		case RuleNoContent:
			w.Write("if (response.status === 204)").Block(func() {
				if p.class.FullResponse {
					e.writeFullReturn(rule.Codes, "undefined")
				} else {
					w.WriteLine("return undefined")
				}
			})
			w.BlankLine()

		case RuleBucket:
			list := string(rule.Body) + "Responses"
			w.WriteLine(fmt.Sprintf("const %s = [%s]", list, joinCodes(rule.Codes, ", ")))
			w.Write(fmt.Sprintf("if (%s.includes(response.status))", list)).Block(func() {
				e.writeFullReturn(rule.Codes, bodyRead(rule.Body))
			})
			w.BlankLine()

		case RuleSuccess:
			w.WriteLine("return " + bodyRead(rule.Body))

		case RuleFallback:
			w.WriteLine("const contentType = response.headers.get('content-type') ?? ''")
			w.WriteLine(`const responseType = /^application\/([\w.-]+\+)?json/i.test(contentType) ? 'json' : 'text'`)
			e.writeFullReturn(allCodes, "await response[responseType]()")
		}
	}
}

func (e *implementationEmitter) writeFullReturn(codes []int, body string) {
	w := e.w
	status := "response.status"
	if e.typed {
		cast := "number"
		if len(codes) > 0 {
			cast = joinCodes(codes, " | ")
		}
		status += " as " + cast
	}
	w.Write("return ").InlineBlock(func() {
		w.WriteLine(fmt.Sprintf("statusCode: %s,", status))
		w.WriteLine("headers: headersToJSON(response.headers),")
		w.WriteLine("body: " + body)
	})
	w.NewLine()
}

func (e *implementationEmitter) writeFactory(plan []plannedOperation) {
	w := e.w
	if !e.typed {
		w.WriteLine(fmt.Sprintf("/** @type {import('./%s-types.d.ts').default} */", e.config.ClientName))
	}
	w.Write(e.ts(
		fmt.Sprintf("export default function build (url: string, options?: Types.BuildOptions): Types.%sClient", e.clientType),
		"export default function build (url, options)",
	)).Block(func() {
		w.WriteLine("url = sanitizeUrl(url)")
		w.WriteLine("baseUrl = url")
		w.Write("if (options?.headers)").Block(func() {
			w.WriteLine("defaultHeaders = options.headers")
		})
		w.Write("return ").InlineBlock(func() {
			w.WriteLine("setDefaultHeaders,")
			w.WriteLine("setDefaultFetchParams,")
			for i, p := range plan {
				id := p.op.OperationID
				comma := ","
				if i == len(plan)-1 {
					comma = ""
				}
				w.WriteLine(e.ts(
					fmt.Sprintf("%s: (request: Types.%s) => _%s(url, request)%s", id, naming.RequestTypeName(id), id, comma),
					fmt.Sprintf("%s: (request) => _%s(url, request)%s", id, id, comma),
				))
			}
		})
		w.NewLine()
	})
}

func bodyRead(kind BodyKind) string {
	switch kind {
	case BodyJSON:
		return "await response.json()"
	case BodyText:
		return "await response.text()"
	default:
		return "undefined"
	}
}

func joinCodes(codes []int, sep string) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = strconv.Itoa(code)
	}
	return strings.Join(parts, sep)
}

// literal quotes s as a single-quoted JavaScript string
func literal(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func literalList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = literal(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
