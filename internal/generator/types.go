package generator

import (
	"fmt"
	"strings"

	"github.com/moamenhredeen/oas/internal/codewriter"
	"github.com/moamenhredeen/oas/internal/naming"
)

// emitTypes writes the declaration file shared by both dialects
func (g *Generator) emitTypes(plan []plannedOperation) string {
	w := codewriter.New()
	clientType := naming.TypeName(g.config.ClientName)

	w.WriteLine("export interface FullResponse<T, U extends number> {")
	w.Indent(func() {
		w.WriteLine("'statusCode': U;")
		w.WriteLine("'headers': object;")
		w.WriteLine("'body': T;")
	})
	w.WriteLine("}")

	for _, p := range plan {
		w.BlankLine()
		g.mapper.WriteOperation(w, p.op, p.class.FullResponse)
	}

	w.BlankLine()
	w.Write(fmt.Sprintf("export interface %s", clientType)).Block(func() {
		w.WriteLine("setBaseUrl(newUrl: string): void;")
		w.WriteLine("setDefaultHeaders(headers: object): void;")
		w.WriteLine("setDefaultFetchParams(fetchParams: RequestInit): void;")
		for _, p := range plan {
			id := p.op.OperationID
			if summary := docComment(p.op.Summary); summary != "" {
				w.WriteLine(summary)
			}
			w.WriteLine(fmt.Sprintf("%s(req: %s): Promise<%s>;", id, naming.RequestTypeName(id), naming.ResponsesTypeName(id)))
		}
	})

	w.BlankLine()
	w.WriteLine(fmt.Sprintf("export type %sClient = Omit<%s, 'setBaseUrl'>", clientType, clientType))
	w.WriteLine("export type BuildOptions = {")
	w.Indent(func() {
		w.WriteLine("headers?: object")
	})
	w.WriteLine("}")
	w.WriteLine(fmt.Sprintf("export default function build(url: string, options?: BuildOptions): %sClient", clientType))

	return w.String()
}

// docComment turns a summary into a one-line JSDoc comment
func docComment(summary string) string {
	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" {
		return ""
	}
	return "/** " + strings.ReplaceAll(summary, "*/", "*\\/") + " */"
}
