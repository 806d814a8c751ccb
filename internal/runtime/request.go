package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/moamenhredeen/oas/internal/generator"
)

// FullRequest is the request shape used when full requests are enabled
type FullRequest struct {
	Path    map[string]any
	Query   map[string]any
	Headers map[string]any
	Body    any
}

// requestParts is a request value split by destination
type requestParts struct {
	path    map[string]any
	query   map[string]any
	headers map[string]any
	body    any
}

// splitRequest routes a request value. Flattened requests are copied, and
// query and header keys are removed from the copy, which then is the body.
func splitRequest(o operation, request any, fullRequest bool) (requestParts, error) {
	if fullRequest {
		switch r := request.(type) {
		case nil:
			return requestParts{}, nil
		case FullRequest:
			return requestParts{path: r.Path, query: r.Query, headers: r.Headers, body: r.Body}, nil
		case *FullRequest:
			if r == nil {
				return requestParts{}, nil
			}
			return requestParts{path: r.Path, query: r.Query, headers: r.Headers, body: r.Body}, nil
		default:
			return requestParts{}, fmt.Errorf("%w: expected FullRequest, got %T", ErrInvalidRequest, request)
		}
	}

	var values map[string]any
	switch r := request.(type) {
	case nil:
		values = map[string]any{}
	case map[string]any:
		values = maps.Clone(r)
	case *FormData:
		return requestParts{body: r}, nil
	default:
		return requestParts{}, fmt.Errorf("%w: expected map[string]any, got %T", ErrInvalidRequest, request)
	}

	parts := requestParts{
		path:    values,
		query:   make(map[string]any),
		headers: make(map[string]any),
	}
	for _, name := range o.route.Query {
		if v, ok := values[name]; ok {
			parts.query[name] = v
			delete(values, name)
		}
	}
	for _, name := range o.route.Header {
		if v, ok := values[name]; ok {
			parts.headers[name] = v
			delete(values, name)
		}
	}
	if request != nil {
		parts.body = values
	}
	return parts, nil
}

// buildRequest builds the HTTP request for one call
func (m *Module) buildRequest(
	ctx context.Context,
	baseURL string,
	o operation,
	request any,
	defaultHeaders map[string]string,
	params FetchParams,
) (*http.Request, error) {
	parts, err := splitRequest(o, request, m.config.FullRequest)
	if err != nil {
		return nil, err
	}

	// Build URL with path parameters
	var missing []string
	fullPath := generator.ExpandPath(o.op.Path, func(name string) string {
		v, ok := parts.path[name]
		if !ok || v == nil {
			missing = append(missing, name)
			return ""
		}
		return escapeComponent(stringify(v))
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPathParameter, strings.Join(missing, ", "))
	}

	fullURL := baseURL + fullPath
	if qs := encodeQuery(o.route.Query, parts.query); qs != "" {
		fullURL += "?" + qs
	}

	headers := maps.Clone(defaultHeaders)
	if headers == nil {
		headers = map[string]string{}
	}

	var body io.Reader
	if o.op.Method.CarriesBody() && parts.body != nil {
		switch b := parts.body.(type) {
		case *FormData:
			body = b.Body
			if b.ContentType != "" {
				headers["Content-Type"] = b.ContentType
			}
		default:
			payload, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			body = bytes.NewReader(payload)
			headers["Content-Type"] = "application/json"
		}
	}

	for _, name := range o.route.Header {
		if v, ok := parts.headers[name]; ok && v != nil {
			headers[name] = stringify(v)
		}
	}

	// fetch params are spread last
	if params.Headers != nil {
		headers = params.Headers
	}

	req, err := http.NewRequestWithContext(ctx, o.op.Method.Upper(), fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// encodeQuery serializes values in declaration order. Slices become repeated
// keys; absent and nil values are skipped.
func encodeQuery(names []string, values map[string]any) string {
	var pairs []string
	add := func(name string, v any) {
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(stringify(v)))
	}
	for _, name := range names {
		v, ok := values[name]
		if !ok || v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				add(name, rv.Index(i).Interface())
			}
			continue
		}
		add(name, v)
	}
	return strings.Join(pairs, "&")
}

// componentUnescaper undoes the escapes url.QueryEscape applies to the
// characters encodeURIComponent leaves alone
var componentUnescaper = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// escapeComponent escapes s the way encodeURIComponent does
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
