package models

import (
	"mime"
	"strconv"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
)

// Method is an HTTP method as it is keyed under an OpenAPI path item (lower case)
type Method string

const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodPatch   Method = "patch"
	MethodDelete  Method = "delete"
	MethodHead    Method = "head"
	MethodOptions Method = "options"
)

// ParseMethod converts a path item key into a Method
func ParseMethod(s string) (Method, bool) {
	switch m := Method(strings.ToLower(s)); m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return m, true
	}
	return "", false
}

// Upper returns the method in the form used on the wire
func (m Method) Upper() string {
	return strings.ToUpper(string(m))
}

// CarriesBody reports whether requests with this method send a body
func (m Method) CarriesBody() bool {
	return m != MethodGet && m != MethodHead
}

// Location is where a parameter lives in the request
type Location string

const (
	LocationPath   Location = "path"
	LocationQuery  Location = "query"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// Parameter is a declared operation parameter
type Parameter struct {
	Name        string
	In          Location
	Required    bool
	Description string
	Schema      *base.SchemaProxy
}

// Body is the request body of an operation, reduced to its first media type
type Body struct {
	ContentType string
	Required    bool
	Schema      *base.SchemaProxy
}

// IsForm reports whether the body is sent as a form payload
func (b *Body) IsForm() bool {
	if b == nil {
		return false
	}
	ct := strings.ToLower(b.ContentType)
	return strings.HasPrefix(ct, "multipart/form-data") || strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}

// Response is a declared response keyed by status code, "default" or a range like "4XX".
// An empty ContentType means the response has no body.
type Response struct {
	StatusCode  string
	ContentType string
	Description string
	Schema      *base.SchemaProxy
}

// Code returns the numeric status code, false for "default" and ranges
func (r Response) Code() (int, bool) {
	code, err := strconv.Atoi(r.StatusCode)
	if err != nil {
		return 0, false
	}
	return code, true
}

// IsSuccess reports whether the status code starts with "2"
func (r Response) IsSuccess() bool {
	return strings.HasPrefix(r.StatusCode, "2")
}

// HasBody reports whether a content type was declared
func (r Response) HasBody() bool {
	return r.ContentType != ""
}

// IsJSON reports whether the response body is JSON
func (r Response) IsJSON() bool {
	return IsJSONMediaType(r.ContentType)
}

// IsJSONMediaType reports whether a media type carries JSON:
// application/json or any +json suffix, parameters ignored.
func IsJSONMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Operation represents one method+path of the API, with its derived identifier
type Operation struct {
	Path        string
	Method      Method
	OperationID string // unique within one generation run
	DeclaredID  string // operationId as written in the document, may be empty
	Summary     string
	Tags        []string
	Parameters  []Parameter
	RequestBody *Body
	Responses   []Response // document order
}

// ParametersIn returns the parameters declared at the given location, in order
func (o Operation) ParametersIn(in Location) []Parameter {
	var out []Parameter
	for _, p := range o.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// Response returns the declared response for a status key
func (o Operation) Response(status string) (Response, bool) {
	for _, r := range o.Responses {
		if r.StatusCode == status {
			return r, true
		}
	}
	return Response{}, false
}

// StatusCodes returns every numeric status code declared, in order
func (o Operation) StatusCodes() []int {
	var codes []int
	for _, r := range o.Responses {
		if code, ok := r.Code(); ok {
			codes = append(codes, code)
		}
	}
	return codes
}
