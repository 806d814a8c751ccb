// Package typemapper renders OpenAPI schemas as TypeScript type expressions.
package typemapper

import (
	"fmt"
	"slices"
	"strings"

	"github.com/moamenhredeen/oas/internal/codewriter"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
	"github.com/pb33f/libopenapi/datamodel/high/base"
)

// Mapper writes the request and response declarations of operations
type Mapper struct {
	propsOptional bool
	fullRequest   bool
}

// New creates a Mapper for the given generation options
func New(config models.GenerationConfig) *Mapper {
	return &Mapper{
		propsOptional: config.PropsOptional,
		fullRequest:   config.FullRequest,
	}
}

type field struct {
	name     string
	optional bool
	typ      string
}

// WriteOperation writes <Op>Request, one <Op>Response<Status> per declared
// response and the <Op>Responses union.
func (m *Mapper) WriteOperation(w *codewriter.Writer, op models.Operation, fullResponse bool) {
	w.WriteLine(fmt.Sprintf("export type %s = %s", naming.RequestTypeName(op.OperationID), m.requestType(op)))

	for _, r := range op.Responses {
		w.WriteLine(fmt.Sprintf("export type %s = %s", naming.ResponseTypeName(op.OperationID, r.StatusCode), m.responseType(r)))
	}

	w.Write(fmt.Sprintf("export type %s =", naming.ResponsesTypeName(op.OperationID)))
	w.Indent(func() {
		members := m.responseMembers(op, fullResponse)
		for i, member := range members {
			if i > 0 {
				member = "| " + member
			}
			w.WriteLine(member)
		}
	})
}

func (m *Mapper) requestType(op models.Operation) string {
	if m.fullRequest {
		return m.fullRequestType(op)
	}

	var fields []field
	seen := make(map[string]bool)
	add := func(f field) {
		if seen[f.name] {
			return
		}
		seen[f.name] = true
		fields = append(fields, f)
	}

	for _, p := range op.Parameters {
		if p.In == models.LocationCookie {
			continue
		}
		add(field{name: p.Name, optional: !p.Required, typ: m.TypeOf(p.Schema)})
	}

	var extra string
	if b := op.RequestBody; b != nil {
		switch {
		case b.IsForm():
			extra = "FormData"
		case m.isObject(b.Schema):
			for _, f := range m.objectFields(b.Schema.Schema(), nil) {
				add(f)
			}
		default:
			extra = m.TypeOf(b.Schema)
		}
	}

	switch {
	case len(fields) == 0 && extra == "":
		return "Record<string, never>"
	case len(fields) == 0:
		return extra
	case extra == "":
		return renderObject(fields)
	default:
		return renderObject(fields) + " & " + extra
	}
}

func (m *Mapper) fullRequestType(op models.Operation) string {
	var groups []field
	for _, group := range []struct {
		key string
		in  models.Location
	}{
		{"path", models.LocationPath},
		{"query", models.LocationQuery},
		{"headers", models.LocationHeader},
	} {
		params := op.ParametersIn(group.in)
		if len(params) == 0 {
			continue
		}
		optional := true
		fields := make([]field, 0, len(params))
		for _, p := range params {
			if p.Required {
				optional = false
			}
			fields = append(fields, field{name: p.Name, optional: !p.Required, typ: m.TypeOf(p.Schema)})
		}
		groups = append(groups, field{name: group.key, optional: optional, typ: renderObject(fields)})
	}

	if b := op.RequestBody; b != nil {
		typ := m.TypeOf(b.Schema)
		if b.IsForm() {
			typ = "FormData"
		}
		groups = append(groups, field{name: "body", optional: !b.Required, typ: typ})
	}

	if len(groups) == 0 {
		return "Record<string, never>"
	}
	return renderObject(groups)
}

func (m *Mapper) responseType(r models.Response) string {
	switch {
	case r.StatusCode == "204" || !r.HasBody():
		return "undefined"
	case r.IsJSON():
		return m.TypeOf(r.Schema)
	default:
		return "string"
	}
}

func (m *Mapper) responseMembers(op models.Operation, fullResponse bool) []string {
	if !fullResponse {
		for _, r := range op.Responses {
			if r.IsSuccess() {
				return []string{naming.ResponseTypeName(op.OperationID, r.StatusCode)}
			}
		}
		return []string{"unknown"}
	}

	var members []string
	for _, r := range op.Responses {
		status := "number"
		if code, ok := r.Code(); ok {
			status = fmt.Sprint(code)
		}
		members = append(members, fmt.Sprintf("FullResponse<%s, %s>", naming.ResponseTypeName(op.OperationID, r.StatusCode), status))
	}
	if len(members) == 0 {
		members = append(members, "FullResponse<unknown, number>")
	}
	return members
}

// TypeOf renders a schema as a TypeScript type expression. References are
// inlined; a reference met again inside itself becomes unknown.
func (m *Mapper) TypeOf(proxy *base.SchemaProxy) string {
	return m.typeOf(proxy, nil)
}

func (m *Mapper) typeOf(proxy *base.SchemaProxy, refs []string) string {
	if proxy == nil {
		return "unknown"
	}
	if proxy.IsReference() {
		ref := proxy.GetReference()
		if slices.Contains(refs, ref) {
			return "unknown"
		}
		refs = append(slices.Clip(refs), ref)
	}
	schema := proxy.Schema()
	if schema == nil {
		return "unknown"
	}

	typ := m.schemaType(schema, refs)
	if schema.Nullable != nil && *schema.Nullable && typ != "unknown" {
		typ += " | null"
	}
	return typ
}

func (m *Mapper) schemaType(schema *base.Schema, refs []string) string {
	switch {
	case len(schema.AllOf) > 0:
		return m.combine(schema.AllOf, " & ", refs)
	case len(schema.OneOf) > 0:
		return m.combine(schema.OneOf, " | ", refs)
	case len(schema.AnyOf) > 0:
		return m.combine(schema.AnyOf, " | ", refs)
	case len(schema.Enum) > 0:
		return enumType(schema)
	}

	types := schema.Type
	if len(types) == 0 {
		switch {
		case schema.Properties != nil && schema.Properties.Len() > 0, schema.AdditionalProperties != nil:
			types = []string{"object"}
		case schema.Items != nil:
			types = []string{"array"}
		default:
			return "unknown"
		}
	}

	parts := make([]string, 0, len(types))
	for _, t := range types {
		switch t {
		case "string":
			if schema.Format == "binary" {
				parts = append(parts, "Blob")
			} else {
				parts = append(parts, "string")
			}
		case "integer", "number":
			parts = append(parts, "number")
		case "boolean":
			parts = append(parts, "boolean")
		case "null":
			parts = append(parts, "null")
		case "array":
			item := "unknown"
			if schema.Items != nil && schema.Items.IsA() {
				item = m.typeOf(schema.Items.A, refs)
			}
			parts = append(parts, "Array<"+item+">")
		case "object":
			parts = append(parts, m.objectType(schema, refs))
		default:
			parts = append(parts, "unknown")
		}
	}
	return strings.Join(parts, " | ")
}

func (m *Mapper) combine(proxies []*base.SchemaProxy, sep string, refs []string) string {
	parts := make([]string, 0, len(proxies))
	for _, proxy := range proxies {
		typ := m.typeOf(proxy, refs)
		if strings.Contains(typ, " ") && !strings.HasPrefix(typ, "{") {
			typ = "(" + typ + ")"
		}
		parts = append(parts, typ)
	}
	return strings.Join(parts, sep)
}

func (m *Mapper) objectType(schema *base.Schema, refs []string) string {
	fields := m.objectFields(schema, refs)
	if len(fields) > 0 {
		return renderObject(fields)
	}
	value := "unknown"
	if ap := schema.AdditionalProperties; ap != nil && ap.IsA() {
		value = m.typeOf(ap.A, refs)
	}
	return "Record<string, " + value + ">"
}

func (m *Mapper) objectFields(schema *base.Schema, refs []string) []field {
	if schema == nil || schema.Properties == nil {
		return nil
	}
	var fields []field
	for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
		required := slices.Contains(schema.Required, pair.Key())
		fields = append(fields, field{
			name:     pair.Key(),
			optional: m.propsOptional || !required,
			typ:      m.typeOf(pair.Value(), refs),
		})
	}
	return fields
}

func (m *Mapper) isObject(proxy *base.SchemaProxy) bool {
	if proxy == nil {
		return false
	}
	schema := proxy.Schema()
	return schema != nil && schema.Properties != nil && schema.Properties.Len() > 0 &&
		len(schema.AllOf) == 0 && len(schema.OneOf) == 0 && len(schema.AnyOf) == 0
}

func enumType(schema *base.Schema) string {
	quoted := slices.Contains(schema.Type, "string")
	parts := make([]string, 0, len(schema.Enum))
	for _, node := range schema.Enum {
		if node == nil {
			continue
		}
		switch {
		case node.Tag == "!!null":
			parts = append(parts, "null")
		case quoted || node.Tag == "!!str":
			parts = append(parts, quote(node.Value))
		default:
			parts = append(parts, node.Value)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " | ")
}

func renderObject(fields []field) string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range fields {
		b.WriteString("  ")
		b.WriteString(propertyName(f.name))
		if f.optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(f.typ, "\n", "\n  "))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func propertyName(name string) string {
	if naming.IsIdentifier(name) {
		return name
	}
	return quote(name)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
