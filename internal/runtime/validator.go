package runtime

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/pb33f/libopenapi/datamodel/high/base"
)

// ValidationError describes a mismatch between a response and its declaration
type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// Validate checks a full response against the responses op declares: the
// status must be declared (exactly, as a range or by default), a declared
// content type must match, and JSON bodies must fit the declared schema.
func Validate(op models.Operation, resp *Response) []ValidationError {
	var errors []ValidationError

	if resp == nil {
		return []ValidationError{{Field: "response", Message: "response is nil"}}
	}

	declared, found := matchResponse(op, resp.StatusCode)
	if !found {
		errors = append(errors, ValidationError{
			Field:   "status_code",
			Message: fmt.Sprintf("unexpected status code %d, not declared by %s", resp.StatusCode, op.OperationID),
		})
		return errors
	}

	if !declared.HasBody() {
		return errors
	}

	contentType := resp.Headers["content-type"]
	if contentType != "" && models.IsJSONMediaType(contentType) != declared.IsJSON() {
		errors = append(errors, ValidationError{
			Field:   "content_type",
			Message: fmt.Sprintf("unexpected content type: %s", contentType),
		})
		return errors
	}

	if declared.IsJSON() && declared.Schema != nil {
		errors = append(errors, validateValue("body", resp.Body, declared.Schema, nil)...)
	}

	return errors
}

// matchResponse finds the declaration for a status: exact code, then range, then default
func matchResponse(op models.Operation, status int) (models.Response, bool) {
	if r, ok := op.Response(strconv.Itoa(status)); ok {
		return r, true
	}
	for _, key := range []string{fmt.Sprintf("%dXX", status/100), fmt.Sprintf("%dxx", status/100), "default"} {
		if r, ok := op.Response(key); ok {
			return r, true
		}
	}
	return models.Response{}, false
}

func validateValue(field string, value any, proxy *base.SchemaProxy, refs []string) []ValidationError {
	if proxy == nil {
		return nil
	}
	if proxy.IsReference() {
		ref := proxy.GetReference()
		if slices.Contains(refs, ref) {
			return nil
		}
		refs = append(slices.Clip(refs), ref)
	}
	schema := proxy.Schema()
	if schema == nil || len(schema.Type) == 0 {
		return nil
	}

	if value == nil {
		if slices.Contains(schema.Type, "null") || (schema.Nullable != nil && *schema.Nullable) {
			return nil
		}
		return []ValidationError{{Field: field, Message: "unexpected null"}}
	}

	if !slices.ContainsFunc(schema.Type, func(t string) bool { return matchesType(t, value) }) {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("expected %v, got %T", schema.Type, value)}}
	}

	var errors []ValidationError
	switch v := value.(type) {
	case map[string]any:
		for _, required := range schema.Required {
			if _, exists := v[required]; !exists {
				errors = append(errors, ValidationError{
					Field:   field + "." + required,
					Message: fmt.Sprintf("missing required field: %s", required),
				})
			}
		}
		if schema.Properties != nil {
			for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
				if item, exists := v[pair.Key()]; exists {
					errors = append(errors, validateValue(field+"."+pair.Key(), item, pair.Value(), refs)...)
				}
			}
		}
	case []any:
		if schema.Items != nil && schema.Items.IsA() {
			for i, item := range v {
				errors = append(errors, validateValue(fmt.Sprintf("%s[%d]", field, i), item, schema.Items.A, refs)...)
			}
		}
	}
	return errors
}

func matchesType(schemaType string, value any) bool {
	switch schemaType {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		n, ok := value.(float64)
		return ok && n == float64(int64(n))
	case "boolean":
		_, ok := value.(bool)
		return ok
	default:
		return false
	}
}
