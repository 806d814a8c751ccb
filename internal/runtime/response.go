package runtime

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/models"
)

// Response is the result of a call in full-response mode
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
}

// readResponse applies the response rules of an operation. The first rule
// that matches produces the result.
func readResponse(resp *http.Response, class generator.Classification) (any, error) {
	for _, rule := range class.Rules() {
		switch rule.Kind {
		case generator.RuleFailure:
			if resp.StatusCode < 200 || resp.StatusCode >= 400 {
				text, err := io.ReadAll(resp.Body)
				if err != nil {
					return nil, fmt.Errorf("failed to read response body: %w", err)
				}
				return nil, &ResponseError{StatusCode: resp.StatusCode, Message: string(text)}
			}

		case generator.RuleNoContent:
			if resp.StatusCode == 204 {
				if class.FullResponse {
					return full(resp, nil), nil
				}
				return nil, nil
			}

		case generator.RuleBucket:
			if slices.Contains(rule.Codes, resp.StatusCode) {
				body, err := readBody(resp, rule.Body)
				if err != nil {
					return nil, err
				}
				return full(resp, body), nil
			}

		case generator.RuleSuccess:
			return readBody(resp, rule.Body)

		case generator.RuleFallback:
			kind := generator.BodyText
			if models.IsJSONMediaType(resp.Header.Get("Content-Type")) {
				kind = generator.BodyJSON
			}
			body, err := readBody(resp, kind)
			if err != nil {
				return nil, err
			}
			return full(resp, body), nil
		}
	}
	return nil, fmt.Errorf("no response rule matched status %d", resp.StatusCode)
}

func readBody(resp *http.Response, kind generator.BodyKind) (any, error) {
	if kind == generator.BodyEmpty {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if kind == generator.BodyText {
		return string(data), nil
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return body, nil
}

func full(resp *http.Response, body any) *Response {
	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    headersToMap(resp.Header),
		Body:       body,
	}
}

// headersToMap lower-cases names and joins repeated values with ", "
func headersToMap(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for name, values := range header {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}
