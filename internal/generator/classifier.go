package generator

import (
	"fmt"
	"slices"

	"github.com/moamenhredeen/oas/internal/logging"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
)

// BodyKind is the strategy used to read a response body
type BodyKind string

const (
	BodyJSON  BodyKind = "json"
	BodyText  BodyKind = "text"
	BodyEmpty BodyKind = "empty"
)

// bucketOrder is the order in which bucket rules are evaluated
var bucketOrder = []BodyKind{BodyJSON, BodyText, BodyEmpty}

// Classification is the response handling decided for one operation
type Classification struct {
	// FullResponse makes calls return status, headers and body
	FullResponse bool
	// Forced is set when FullResponse differs from the configured value
	Forced bool
	// Buckets holds declared numeric status codes by body kind, in declaration order
	Buckets models.Buckets
	// Has204 is set when a 204 response is declared
	Has204 bool
	// SuccessKind is the body kind of the sole 2xx response, if there is exactly one
	SuccessKind BodyKind
}

// Classify decides how responses of op are handled. fullResponse is the
// configured mode; it is forced on when the operation has zero or several 2xx
// responses, or a single 2xx response without a body. The latter logs a
// warning if full responses were not requested.
func Classify(op models.Operation, fullResponse bool, logger logging.Logger) Classification {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	var success []models.Response
	for _, r := range op.Responses {
		if r.IsSuccess() {
			success = append(success, r)
		}
	}

	c := Classification{FullResponse: fullResponse}
	switch {
	case len(success) != 1:
		c.FullResponse = true
	case !success[0].HasBody():
		if !fullResponse {
			logger.Warn(fmt.Sprintf("Full response has been forced due to a schema with empty response for %s", naming.ResponsesTypeName(op.OperationID)),
				"operation", op.OperationID)
		}
		c.FullResponse = true
	}
	c.Forced = c.FullResponse && !fullResponse

	if len(success) == 1 {
		c.SuccessKind = KindOf(success[0])
	}

	for _, r := range op.Responses {
		code, ok := r.Code()
		if !ok {
			continue
		}
		if code == 204 {
			c.Has204 = true
		}
		switch KindOf(r) {
		case BodyJSON:
			c.Buckets.JSON = append(c.Buckets.JSON, code)
		case BodyText:
			c.Buckets.Text = append(c.Buckets.Text, code)
		default:
			c.Buckets.Empty = append(c.Buckets.Empty, code)
		}
	}

	return c
}

// Bucket returns the status codes of one body kind
func (c Classification) Bucket(kind BodyKind) []int {
	switch kind {
	case BodyJSON:
		return c.Buckets.JSON
	case BodyText:
		return c.Buckets.Text
	default:
		return c.Buckets.Empty
	}
}

// KindOf tells how the body of a declared response is read
func KindOf(r models.Response) BodyKind {
	if r.StatusCode == "204" || !r.HasBody() {
		return BodyEmpty
	}
	if r.IsJSON() {
		return BodyJSON
	}
	return BodyText
}

// RuleKind identifies a response handling step
type RuleKind int

const (
	// RuleFailure rejects statuses outside 2xx/3xx with the body text as message
	RuleFailure RuleKind = iota
	// RuleNoContent answers a 204 without reading the body
	RuleNoContent
	// RuleBucket reads the body as Body when the status is one of Codes
	RuleBucket
	// RuleSuccess reads the body as Body unconditionally
	RuleSuccess
	// RuleFallback reads JSON when the content-type header says so, text otherwise
	RuleFallback
)

// ResponseRule is one step of response handling. Steps are evaluated in
// order and the first one that applies produces the result.
type ResponseRule struct {
	Kind  RuleKind
	Body  BodyKind
	Codes []int
}

// Rules returns the ordered response handling steps. Full responses check
// 204, then the json, text and empty buckets, then fall back to sniffing.
// Unwrapped responses fail on error statuses, check 204, then read the body
// of the sole success response.
func (c Classification) Rules() []ResponseRule {
	var rules []ResponseRule

	if !c.FullResponse {
		rules = append(rules, ResponseRule{Kind: RuleFailure})
		if c.Has204 {
			rules = append(rules, ResponseRule{Kind: RuleNoContent, Body: BodyEmpty, Codes: []int{204}})
		}
		body := BodyText
		if c.SuccessKind == BodyJSON {
			body = BodyJSON
		}
		return append(rules, ResponseRule{Kind: RuleSuccess, Body: body})
	}

	if c.Has204 {
		rules = append(rules, ResponseRule{Kind: RuleNoContent, Body: BodyEmpty, Codes: []int{204}})
	}
	for _, kind := range bucketOrder {
		// 204 was answered above
		codes := slices.DeleteFunc(slices.Clone(c.Bucket(kind)), func(code int) bool { return code == 204 })
		if len(codes) > 0 {
			rules = append(rules, ResponseRule{Kind: RuleBucket, Body: kind, Codes: codes})
		}
	}
	return append(rules, ResponseRule{Kind: RuleFallback})
}
