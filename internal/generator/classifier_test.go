package generator

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/logging"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	logging.NopLogger
	warnings []string
}

func (r *recordingLogger) Warn(msg string, _ ...any) {
	r.warnings = append(r.warnings, msg)
}

func (r *recordingLogger) With(_ ...any) logging.Logger {
	return r
}

func response(status, contentType string) models.Response {
	return models.Response{StatusCode: status, ContentType: contentType}
}

func TestClassifySingleSuccess(t *testing.T) {
	op := models.Operation{
		OperationID: "getMovie",
		Responses: []models.Response{
			response("200", "application/json"),
			response("404", "application/problem+json"),
		},
	}

	c := Classify(op, false, nil)
	assert.False(t, c.FullResponse)
	assert.False(t, c.Forced)
	assert.Equal(t, BodyJSON, c.SuccessKind)
	assert.Equal(t, []int{200, 404}, c.Buckets.JSON)

	rules := c.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, RuleFailure, rules[0].Kind)
	assert.Equal(t, ResponseRule{Kind: RuleSuccess, Body: BodyJSON}, rules[1])
}

func TestClassifySeveralSuccessesForcesFullResponse(t *testing.T) {
	logger := &recordingLogger{}
	op := models.Operation{
		OperationID: "updateMovie",
		Responses: []models.Response{
			response("200", "application/json"),
			response("201", "application/json"),
		},
	}

	c := Classify(op, false, logger)
	assert.True(t, c.FullResponse)
	assert.True(t, c.Forced)
	assert.Empty(t, logger.warnings)

	configured := Classify(op, true, logger)
	assert.True(t, configured.FullResponse)
	assert.False(t, configured.Forced)
}

func TestClassifyNoSuccessForcesFullResponse(t *testing.T) {
	op := models.Operation{
		OperationID: "broken",
		Responses:   []models.Response{response("default", "application/json")},
	}

	c := Classify(op, false, nil)
	assert.True(t, c.FullResponse)
	assert.Empty(t, c.Buckets.JSON, "default is not bucketed")
	assert.Equal(t, []ResponseRule{{Kind: RuleFallback}}, c.Rules())
}

func TestClassifyEmptySuccessWarns(t *testing.T) {
	op := models.Operation{
		OperationID: "deleteMovie",
		Responses: []models.Response{
			response("204", ""),
			response("404", "application/json"),
		},
	}

	logger := &recordingLogger{}
	c := Classify(op, false, logger)
	assert.True(t, c.FullResponse)
	assert.True(t, c.Forced)
	assert.True(t, c.Has204)
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "DeleteMovieResponses")

	quiet := &recordingLogger{}
	c = Classify(op, true, quiet)
	assert.True(t, c.FullResponse)
	assert.False(t, c.Forced)
	assert.Empty(t, quiet.warnings)
}

func TestClassifyBuckets(t *testing.T) {
	op := models.Operation{
		OperationID: "mixed",
		Responses: []models.Response{
			response("200", "application/json; charset=utf-8"),
			response("201", ""),
			response("204", ""),
			response("404", "application/json"),
			response("500", "text/plain"),
			response("4XX", "text/plain"),
			response("default", "application/json"),
		},
	}

	c := Classify(op, true, nil)
	assert.Equal(t, []int{200, 404}, c.Buckets.JSON)
	assert.Equal(t, []int{500}, c.Buckets.Text)
	assert.Equal(t, []int{201, 204}, c.Buckets.Empty)

	assert.Equal(t, []ResponseRule{
		{Kind: RuleNoContent, Body: BodyEmpty, Codes: []int{204}},
		{Kind: RuleBucket, Body: BodyJSON, Codes: []int{200, 404}},
		{Kind: RuleBucket, Body: BodyText, Codes: []int{500}},
		{Kind: RuleBucket, Body: BodyEmpty, Codes: []int{201}},
		{Kind: RuleFallback},
	}, c.Rules())
	assert.Equal(t, []int{201, 204}, c.Buckets.Empty, "rules must not alter the buckets")
}

func TestClassifyTextSuccess(t *testing.T) {
	op := models.Operation{
		OperationID: "health",
		Responses:   []models.Response{response("200", "text/plain")},
	}

	c := Classify(op, false, nil)
	assert.False(t, c.FullResponse)
	assert.Equal(t, BodyText, c.SuccessKind)
	assert.Equal(t, ResponseRule{Kind: RuleSuccess, Body: BodyText}, c.Rules()[1])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, BodyEmpty, KindOf(response("204", "application/json")))
	assert.Equal(t, BodyEmpty, KindOf(response("200", "")))
	assert.Equal(t, BodyJSON, KindOf(response("200", "application/vnd.api+json")))
	assert.Equal(t, BodyText, KindOf(response("200", "text/html")))
	assert.Equal(t, BodyText, KindOf(response("200", "application/octet-stream")))
}
