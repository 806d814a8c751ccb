package typemapper

import (
	"testing"

	"github.com/moamenhredeen/oas/internal/codewriter"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadOperation(t *testing.T, id string) models.Operation {
	t.Helper()
	p, err := parser.ParseFile("../../testdata/movies.yaml")
	require.NoError(t, err)
	op, err := parser.Lookup(p.Operations(nil), id)
	require.NoError(t, err)
	return op
}

func TestTypeOfObject(t *testing.T) {
	m := New(models.DefaultConfig())
	op := loadOperation(t, "getMovie")

	movie := m.TypeOf(op.Responses[0].Schema)
	assert.Equal(t, `{
  id: string;
  title: string;
  year?: number;
  rating?: number | null;
  genre?: 'drama' | 'comedy';
  tags?: Array<string>;
  metadata?: Record<string, string>;
}`, movie)
}

func TestTypeOfArray(t *testing.T) {
	m := New(models.DefaultConfig())
	op := loadOperation(t, "getMovies")

	list := m.TypeOf(op.Responses[0].Schema)
	assert.Contains(t, list, "Array<{\n  id: string;")
}

func TestTypeOfNil(t *testing.T) {
	assert.Equal(t, "unknown", New(models.DefaultConfig()).TypeOf(nil))
}

func TestPropsOptional(t *testing.T) {
	config := models.DefaultConfig()
	config.PropsOptional = true
	m := New(config)
	op := loadOperation(t, "getMovie")

	movie := m.TypeOf(op.Responses[0].Schema)
	assert.Contains(t, movie, "id?: string;")
	assert.Contains(t, movie, "title?: string;")
}

func TestCircularReference(t *testing.T) {
	doc := `openapi: 3.0.0
info: {title: t, version: '1'}
paths:
  /nodes:
    get:
      operationId: getNode
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Node'
components:
  schemas:
    Node:
      type: object
      properties:
        name:
          type: string
        children:
          type: array
          items:
            $ref: '#/components/schemas/Node'
`
	p, err := parser.ParseBytes([]byte(doc))
	require.NoError(t, err)
	ops := p.Operations(nil)
	require.Len(t, ops, 1)

	got := New(models.DefaultConfig()).TypeOf(ops[0].Responses[0].Schema)
	assert.Equal(t, "{\n  name?: string;\n  children?: Array<unknown>;\n}", got)
}

func TestWriteOperationFlattenedRequest(t *testing.T) {
	m := New(models.DefaultConfig())
	w := codewriter.New()
	m.WriteOperation(w, loadOperation(t, "getMovie"), false)

	out := w.String()
	assert.Contains(t, out, "export type GetMovieRequest = {\n  id: string;\n  fields?: Array<string>;\n  'x-trace-id'?: string;\n}\n")
	assert.Contains(t, out, "export type GetMovieResponseNotFound = {\n  message?: string;\n}\n")
	assert.Contains(t, out, "export type GetMovieResponses =\n  GetMovieResponseOK\n")
}

func TestWriteOperationBodyMerged(t *testing.T) {
	m := New(models.DefaultConfig())
	w := codewriter.New()
	m.WriteOperation(w, loadOperation(t, "updateMovie"), true)

	out := w.String()
	assert.Contains(t, out, "export type UpdateMovieRequest = {\n  id: string;\n  title: string;\n  year?: number;\n}\n")
	assert.Contains(t, out, "  FullResponse<UpdateMovieResponseOK, 200>\n  | FullResponse<UpdateMovieResponseCreated, 201>\n")
}

func TestWriteOperationCookieIgnored(t *testing.T) {
	m := New(models.DefaultConfig())
	w := codewriter.New()
	m.WriteOperation(w, loadOperation(t, "getMovies"), false)

	out := w.String()
	assert.Contains(t, out, "limit?: number;")
	assert.NotContains(t, out, "session")
}

func TestWriteOperationFullRequest(t *testing.T) {
	config := models.DefaultConfig()
	config.FullRequest = true
	m := New(config)
	w := codewriter.New()
	m.WriteOperation(w, loadOperation(t, "getMovie"), false)

	assert.Contains(t, w.String(), `export type GetMovieRequest = {
  path: {
    id: string;
  };
  query?: {
    fields?: Array<string>;
  };
  headers?: {
    'x-trace-id'?: string;
  };
}`)
}

func TestWriteOperationWithoutParameters(t *testing.T) {
	m := New(models.DefaultConfig())
	w := codewriter.New()
	m.WriteOperation(w, loadOperation(t, "health"), false)

	out := w.String()
	assert.Contains(t, out, "export type HealthRequest = Record<string, never>")
	assert.Contains(t, out, "export type HealthResponseOK = string")
}
