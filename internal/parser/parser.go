package parser

import (
	"fmt"
	"os"

	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Parser holds a loaded OpenAPI 3 document
type Parser struct {
	document libopenapi.Document
	model    *libopenapi.DocumentModel[v3.Document]
	warnings []string
}

// ParseFile parses an OpenAPI specification file and returns a Parser instance
func ParseFile(filePath string) (*Parser, error) {
	specBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}

	return ParseBytes(specBytes)
}

// ParseBytes parses an OpenAPI document held in memory (JSON or YAML)
func ParseBytes(specBytes []byte) (*Parser, error) {
	document, err := libopenapi.NewDocument(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	model, errs := document.BuildV3Model()
	if model == nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}

	p := &Parser{document: document, model: model}
	// The model is usable despite errors such as circular references.
	if errs != nil {
		p.warnings = append(p.warnings, fmt.Sprintf("%v", errs))
	}
	return p, nil
}

// Warnings returns non-fatal problems reported while building the model
func (p *Parser) Warnings() []string {
	return p.warnings
}

// Title returns the info.title of the document, or an empty string
func (p *Parser) Title() string {
	if p.model.Model.Info == nil {
		return ""
	}
	return p.model.Model.Info.Title
}

// GetServerURLs returns the server URLs from the OpenAPI spec
func (p *Parser) GetServerURLs() []string {
	var urls []string
	for _, server := range p.model.Model.Servers {
		if server != nil && server.URL != "" {
			urls = append(urls, server.URL)
		}
	}

	if len(urls) == 0 {
		return []string{"http://localhost"}
	}
	return urls
}

// Operations flattens the paths of the document into operations, in document
// order: paths first, then the methods of each path. Every operation is given
// an identifier by deriver, which sees the identifiers produced so far.
// Reordering the document can change which operation keeps a plain name.
func (p *Parser) Operations(deriver naming.Deriver) []models.Operation {
	if deriver == nil {
		deriver = naming.DefaultDeriver{}
	}

	var operations []models.Operation
	paths := p.model.Model.Paths
	if paths == nil || paths.PathItems == nil {
		return operations
	}

	taken := naming.IDSet{}

	// Iterate over ordered map
	for pair := paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		pathItem := pair.Value()
		if pathItem == nil {
			continue
		}

		// GetOperations orders methods by their position in the source
		for opPair := pathItem.GetOperations().First(); opPair != nil; opPair = opPair.Next() {
			method, ok := models.ParseMethod(opPair.Key())
			if !ok || opPair.Value() == nil {
				continue
			}

			op := convertOperation(path, method, pathItem, opPair.Value())
			op.OperationID = deriver.Derive(path, method, op, taken)
			taken = taken.With(op.OperationID)

			operations = append(operations, op)
		}
	}

	return operations
}

// Lookup finds an operation by its derived identifier
func Lookup(operations []models.Operation, operationID string) (models.Operation, error) {
	for _, op := range operations {
		if op.OperationID == operationID {
			return op, nil
		}
	}
	return models.Operation{}, fmt.Errorf("operation not found: %s", operationID)
}

func convertOperation(path string, method models.Method, pathItem *v3.PathItem, operation *v3.Operation) models.Operation {
	op := models.Operation{
		Path:       path,
		Method:     method,
		DeclaredID: operation.OperationId,
		Summary:    operation.Summary,
		Parameters: mergeParameters(pathItem.Parameters, operation.Parameters),
	}
	if operation.Tags != nil {
		op.Tags = append(op.Tags, operation.Tags...)
	}

	if rb := operation.RequestBody; rb != nil {
		body := &models.Body{Required: rb.Required != nil && *rb.Required}
		if rb.Content != nil {
			if first := rb.Content.First(); first != nil {
				body.ContentType = first.Key()
				if first.Value() != nil {
					body.Schema = first.Value().Schema
				}
			}
		}
		op.RequestBody = body
	}

	if operation.Responses != nil {
		if operation.Responses.Codes != nil {
			for pair := operation.Responses.Codes.First(); pair != nil; pair = pair.Next() {
				op.Responses = append(op.Responses, convertResponse(pair.Key(), pair.Value()))
			}
		}
		if operation.Responses.Default != nil {
			op.Responses = append(op.Responses, convertResponse("default", operation.Responses.Default))
		}
	}

	return op
}

// mergeParameters applies operation parameters over path-level ones; a
// parameter is identified by name and location.
func mergeParameters(pathLevel, operationLevel []*v3.Parameter) []models.Parameter {
	var out []models.Parameter
	index := make(map[string]int)

	add := func(param *v3.Parameter) {
		if param == nil {
			return
		}
		converted := models.Parameter{
			Name:        param.Name,
			In:          models.Location(param.In),
			Required:    param.Required != nil && *param.Required,
			Description: param.Description,
			Schema:      param.Schema,
		}
		key := param.In + ":" + param.Name
		if i, ok := index[key]; ok {
			out[i] = converted
			return
		}
		index[key] = len(out)
		out = append(out, converted)
	}

	for _, param := range pathLevel {
		add(param)
	}
	for _, param := range operationLevel {
		add(param)
	}
	return out
}

// convertResponse keeps the first declared media type; none means an empty body
func convertResponse(status string, response *v3.Response) models.Response {
	out := models.Response{StatusCode: status}
	if response == nil {
		return out
	}
	out.Description = response.Description
	if response.Content != nil {
		if first := response.Content.First(); first != nil {
			out.ContentType = first.Key()
			if first.Value() != nil {
				out.Schema = first.Value().Schema
			}
		}
	}
	return out
}
