// Package generator turns flattened operations into frontend client source.
package generator

import (
	"fmt"

	"github.com/moamenhredeen/oas/internal/codewriter"
	"github.com/moamenhredeen/oas/internal/logging"
	"github.com/moamenhredeen/oas/internal/models"
	"github.com/moamenhredeen/oas/internal/naming"
	"github.com/moamenhredeen/oas/internal/typemapper"
)

// TypeMapper writes the request and response declarations of one operation
type TypeMapper interface {
	WriteOperation(w *codewriter.Writer, op models.Operation, fullResponse bool)
}

// Generator emits the implementation and type declarations of a client
type Generator struct {
	config models.GenerationConfig
	logger logging.Logger
	mapper TypeMapper
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger receiving generation warnings
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithTypeMapper replaces the TypeScript type mapper
func WithTypeMapper(mapper TypeMapper) Option {
	return func(g *Generator) {
		g.mapper = mapper
	}
}

// New validates config and creates a Generator
func New(config models.GenerationConfig, opts ...Option) (*Generator, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	g := &Generator{
		config: config,
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.NopLogger{}
	}
	if g.mapper == nil {
		g.mapper = typemapper.New(config)
	}
	return g, nil
}

// Result is the output of one generation run
type Result struct {
	Artifact models.Artifact
	Report   models.GenerationReport
}

// plannedOperation carries the decisions shared by both emitters
type plannedOperation struct {
	op    models.Operation
	class Classification
	route Routing
}

// Generate emits the client for operations, which must be in document order
// and carry unique identifiers. Each operation is classified once, so a
// forced full response is warned about once per run.
func (g *Generator) Generate(operations []models.Operation) (Result, error) {
	plan, err := g.plan(operations)
	if err != nil {
		return Result{}, err
	}

	report := models.GenerationReport{
		ClientName: g.config.ClientName,
		Dialect:    g.config.Dialect,
		Operations: []models.OperationReport{},
	}
	for _, p := range plan {
		report.AddOperation(models.OperationReport{
			OperationID:  p.op.OperationID,
			Method:       p.op.Method.Upper(),
			Path:         p.op.Path,
			FullResponse: p.class.FullResponse,
			Forced:       p.class.Forced,
			Buckets:      p.class.Buckets,
			PathParams:   p.route.Path,
			QueryParams:  p.route.Query,
			HeaderParams: p.route.Header,
		})
	}

	g.logger.Debug("generated client",
		"name", g.config.ClientName,
		"dialect", string(g.config.Dialect),
		"operations", report.TotalOperations,
		"forced", report.ForcedOperations)

	return Result{
		Artifact: models.Artifact{
			Types:          g.emitTypes(plan),
			Implementation: g.emitImplementation(plan),
		},
		Report: report,
	}, nil
}

func (g *Generator) plan(operations []models.Operation) ([]plannedOperation, error) {
	taken := naming.IDSet{}
	typeNames := make(map[string]string, len(operations))
	plan := make([]plannedOperation, 0, len(operations))
	for _, op := range operations {
		if taken.Has(op.OperationID) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperation, op.OperationID)
		}
		typeName := naming.TypeName(op.OperationID)
		if other, ok := typeNames[typeName]; ok {
			return nil, fmt.Errorf("%w: %s and %s both declare %s types", ErrDuplicateOperation, other, op.OperationID, typeName)
		}
		taken = taken.With(op.OperationID)
		typeNames[typeName] = op.OperationID

		plan = append(plan, plannedOperation{
			op:    op,
			class: Classify(op, g.config.FullResponse, g.logger),
			route: Route(op),
		})
	}
	return plan, nil
}

func validateConfig(config models.GenerationConfig) error {
	if config.Dialect != models.DialectTyped && config.Dialect != models.DialectUntyped {
		return &ConfigError{Option: "language", Value: string(config.Dialect), Message: "must be 'ts' or 'js'"}
	}
	if config.ClientName == "" {
		return &ConfigError{Option: "name", Value: config.ClientName, Message: "client name is required"}
	}
	if !naming.IsIdentifier(naming.TypeName(config.ClientName)) {
		return &ConfigError{Option: "name", Value: config.ClientName, Message: "does not produce a valid type name"}
	}
	return nil
}
