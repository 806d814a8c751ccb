// Package runtime executes API operations the way the generated clients do,
// so their behaviour can be exercised from Go and from the command line.
package runtime

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/moamenhredeen/oas/internal/generator"
	"github.com/moamenhredeen/oas/internal/logging"
	"github.com/moamenhredeen/oas/internal/models"
	"golang.org/x/time/rate"
)

// FetchParams are merged into every request after the computed values
type FetchParams struct {
	// Headers replaces the computed request headers entirely when non-nil
	Headers map[string]string
	// Timeout bounds a single call, zero means no limit
	Timeout time.Duration
}

// BuildOptions configures Module.Build
type BuildOptions struct {
	Headers map[string]string
}

// Option configures a Module
type Option func(*Module)

// WithHTTPClient sets the client used to send requests
func WithHTTPClient(client *http.Client) Option {
	return func(m *Module) {
		m.client = client
	}
}

// WithRateLimit makes every call wait for the limiter
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(m *Module) {
		m.limiter = limiter
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(m *Module) {
		m.logger = logger
	}
}

type operation struct {
	op    models.Operation
	class generator.Classification
	route generator.Routing
}

// Module holds the shared client state: base URL, default headers and
// default fetch params. Setters replace values wholesale and calls read them
// when they start, so concurrent setters and calls race the way the
// generated module does.
type Module struct {
	mu             sync.RWMutex
	baseURL        string
	defaultHeaders map[string]string
	fetchParams    FetchParams

	config     models.GenerationConfig
	operations map[string]operation
	order      []string
	client     *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

// NewModule prepares operations for calling. Responses are classified once,
// with the same rules the generator applies.
func NewModule(operations []models.Operation, config models.GenerationConfig, opts ...Option) (*Module, error) {
	m := &Module{
		defaultHeaders: map[string]string{},
		config:         config,
		operations:     make(map[string]operation, len(operations)),
		client:         http.DefaultClient,
		logger:         logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, op := range operations {
		if _, ok := m.operations[op.OperationID]; ok {
			return nil, fmt.Errorf("%w: %s", generator.ErrDuplicateOperation, op.OperationID)
		}
		m.operations[op.OperationID] = operation{
			op:    op,
			class: generator.Classify(op, config.FullResponse, m.logger),
			route: generator.Route(op),
		}
		m.order = append(m.order, op.OperationID)
	}
	return m, nil
}

// Operations returns the operation identifiers in document order
func (m *Module) Operations() []string {
	return append([]string(nil), m.order...)
}

// SetBaseURL sets the base URL used by Module.Call, without a trailing slash
func (m *Module) SetBaseURL(newURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = sanitizeURL(newURL)
}

// BaseURL returns the current base URL
func (m *Module) BaseURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseURL
}

// SetDefaultHeaders replaces the headers sent with every request
func (m *Module) SetDefaultHeaders(headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultHeaders = maps.Clone(headers)
}

// SetDefaultFetchParams replaces the params merged into every request
func (m *Module) SetDefaultFetchParams(params FetchParams) {
	params.Headers = maps.Clone(params.Headers)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchParams = params
}

// Call invokes an operation against the current base URL
func (m *Module) Call(ctx context.Context, operationID string, request any) (any, error) {
	return m.call(ctx, m.BaseURL(), operationID, request)
}

// Build adopts url as the base URL, replaces the default headers when
// options carry some, and returns a client bound to url. Later base URL
// changes do not affect the client; header and fetch param changes do.
func (m *Module) Build(url string, options *BuildOptions) *Client {
	url = sanitizeURL(url)
	m.SetBaseURL(url)
	if options != nil && options.Headers != nil {
		m.SetDefaultHeaders(options.Headers)
	}
	return &Client{module: m, baseURL: url}
}

// Client is a module view bound to a base URL
type Client struct {
	module  *Module
	baseURL string
}

// BaseURL returns the URL the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call invokes an operation against the client's base URL
func (c *Client) Call(ctx context.Context, operationID string, request any) (any, error) {
	return c.module.call(ctx, c.baseURL, operationID, request)
}

// SetDefaultHeaders replaces the module's default headers
func (c *Client) SetDefaultHeaders(headers map[string]string) {
	c.module.SetDefaultHeaders(headers)
}

// SetDefaultFetchParams replaces the module's default fetch params
func (c *Client) SetDefaultFetchParams(params FetchParams) {
	c.module.SetDefaultFetchParams(params)
}

func (m *Module) call(ctx context.Context, baseURL, operationID string, request any) (any, error) {
	o, ok := m.operations[operationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operationID)
	}

	m.mu.RLock()
	headers := m.defaultHeaders
	params := m.fetchParams
	m.mu.RUnlock()

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	req, err := m.buildRequest(ctx, baseURL, o, request, headers, params)
	if err != nil {
		return nil, err
	}

	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	m.logger.Debug("calling operation", "operation", operationID, "method", req.Method, "url", req.URL.String())

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return readResponse(resp, o.class)
}

// httpClient drops the cookie jar unless credentialed requests are enabled
func (m *Module) httpClient() *http.Client {
	if m.config.WithCredentials || m.client.Jar == nil {
		return m.client
	}
	client := *m.client
	client.Jar = nil
	return &client
}

func sanitizeURL(url string) string {
	return strings.TrimSuffix(url, "/")
}
