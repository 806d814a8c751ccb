package models

// Buckets groups declared status codes by how their body is parsed
type Buckets struct {
	JSON  []int `json:"json" yaml:"json"`
	Text  []int `json:"text" yaml:"text"`
	Empty []int `json:"empty" yaml:"empty"`
}

// OperationReport summarizes how a single operation was generated
type OperationReport struct {
	// Operation details
	OperationID string `json:"operation_id" yaml:"operation_id"`
	Method      string `json:"method" yaml:"method"`
	Path        string `json:"path" yaml:"path"`

	// Response handling
	FullResponse bool    `json:"full_response" yaml:"full_response"`
	Forced       bool    `json:"forced" yaml:"forced"`
	Buckets      Buckets `json:"buckets" yaml:"buckets"`

	// Parameter routing
	PathParams   []string `json:"path_params,omitempty" yaml:"path_params,omitempty"`
	QueryParams  []string `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	HeaderParams []string `json:"header_params,omitempty" yaml:"header_params,omitempty"`
}

// GenerationReport represents the overall result of a generation run
type GenerationReport struct {
	ClientName       string            `json:"client_name" yaml:"client_name"`
	Dialect          Dialect           `json:"dialect" yaml:"dialect"`
	TotalOperations  int               `json:"total_operations" yaml:"total_operations"`
	FullResponseOps  int               `json:"full_response_operations" yaml:"full_response_operations"`
	ForcedOperations int               `json:"forced_operations" yaml:"forced_operations"`
	Operations       []OperationReport `json:"operations" yaml:"operations"`
}

// AddOperation adds an operation summary to the report
func (r *GenerationReport) AddOperation(op OperationReport) {
	r.TotalOperations++
	r.Operations = append(r.Operations, op)
	if op.FullResponse {
		r.FullResponseOps++
	}
	if op.Forced {
		r.ForcedOperations++
	}
}
