package runtime

import "errors"

var (
	// ErrUnknownOperation is returned when calling an identifier the module does not know
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidRequest is returned when a request value has an unsupported shape
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMissingPathParameter is returned when a path token has no value
	ErrMissingPathParameter = errors.New("missing path parameter")
)

// ResponseError is returned in unwrapped mode when the status is outside
// 2xx/3xx. Its message is the raw response body.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return e.Message
}
