package models

// Execution states for one try-console invocation.
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateBuilding   = "building"
	StateSending    = "sending"
	StateSucceeded  = "succeeded"
	StateFailed     = "failed"
)

// ExecutionInput is what the console submits for one invocation.
type ExecutionInput struct {
	OperationID string            `json:"operationId"`
	Method      string            `json:"method"`
	PathTmpl    string            `json:"path"`
	PathParams  map[string]string `json:"pathParams,omitempty"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        string            `json:"body,omitempty"`
}

// RequestSpec is the fully resolved request, built fresh per execution and
// discarded after the send.
type RequestSpec struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	IsJSON  bool              `json:"isJson"`
}

// ErrorDetail is the structured extraction from a 4xx/5xx body: the
// `detail` field when present, otherwise top-level keys flattened to
// "key: value" lines.
type ErrorDetail struct {
	Detail string   `json:"detail,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// ExecutionResult is the terminal record of one invocation.
type ExecutionResult struct {
	State      string            `json:"state"` // succeeded or failed
	StatusCode int               `json:"statusCode,omitempty"`
	Status     string            `json:"status,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Pretty     string            `json:"pretty,omitempty"` // JSON pretty-print of Body when it parses
	ErrorInfo  *ErrorDetail      `json:"errorInfo,omitempty"`
	Error      string            `json:"error,omitempty"` // transport error message (failed state only)
	ElapsedMs  int64             `json:"elapsedMs"`
}
