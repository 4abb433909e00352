// Package executor builds and fires one try-console request per
// invocation: idle -> validating -> building -> sending -> terminal state.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ShayestehHS/apidock/internal/models"
)

var pathTokenPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ValidationError reports required inputs left empty. The invocation is
// aborted before anything is built or sent.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required path parameters: %s", strings.Join(e.Missing, ", "))
}

// BuildError reports path template tokens left unresolved after
// substitution. This is a building-time defect, not a network error.
type BuildError struct {
	Unresolved []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("unresolved path parameters: %s", strings.Join(e.Unresolved, ", "))
}

// Executor executes try-console requests. One network call per
// invocation, no retry, transport-default timeout.
type Executor struct {
	client *http.Client
}

// NewExecutor creates an executor. A nil client uses http.DefaultClient.
func NewExecutor(client *http.Client) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{client: client}
}

// Validate checks that every required path parameter has a non-empty
// value. All missing names are reported together.
func Validate(input models.ExecutionInput, required []string) error {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(input.PathParams[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Build resolves the request: path tokens substituted, query string
// percent-encoded, headers merged (per-request over stored settings,
// case-insensitively deduplicated), body attached per method and shape.
func Build(input models.ExecutionInput, stored models.StoredSettings) (models.RequestSpec, error) {
	path, err := SubstitutePath(input.PathTmpl, input.PathParams)
	if err != nil {
		return models.RequestSpec{}, err
	}

	fullURL := strings.TrimSuffix(stored.Host, "/") + path
	if query := encodeQuery(input.QueryParams); query != "" {
		fullURL += "?" + query
	}

	headers := mergeHeaders(stored.Headers, input.Headers)

	spec := models.RequestSpec{
		URL:     fullURL,
		Method:  strings.ToUpper(input.Method),
		Headers: headers,
	}

	// GET and DELETE never carry a body regardless of editor content.
	if spec.Method == http.MethodGet || spec.Method == http.MethodDelete {
		return spec, nil
	}

	if input.Body != "" {
		spec.Body = input.Body
		if json.Valid([]byte(input.Body)) {
			spec.IsJSON = true
			if !hasHeader(headers, "Content-Type") {
				headers["Content-Type"] = "application/json"
			}
		}
	}

	return spec, nil
}

// SubstitutePath replaces {name} tokens with their values. A token with an
// explicitly supplied value is substituted even when empty; a token with
// no value at all is flagged.
func SubstitutePath(template string, params map[string]string) (string, error) {
	var unresolved []string
	result := pathTokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := params[name]; ok {
			return url.PathEscape(value)
		}
		unresolved = append(unresolved, name)
		return match
	})

	if len(unresolved) > 0 {
		return "", &BuildError{Unresolved: unresolved}
	}
	return result, nil
}

// Execute runs the full invocation. Validation and build failures are
// returned as errors; transport failures and HTTP error statuses are both
// terminal results (failed and succeeded respectively).
func (e *Executor) Execute(ctx context.Context, input models.ExecutionInput, required []string, stored models.StoredSettings) (models.RequestSpec, models.ExecutionResult, error) {
	if err := Validate(input, required); err != nil {
		return models.RequestSpec{}, models.ExecutionResult{}, err
	}

	spec, err := Build(input, stored)
	if err != nil {
		return models.RequestSpec{}, models.ExecutionResult{}, err
	}

	result := e.send(ctx, spec)
	return spec, result, nil
}

// send performs exactly one network call and renders the outcome.
func (e *Executor) send(ctx context.Context, spec models.RequestSpec) models.ExecutionResult {
	var bodyReader io.Reader
	if spec.Body != "" {
		bodyReader = bytes.NewReader([]byte(spec.Body))
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, bodyReader)
	if err != nil {
		return models.ExecutionResult{State: models.StateFailed, Error: err.Error()}
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		// Transport failure: DNS, refused connection, CORS-equivalent.
		// Distinct from an HTTP error status, which is a completion.
		return models.ExecutionResult{
			State:     models.StateFailed,
			Error:     err.Error(),
			ElapsedMs: elapsed.Milliseconds(),
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	result := models.ExecutionResult{
		State:      models.StateSucceeded,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    flattenHeaders(resp.Header),
		Body:       string(body),
		Pretty:     prettyJSON(body),
		ElapsedMs:  elapsed.Milliseconds(),
	}

	if resp.StatusCode >= 400 {
		result.ErrorInfo = extractErrorDetail(body)
	}

	return result
}

// prettyJSON re-indents a JSON body; non-JSON bodies yield "".
func prettyJSON(body []byte) string {
	if !json.Valid(body) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return ""
	}
	return buf.String()
}

// extractErrorDetail pulls a structured message out of an error body: a
// top-level `detail` field when present, otherwise every top-level key
// flattened to "key: value" lines.
func extractErrorDetail(body []byte) *models.ErrorDetail {
	if !gjson.ValidBytes(body) {
		return nil
	}

	if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
		return &models.ErrorDetail{Detail: detail.String()}
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil
	}

	var fields []string
	parsed.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, fmt.Sprintf("%s: %s", key.String(), value.String()))
		return true
	})
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &models.ErrorDetail{Fields: fields}
}

// encodeQuery percent-encodes non-empty query parameters.
func encodeQuery(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return values.Encode()
}

// mergeHeaders merges stored settings headers under explicit per-request
// headers, deduplicating keys case-insensitively.
func mergeHeaders(stored, explicit map[string]string) map[string]string {
	merged := make(map[string]string, len(stored)+len(explicit))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range explicit {
		// Remove any stored key that differs only by case.
		for existing := range merged {
			if strings.EqualFold(existing, k) && existing != k {
				delete(merged, existing)
			}
		}
		merged[k] = v
	}
	return merged
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, values := range h {
		if len(values) > 0 {
			out[k] = values[0]
		}
	}
	return out
}
