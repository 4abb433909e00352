// Package merge combines a user override document into an auto-generated
// OpenAPI document, keyed by operation id.
package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ShayestehHS/apidock/internal/models"
)

// operationMethods are the path item keys that hold operations.
var operationMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Merger applies operation overrides to a generated OpenAPI document.
type Merger struct{}

// NewMerger creates a new merger.
func NewMerger() *Merger {
	return &Merger{}
}

// LoadOverrides reads the override document. A missing file is not an
// error: it yields an empty override set.
func LoadOverrides(path string) (map[string]models.OperationOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.OperationOverride{}, nil
		}
		return nil, fmt.Errorf("failed to read override file %s: %w", path, err)
	}

	overrides := make(map[string]models.OperationOverride)
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse override file %s: %w", path, err)
	}

	return overrides, nil
}

// Merge applies the overrides to the generated document and returns the
// merged JSON. Unknown operation ids and invalid query parameter
// classifications abort the merge.
func (m *Merger) Merge(schema []byte, overrides map[string]models.OperationOverride) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse generated schema: %w", err)
	}

	index := indexOperations(doc)

	// Deterministic application order so the first error is stable.
	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		op, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("override references unknown operation id %q", id)
		}
		if err := applyOverride(op, overrides[id]); err != nil {
			return nil, fmt.Errorf("operation %q: %w", id, err)
		}
	}

	if err := validateQueryParams(doc); err != nil {
		return nil, err
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	// The merged document must still be a loadable OpenAPI 3 spec.
	loader := openapi3.NewLoader()
	parsed, err := loader.LoadFromData(merged)
	if err != nil {
		return nil, fmt.Errorf("merged schema is not a valid OpenAPI document: %w", err)
	}
	// queryparam_type is not an x- extension, so the validator must be
	// told to tolerate it as a sibling field.
	if err := parsed.Validate(loader.Context, openapi3.AllowExtraSiblingFields("queryparam_type")); err != nil {
		return nil, fmt.Errorf("merged schema failed validation: %w", err)
	}

	return merged, nil
}

// indexOperations maps operation id to the operation object for every
// operation in the document.
func indexOperations(doc map[string]any) map[string]map[string]any {
	index := make(map[string]map[string]any)

	paths, _ := doc["paths"].(map[string]any)
	for _, item := range paths {
		pathItem, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, method := range operationMethods {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			if id, ok := op["operationId"].(string); ok && id != "" {
				index[id] = op
			}
		}
	}

	return index
}

// applyOverride mutates one operation object in place. Append semantics
// apply only to list-shaped fields named in append_fields; scalar fields
// always replace.
func applyOverride(op map[string]any, ov models.OperationOverride) error {
	if ov.Description != "" {
		op["description"] = ov.Description
	}

	if len(ov.Parameters) > 0 {
		incoming, err := toAnySlice(ov.Parameters)
		if err != nil {
			return fmt.Errorf("invalid parameters override: %w", err)
		}
		existing, isList := op["parameters"].([]any)
		if ov.Appends("parameters") && isList {
			// Existing order first, then override order. Duplicates are
			// the author's responsibility.
			op["parameters"] = append(existing, incoming...)
		} else {
			op["parameters"] = incoming
		}
	}

	if len(ov.RequestBody) > 0 {
		var body any
		if err := json.Unmarshal(ov.RequestBody, &body); err != nil {
			return fmt.Errorf("invalid requestBody override: %w", err)
		}
		op["requestBody"] = body
	}

	if len(ov.Responses) > 0 {
		responses := make(map[string]any, len(ov.Responses))
		for status, raw := range ov.Responses {
			var resp any
			if err := json.Unmarshal(raw, &resp); err != nil {
				return fmt.Errorf("invalid responses override for status %s: %w", status, err)
			}
			responses[status] = resp
		}
		op["responses"] = responses
	}

	if secure, ok := ov.Secure(); ok {
		op["x-auth-required"] = secure
	}

	return nil
}

// validateQueryParams checks the union of generated and override
// parameters: every query parameter must carry a valid classification.
// Fails on the first offender, identifying operation and parameter.
func validateQueryParams(doc map[string]any) error {
	paths, _ := doc["paths"].(map[string]any)

	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		pathItem, ok := paths[p].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range operationMethods {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			opID, _ := op["operationId"].(string)
			params, _ := op["parameters"].([]any)
			for _, raw := range params {
				param, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				if in, _ := param["in"].(string); in != "query" {
					continue
				}
				name, _ := param["name"].(string)
				qpType, _ := param["queryparam_type"].(string)
				if !validQueryParamType(qpType) {
					return fmt.Errorf(
						"operation %q: query parameter %q has missing or invalid queryparam_type %q",
						opID, name, qpType)
				}
			}
		}
	}

	return nil
}

func validQueryParamType(t string) bool {
	for _, valid := range models.ValidQueryParamTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// toAnySlice round-trips typed parameter specs into generic JSON values so
// they can live inside the raw document.
func toAnySlice(params []models.ParameterSpec) ([]any, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var out []any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	// Drop empty optional keys the struct round-trip can introduce.
	for _, item := range out {
		if m, ok := item.(map[string]any); ok {
			for k, v := range m {
				if s, ok := v.(string); ok && s == "" {
					delete(m, k)
				}
			}
		}
	}
	return out, nil
}

// AuthRequired resolves the effective auth requirement for an operation
// object: a forced x-auth-required wins, else declared security schemes.
func AuthRequired(op map[string]any) bool {
	if forced, ok := op["x-auth-required"].(bool); ok {
		return forced
	}
	security, ok := op["security"].([]any)
	if !ok {
		return false
	}
	for _, entry := range security {
		if scheme, ok := entry.(map[string]any); ok && len(scheme) > 0 {
			return true
		}
	}
	return false
}

// OperationIDs lists every operation id in the document, sorted.
func OperationIDs(schema []byte) ([]string, error) {
	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, err
	}
	index := indexOperations(doc)
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// SuggestionsFor extracts the classified query parameter names of one
// operation from the merged document.
func SuggestionsFor(op map[string]any) models.QuerySuggestions {
	var s models.QuerySuggestions
	params, _ := op["parameters"].([]any)
	seen := make(map[string]bool)

	for _, raw := range params {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if in, _ := param["in"].(string); in != "query" {
			continue
		}
		name, _ := param["name"].(string)
		qpType, _ := param["queryparam_type"].(string)
		if name == "" || seen[qpType+":"+name] {
			continue
		}
		seen[qpType+":"+name] = true

		switch qpType {
		case models.QueryParamSearch:
			s.SearchFields = append(s.SearchFields, name)
		case models.QueryParamFilter:
			s.FilterFields = append(s.FilterFields, name)
		case models.QueryParamOrdering:
			s.OrderingFields = append(s.OrderingFields, name)
		case models.QueryParamPagination:
			s.PaginationFields = append(s.PaginationFields, name)
		}
	}

	return s
}
