package models

import "encoding/json"

// Query parameter classification buckets. Every query-in parameter in an
// override must carry exactly one of these.
const (
	QueryParamSearch     = "search_fields"
	QueryParamFilter     = "filter_fields"
	QueryParamOrdering   = "ordering_fields"
	QueryParamPagination = "pagination_fields"
)

// ValidQueryParamTypes returns all valid queryparam_type values.
func ValidQueryParamTypes() []string {
	return []string{QueryParamSearch, QueryParamFilter, QueryParamOrdering, QueryParamPagination}
}

// ParameterSpec is one parameter entry in an override document.
type ParameterSpec struct {
	Name           string          `json:"name"`
	In             string          `json:"in"`
	Description    string          `json:"description,omitempty"`
	Required       bool            `json:"required,omitempty"`
	Schema         json.RawMessage `json:"schema,omitempty"`
	QueryParamType string          `json:"queryparam_type,omitempty"`
}

// OperationOverride is one entry of the override document, keyed by
// operation id. IsSecure and NeedAuthentication are two accepted spellings
// of the same flag; nil leaves the generator's inference untouched.
type OperationOverride struct {
	Description        string                     `json:"description,omitempty"`
	Parameters         []ParameterSpec            `json:"parameters,omitempty"`
	RequestBody        json.RawMessage            `json:"requestBody,omitempty"`
	Responses          map[string]json.RawMessage `json:"responses,omitempty"`
	AppendFields       []string                   `json:"append_fields,omitempty"`
	IsSecure           *bool                      `json:"is_secure,omitempty"`
	NeedAuthentication *bool                      `json:"need_authentication,omitempty"`
}

// Secure resolves the effective auth override, honoring both spellings.
// The second return is false when neither spelling is present.
func (o *OperationOverride) Secure() (bool, bool) {
	if o.IsSecure != nil {
		return *o.IsSecure, true
	}
	if o.NeedAuthentication != nil {
		return *o.NeedAuthentication, true
	}
	return false, false
}

// Appends reports whether the named field is marked for append semantics.
func (o *OperationOverride) Appends(field string) bool {
	for _, f := range o.AppendFields {
		if f == field {
			return true
		}
	}
	return false
}

// QuerySuggestions is the per-endpoint autocomplete payload embedded into
// endpoint pages: field names grouped by classification bucket.
type QuerySuggestions struct {
	FilterFields     []string `json:"filter_fields"`
	SearchFields     []string `json:"search_fields"`
	OrderingFields   []string `json:"ordering_fields"`
	PaginationFields []string `json:"pagination_fields"`
}
