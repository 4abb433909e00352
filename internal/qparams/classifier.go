// Package qparams validates and classifies custom query parameters into
// their documentation buckets.
package qparams

import (
	"fmt"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Classify returns the bucket for a single parameter. Parameters outside
// the query location never carry a classification. For query parameters the
// classification is mandatory: absence or an unrecognized value is an error.
func Classify(p models.ParameterSpec) (string, error) {
	if p.In != "query" {
		return "", nil
	}

	switch p.QueryParamType {
	case models.QueryParamSearch, models.QueryParamFilter,
		models.QueryParamOrdering, models.QueryParamPagination:
		return p.QueryParamType, nil
	case "":
		return "", fmt.Errorf("query parameter %q has no queryparam_type", p.Name)
	default:
		return "", fmt.Errorf("query parameter %q has invalid queryparam_type %q", p.Name, p.QueryParamType)
	}
}

// Validate checks every parameter of one operation, failing on the first
// invalid query parameter found.
func Validate(operationID string, params []models.ParameterSpec) error {
	for _, p := range params {
		if _, err := Classify(p); err != nil {
			return fmt.Errorf("operation %q: %w", operationID, err)
		}
	}
	return nil
}

// BuildSuggestions groups classified parameter names into the autocomplete
// payload. Order is preserved and duplicates are dropped.
func BuildSuggestions(params []models.ParameterSpec) (models.QuerySuggestions, error) {
	var s models.QuerySuggestions
	seen := make(map[string]bool)

	for _, p := range params {
		bucket, err := Classify(p)
		if err != nil {
			return models.QuerySuggestions{}, err
		}
		if bucket == "" || seen[bucket+":"+p.Name] {
			continue
		}
		seen[bucket+":"+p.Name] = true

		switch bucket {
		case models.QueryParamSearch:
			s.SearchFields = append(s.SearchFields, p.Name)
		case models.QueryParamFilter:
			s.FilterFields = append(s.FilterFields, p.Name)
		case models.QueryParamOrdering:
			s.OrderingFields = append(s.OrderingFields, p.Name)
		case models.QueryParamPagination:
			s.PaginationFields = append(s.PaginationFields, p.Name)
		}
	}

	return s, nil
}
