package qparams

import (
	"strings"
	"testing"

	"github.com/ShayestehHS/apidock/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		param    models.ParameterSpec
		expected string
		wantErr  bool
	}{
		{
			name:     "search field",
			param:    models.ParameterSpec{Name: "search", In: "query", QueryParamType: "search_fields"},
			expected: "search_fields",
		},
		{
			name:     "filter field",
			param:    models.ParameterSpec{Name: "category", In: "query", QueryParamType: "filter_fields"},
			expected: "filter_fields",
		},
		{
			name:     "ordering field",
			param:    models.ParameterSpec{Name: "ordering", In: "query", QueryParamType: "ordering_fields"},
			expected: "ordering_fields",
		},
		{
			name:     "pagination field",
			param:    models.ParameterSpec{Name: "page", In: "query", QueryParamType: "pagination_fields"},
			expected: "pagination_fields",
		},
		{
			name:     "path parameter has no bucket",
			param:    models.ParameterSpec{Name: "id", In: "path"},
			expected: "",
		},
		{
			name:     "header parameter has no bucket",
			param:    models.ParameterSpec{Name: "X-Request-ID", In: "header"},
			expected: "",
		},
		{
			name:    "query parameter missing type",
			param:   models.ParameterSpec{Name: "category", In: "query"},
			wantErr: true,
		},
		{
			name:    "query parameter invalid type",
			param:   models.ParameterSpec{Name: "category", In: "query", QueryParamType: "filtering"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, err := Classify(tt.param)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if bucket != tt.expected {
				t.Errorf("Classify = %q, want %q", bucket, tt.expected)
			}
		})
	}
}

func TestValidate_FailFast(t *testing.T) {
	params := []models.ParameterSpec{
		{Name: "search", In: "query", QueryParamType: "search_fields"},
		{Name: "bad_one", In: "query"},
		{Name: "bad_two", In: "query"},
	}

	err := Validate("shop_products_list", params)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "shop_products_list") {
		t.Errorf("error should name the operation, got: %v", err)
	}
	if !strings.Contains(err.Error(), "bad_one") {
		t.Errorf("error should name the first offender, got: %v", err)
	}
	if strings.Contains(err.Error(), "bad_two") {
		t.Errorf("validation should stop at the first offender, got: %v", err)
	}
}

func TestValidate_AllValid(t *testing.T) {
	params := []models.ParameterSpec{
		{Name: "id", In: "path"},
		{Name: "search", In: "query", QueryParamType: "search_fields"},
	}

	if err := Validate("shop_products_list", params); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestBuildSuggestions(t *testing.T) {
	params := []models.ParameterSpec{
		{Name: "name", In: "query", QueryParamType: "search_fields"},
		{Name: "description", In: "query", QueryParamType: "search_fields"},
		{Name: "category", In: "query", QueryParamType: "filter_fields"},
		{Name: "category", In: "query", QueryParamType: "filter_fields"},
		{Name: "created_at", In: "query", QueryParamType: "ordering_fields"},
		{Name: "page_size", In: "query", QueryParamType: "pagination_fields"},
		{Name: "id", In: "path"},
	}

	s, err := BuildSuggestions(params)
	if err != nil {
		t.Fatalf("BuildSuggestions failed: %v", err)
	}

	if len(s.SearchFields) != 2 || s.SearchFields[0] != "name" || s.SearchFields[1] != "description" {
		t.Errorf("expected declaration order preserved, got %v", s.SearchFields)
	}
	if len(s.FilterFields) != 1 {
		t.Errorf("expected duplicate dropped, got %v", s.FilterFields)
	}
	if len(s.OrderingFields) != 1 || len(s.PaginationFields) != 1 {
		t.Errorf("unexpected buckets: %v / %v", s.OrderingFields, s.PaginationFields)
	}
}

func TestBuildSuggestions_InvalidParam(t *testing.T) {
	params := []models.ParameterSpec{
		{Name: "category", In: "query"},
	}

	if _, err := BuildSuggestions(params); err == nil {
		t.Fatal("expected error for unclassified query parameter")
	}
}
