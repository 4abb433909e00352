package filter

import (
	"testing"

	"github.com/ShayestehHS/apidock/internal/models"
)

func testCards() []*models.EndpointCard {
	return []*models.EndpointCard{
		{
			ID:          "get /api/shop/products/",
			OperationID: "shop_products_list",
			Method:      "GET",
			Path:        "/api/shop/products/",
			App:         "shop",
			Group:       "shop_products",
			AuthType:    "token",
			Permissions: []models.PermissionRef{
				{ClassPath: "shop.permissions.IsOwner"},
			},
			PaginationType: "page_number",
			ContentType:    "",
			Models:         []string{"Product"},
			Roles:          []string{"admin", "customer"},
			Tags:           []string{"products"},
			Params:         []string{"search", "ordering"},
			SearchEnabled:  true,
		},
		{
			ID:          "post /api/shop/products/",
			OperationID: "shop_products_create",
			Method:      "POST",
			Path:        "/api/shop/products/",
			App:         "shop",
			Group:       "shop_products",
			AuthType:    "token",
			Permissions: []models.PermissionRef{
				{ClassPath: "shop.permissions.IsOwner"},
				{ClassPath: "rest_framework.permissions.IsAuthenticated"},
			},
			ContentType: "application/json",
			Models:      []string{"ProductInput", "Product"},
		},
		{
			ID:              "get /api/blog/posts/",
			OperationID:     "blog_posts_list",
			Method:          "GET",
			Path:            "/api/blog/posts/",
			App:             "blog",
			Group:           "blog_posts",
			AuthType:        "session",
			PaginationType:  "cursor",
			Models:          []string{"Post"},
			Tags:            []string{"posts"},
			OrderingEnabled: true,
		},
	}
}

func TestApply_EmptyState(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Apply(models.FilterState{}, "")

	if result.VisibleCount != 3 || result.Total != 3 {
		t.Errorf("expected all visible, got %d of %d", result.VisibleCount, result.Total)
	}
	if result.Empty {
		t.Error("empty flag should be false")
	}
	if result.Query != "" {
		t.Errorf("empty state should produce empty query, got %q", result.Query)
	}
}

func TestApply_ConjunctiveSemantics(t *testing.T) {
	e := NewEngine(testCards())

	tests := []struct {
		name     string
		state    models.FilterState
		expected []string
	}{
		{
			name:     "method facet",
			state:    models.FilterState{Method: "POST"},
			expected: []string{"post /api/shop/products/"},
		},
		{
			name:     "method case insensitive",
			state:    models.FilterState{Method: "post"},
			expected: []string{"post /api/shop/products/"},
		},
		{
			name:     "path substring",
			state:    models.FilterState{Path: "blog"},
			expected: []string{"get /api/blog/posts/"},
		},
		{
			name:     "two facets AND together",
			state:    models.FilterState{Method: "GET", App: "shop"},
			expected: []string{"get /api/shop/products/"},
		},
		{
			name:     "roles substring",
			state:    models.FilterState{Roles: "cust"},
			expected: []string{"get /api/shop/products/"},
		},
		{
			name:     "schema substring over models",
			state:    models.FilterState{Schema: "product"},
			expected: []string{"get /api/shop/products/", "post /api/shop/products/"},
		},
		{
			name:     "search enabled",
			state:    models.FilterState{Search: "true"},
			expected: []string{"get /api/shop/products/"},
		},
		{
			name:     "ordering disabled",
			state:    models.FilterState{Ordering: "false"},
			expected: []string{"get /api/shop/products/", "post /api/shop/products/"},
		},
		{
			name:     "permission single",
			state:    models.FilterState{Permissions: []string{"rest_framework.permissions.IsAuthenticated"}},
			expected: []string{"post /api/shop/products/"},
		},
		{
			name:     "permission AND",
			state:    models.FilterState{Permissions: []string{"shop.permissions.IsOwner", "rest_framework.permissions.IsAuthenticated"}},
			expected: []string{"post /api/shop/products/"},
		},
		{
			name:     "sentinel matches unprotected only",
			state:    models.FilterState{Permissions: []string{models.NoPermissionsSentinel}},
			expected: []string{"get /api/blog/posts/"},
		},
		{
			name:     "no match",
			state:    models.FilterState{Method: "DELETE"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Apply(tt.state, "")
			if len(result.VisibleIDs) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, result.VisibleIDs)
			}
			for i, id := range tt.expected {
				if result.VisibleIDs[i] != id {
					t.Errorf("expected %v, got %v", tt.expected, result.VisibleIDs)
					break
				}
			}
			if result.Empty != (len(tt.expected) == 0) {
				t.Errorf("empty flag = %v with %d visible", result.Empty, len(tt.expected))
			}
		})
	}
}

func TestApply_GroupVisibility(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Apply(models.FilterState{Method: "POST"}, "")

	// shop_products still has a visible member; blog_posts has none
	if len(result.VisibleGroups) != 1 || result.VisibleGroups[0] != "shop_products" {
		t.Errorf("unexpected visible groups: %v", result.VisibleGroups)
	}
	if len(result.VisibleApps) != 1 || result.VisibleApps[0] != "shop" {
		t.Errorf("unexpected visible apps: %v", result.VisibleApps)
	}
}

func TestApply_OptionNarrowing(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Apply(models.FilterState{App: "blog"}, "")

	// Non-edited facets narrow to the visible cards
	if len(result.Options.Methods) != 1 || result.Options.Methods[0] != "GET" {
		t.Errorf("methods should narrow to visible cards, got %v", result.Options.Methods)
	}
	if len(result.Options.Auth) != 1 || result.Options.Auth[0] != "session" {
		t.Errorf("auth should narrow to visible cards, got %v", result.Options.Auth)
	}
}

func TestApply_EditedFacetKeepsUniverse(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Apply(models.FilterState{App: "blog"}, FacetApp)

	// The app facet is being edited, so it keeps the full universe
	if len(result.Options.Apps) != 2 {
		t.Errorf("edited facet should keep full universe, got %v", result.Options.Apps)
	}
	// Other facets still narrow
	if len(result.Options.Methods) != 1 {
		t.Errorf("non-edited facets should narrow, got %v", result.Options.Methods)
	}
}

func TestApply_SelectedValueNeverDropped(t *testing.T) {
	e := NewEngine(testCards())

	// POST narrows auth options to token, but the selected session value
	// must stay selectable
	result := e.Apply(models.FilterState{Method: "POST", Auth: "session"}, "")

	found := false
	for _, a := range result.Options.Auth {
		if a == "session" {
			found = true
		}
	}
	if !found {
		t.Errorf("selected auth value dropped from options: %v", result.Options.Auth)
	}
}

func TestApply_SentinelInPermissionOptions(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Apply(models.FilterState{}, "")

	if len(result.Options.Permissions) == 0 || result.Options.Permissions[0] != models.NoPermissionsSentinel {
		t.Errorf("sentinel should lead permission options, got %v", result.Options.Permissions)
	}
}

func TestClear(t *testing.T) {
	e := NewEngine(testCards())

	result := e.Clear()

	if result.VisibleCount != 3 {
		t.Errorf("clear should show all cards, got %d", result.VisibleCount)
	}
	if result.Query != "" {
		t.Errorf("clear should produce empty query, got %q", result.Query)
	}
	if len(result.Options.Apps) != 2 {
		t.Errorf("clear should restore full option universe, got %v", result.Options.Apps)
	}
}

func TestCard(t *testing.T) {
	e := NewEngine(testCards())

	if _, ok := e.Card("get /api/shop/products/"); !ok {
		t.Error("expected card lookup to succeed")
	}
	if _, ok := e.Card("get /missing"); ok {
		t.Error("expected card lookup to fail")
	}
}
