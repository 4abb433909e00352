package models

// NoPermissionsSentinel is the reserved permission token matching cards
// whose permission set is empty.
const NoPermissionsSentinel = "no-permissions"

// FilterState holds the current value of every filter facet. It is a plain
// value: predicates never mutate it, and the owning controller replaces it
// wholesale on each input event.
type FilterState struct {
	Method      string   `json:"method,omitempty"`
	Path        string   `json:"path,omitempty"`
	App         string   `json:"app,omitempty"`
	Auth        string   `json:"auth,omitempty"`
	Roles       string   `json:"roles,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Params      string   `json:"params,omitempty"`
	Schema      string   `json:"schema,omitempty"`
	Pagination  string   `json:"pagination,omitempty"`
	Tags        string   `json:"tags,omitempty"`
	Ordering    string   `json:"ordering,omitempty"`
	Search      string   `json:"search,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// IsEmpty reports whether no facet carries a value.
func (s FilterState) IsEmpty() bool {
	return s.Method == "" && s.Path == "" && s.App == "" && s.Auth == "" &&
		s.Roles == "" && s.ContentType == "" && s.Params == "" && s.Schema == "" &&
		s.Pagination == "" && s.Tags == "" && s.Ordering == "" && s.Search == "" &&
		len(s.Permissions) == 0
}

// FacetOptions lists the values still selectable for each select/checklist
// facet after faceted narrowing.
type FacetOptions struct {
	Methods     []string `json:"methods"`
	Apps        []string `json:"apps"`
	Auth        []string `json:"auth"`
	Pagination  []string `json:"pagination"`
	Permissions []string `json:"permissions"`
}

// FilterResult is the outcome of one filter pass.
type FilterResult struct {
	VisibleIDs    []string     `json:"visibleIds"`
	VisibleGroups []string     `json:"visibleGroups"`
	VisibleApps   []string     `json:"visibleApps"`
	Total         int          `json:"total"`
	VisibleCount  int          `json:"visibleCount"`
	Empty         bool         `json:"empty"`
	Options       FacetOptions `json:"options"`
	Query         string       `json:"query"` // canonical URL query string for this state
}
