package models

// PermissionRef identifies a permission class attached to an endpoint.
type PermissionRef struct {
	ClassPath   string `json:"class_path"`
	DisplayName string `json:"display_name,omitempty"`
}

// EndpointCard is the immutable listing entry for one documented operation.
// Cards are built once from the merged schema and only ever filtered;
// visibility is derived, never stored on the card.
type EndpointCard struct {
	ID              string          `json:"id"`
	OperationID     string          `json:"operationId"`
	Method          string          `json:"method"`
	Path            string          `json:"path"`
	App             string          `json:"app"`
	Group           string          `json:"group"` // owning view/group name, derived from the operation id
	Summary         string          `json:"summary,omitempty"`
	Permissions     []PermissionRef `json:"permissions"`
	AuthType        string          `json:"authType"`
	PaginationType  string          `json:"paginationType,omitempty"`
	ContentType     string          `json:"contentType,omitempty"`
	Models          []string        `json:"models,omitempty"`
	Roles           []string        `json:"roles,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	SearchEnabled   bool            `json:"searchEnabled"`
	OrderingEnabled bool            `json:"orderingEnabled"`
	AuthRequired    bool            `json:"authRequired"`
	Params          []string        `json:"params,omitempty"` // all declared parameter names
	PathParams      []string        `json:"pathParams,omitempty"`
	Filename        string          `json:"filename"`
}

// PermissionPaths returns the class paths of all attached permissions.
func (c *EndpointCard) PermissionPaths() []string {
	paths := make([]string, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		paths = append(paths, p.ClassPath)
	}
	return paths
}

// HasPermission reports whether the card carries the given permission class.
func (c *EndpointCard) HasPermission(classPath string) bool {
	for _, p := range c.Permissions {
		if p.ClassPath == classPath {
			return true
		}
	}
	return false
}

// CardGroup is a rendered grouping container (per app or per view group).
type CardGroup struct {
	Name    string   `json:"name"`
	CardIDs []string `json:"cardIds"`
}
