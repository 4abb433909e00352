// Package cards builds the immutable endpoint card index from a merged
// OpenAPI document. Cards are the typed DTO the portal filters over; the
// document is consumed exactly once at build time.
package cards

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ShayestehHS/apidock/internal/merge"
	"github.com/ShayestehHS/apidock/internal/models"
)

// cardMethods are the operations rendered as cards.
var cardMethods = []string{"get", "post", "put", "patch", "delete"}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Builder turns a merged document into endpoint cards.
type Builder struct {
	apps map[string]bool // restrict to these apps; empty means all
}

// NewBuilder creates a builder. apps restricts output to the named owning
// apps; empty means no restriction.
func NewBuilder(apps []string) *Builder {
	set := make(map[string]bool, len(apps))
	for _, a := range apps {
		set[a] = true
	}
	return &Builder{apps: set}
}

// Build walks the merged document and produces one card per operation,
// ordered by path then method.
func (b *Builder) Build(schema []byte) ([]*models.EndpointCard, error) {
	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse merged schema: %w", err)
	}

	paths, _ := doc["paths"].(map[string]any)
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	var result []*models.EndpointCard
	for _, p := range pathKeys {
		pathItem, ok := paths[p].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range cardMethods {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}

			card := b.buildCard(p, method, op)
			if card == nil {
				continue
			}
			result = append(result, card)
		}
	}

	return result, nil
}

func (b *Builder) buildCard(path, method string, op map[string]any) *models.EndpointCard {
	opID, _ := op["operationId"].(string)
	app := AppFromOperationID(opID)
	if len(b.apps) > 0 && !b.apps[app] {
		return nil
	}

	meta, _ := op["x-metadata"].(map[string]any)
	suggestions := merge.SuggestionsFor(op)
	summary, _ := op["summary"].(string)

	card := &models.EndpointCard{
		ID:              strings.ToLower(method) + " " + path,
		OperationID:     opID,
		Method:          strings.ToUpper(method),
		Path:            path,
		App:             app,
		Group:           GroupFromOperationID(opID),
		Summary:         summary,
		Permissions:     extractPermissions(meta),
		AuthType:        metaString(meta, "auth_type"),
		PaginationType:  metaString(meta, "pagination_type"),
		ContentType:     requestContentType(op),
		Models:          referencedModels(op),
		Roles:           metaStrings(meta, "roles"),
		Tags:            tags(op),
		SearchEnabled:   len(suggestions.SearchFields) > 0,
		OrderingEnabled: len(suggestions.OrderingFields) > 0,
		AuthRequired:    merge.AuthRequired(op),
		Params:          paramNames(op),
		PathParams:      pathParamNames(op),
		Filename:        SafeFilename(path, method),
	}

	return card
}

// AppFromOperationID derives the owning app from the operation id's first
// segment.
func AppFromOperationID(opID string) string {
	if opID == "" {
		return ""
	}
	return strings.SplitN(opID, "_", 2)[0]
}

// GroupFromOperationID derives the owning view group name: everything
// before the trailing action segment.
func GroupFromOperationID(opID string) string {
	parts := strings.Split(opID, "_")
	if len(parts) <= 1 {
		return opID
	}
	return strings.Join(parts[:len(parts)-1], "_")
}

// SafeFilename derives the page payload filename for an endpoint.
func SafeFilename(path, method string) string {
	safePath := unsafeFilenameChars.ReplaceAllString(strings.Trim(path, "/"), "_")
	return strings.ToLower(method) + "_" + safePath + ".json"
}

// extractPermissions reads permission classes from x-metadata. Both the
// bare string and structured {class_path, display_name} forms are accepted.
func extractPermissions(meta map[string]any) []models.PermissionRef {
	perms := []models.PermissionRef{}
	raw, _ := meta["permission_classes"].([]any)

	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			if v != "" {
				perms = append(perms, models.PermissionRef{ClassPath: v})
			}
		case map[string]any:
			classPath, _ := v["class_path"].(string)
			if classPath == "" {
				continue
			}
			displayName, _ := v["display_name"].(string)
			perms = append(perms, models.PermissionRef{ClassPath: classPath, DisplayName: displayName})
		}
	}

	return perms
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaStrings(meta map[string]any, key string) []string {
	raw, _ := meta[key].([]any)
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func tags(op map[string]any) []string {
	raw, _ := op["tags"].([]any)
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func paramNames(op map[string]any) []string {
	params, _ := op["parameters"].([]any)
	var out []string
	for _, raw := range params {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := param["name"].(string); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func pathParamNames(op map[string]any) []string {
	params, _ := op["parameters"].([]any)
	var out []string
	for _, raw := range params {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if in, _ := param["in"].(string); in != "path" {
			continue
		}
		if name, _ := param["name"].(string); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// requestContentType returns the first request body media type, JSON first
// when several are declared.
func requestContentType(op map[string]any) string {
	body, _ := op["requestBody"].(map[string]any)
	content, _ := body["content"].(map[string]any)
	if len(content) == 0 {
		return ""
	}

	types := make([]string, 0, len(content))
	for mediaType := range content {
		types = append(types, mediaType)
	}
	sort.Strings(types)
	for _, t := range types {
		if strings.Contains(t, "json") {
			return t
		}
	}
	return types[0]
}

// referencedModels collects component schema names referenced by the
// request body and responses, deduplicated and sorted.
func referencedModels(op map[string]any) []string {
	seen := make(map[string]bool)
	collectRefs(op["requestBody"], seen)
	collectRefs(op["responses"], seen)

	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectRefs(node any, seen map[string]bool) {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			if name := refName(ref); name != "" {
				seen[name] = true
			}
		}
		for _, child := range v {
			collectRefs(child, seen)
		}
	case []any:
		for _, child := range v {
			collectRefs(child, seen)
		}
	}
}

func refName(ref string) string {
	const prefix = "#/components/schemas/"
	if !strings.HasPrefix(ref, prefix) {
		return ""
	}
	return strings.TrimPrefix(ref, prefix)
}

// GroupByApp organizes cards into rendering containers per owning app.
func GroupByApp(all []*models.EndpointCard) []models.CardGroup {
	return groupBy(all, func(c *models.EndpointCard) string { return c.App })
}

// GroupByView organizes cards into rendering containers per view group.
func GroupByView(all []*models.EndpointCard) []models.CardGroup {
	return groupBy(all, func(c *models.EndpointCard) string { return c.Group })
}

func groupBy(all []*models.EndpointCard, key func(*models.EndpointCard) string) []models.CardGroup {
	byKey := make(map[string][]string)
	for _, c := range all {
		k := key(c)
		byKey[k] = append(byKey[k], c.ID)
	}

	names := make([]string, 0, len(byKey))
	for name := range byKey {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]models.CardGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, models.CardGroup{Name: name, CardIDs: byKey[name]})
	}
	return groups
}
