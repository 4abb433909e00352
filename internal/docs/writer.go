package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ShayestehHS/apidock/internal/merge"
	"github.com/ShayestehHS/apidock/internal/models"
	"github.com/ShayestehHS/apidock/internal/permissions"
)

// EndpointPage is the payload behind one endpoint's documentation page.
type EndpointPage struct {
	Card            *models.EndpointCard     `json:"card"`
	Description     string                   `json:"description,omitempty"`
	Suggestions     models.QuerySuggestions  `json:"suggestions"`
	RequestExample  any                      `json:"requestExample,omitempty"`
	ResponseExample any                      `json:"responseExample,omitempty"`
}

// AppIndex lists one app's endpoints grouped by view.
type AppIndex struct {
	App    string             `json:"app"`
	Groups []models.CardGroup `json:"groups"`
}

// PermissionPage documents one permission class and the endpoints behind it.
type PermissionPage struct {
	ClassPath   string   `json:"classPath,omitempty"`
	DisplayName string   `json:"displayName"`
	Sentinel    bool     `json:"sentinel,omitempty"`
	EndpointIDs []string `json:"endpointIds"`
}

// Writer emits the documentation payload tree under the output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteAll writes every payload: one JSON document per endpoint, one index
// per app, the per-operation query suggestions, and the permission pages.
func (w *Writer) WriteAll(schema []byte, all []*models.EndpointCard) error {
	var doc map[string]any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	components, _ := doc["components"].(map[string]any)
	ops := operationsByID(doc)

	if err := w.writeEndpoints(all, ops, components); err != nil {
		return err
	}
	if err := w.writeAppIndexes(all); err != nil {
		return err
	}
	if err := w.writeSuggestions(all, ops); err != nil {
		return err
	}
	return w.writePermissionPages(all)
}

func (w *Writer) writeEndpoints(all []*models.EndpointCard, ops map[string]map[string]any, components map[string]any) error {
	for _, card := range all {
		op := ops[card.OperationID]

		page := &EndpointPage{
			Card:        card,
			Description: opDescription(op),
		}
		if op != nil {
			page.Suggestions = merge.SuggestionsFor(op)
			if reqSchema := requestSchema(op); reqSchema != nil {
				page.RequestExample = ExampleFor(reqSchema, components, false)
			}
			if respSchema := successResponseSchema(op); respSchema != nil {
				page.ResponseExample = ExampleFor(respSchema, components, true)
			}
		}

		if err := w.writeJSON(filepath.Join("endpoints", card.Filename), page); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeAppIndexes(all []*models.EndpointCard) error {
	byApp := make(map[string][]*models.EndpointCard)
	for _, card := range all {
		byApp[card.App] = append(byApp[card.App], card)
	}

	for app, appCards := range byApp {
		index := &AppIndex{App: app}
		byView := make(map[string][]string)
		for _, card := range appCards {
			byView[card.Group] = append(byView[card.Group], card.ID)
		}
		views := make([]string, 0, len(byView))
		for view := range byView {
			views = append(views, view)
		}
		sort.Strings(views)
		for _, view := range views {
			index.Groups = append(index.Groups, models.CardGroup{Name: view, CardIDs: byView[view]})
		}

		name := app
		if name == "" {
			name = "default"
		}
		if err := w.writeJSON(filepath.Join("apps", name+".json"), index); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSuggestions(all []*models.EndpointCard, ops map[string]map[string]any) error {
	suggestions := make(map[string]models.QuerySuggestions, len(all))
	for _, card := range all {
		if op := ops[card.OperationID]; op != nil {
			suggestions[card.OperationID] = merge.SuggestionsFor(op)
		}
	}
	return w.writeJSON("suggestions.json", suggestions)
}

func (w *Writer) writePermissionPages(all []*models.EndpointCard) error {
	pages := make([]*PermissionPage, 0)
	for _, entry := range permissions.Resolve(all) {
		page := &PermissionPage{
			ClassPath:   entry.ID,
			DisplayName: entry.DisplayName,
			Sentinel:    entry.Sentinel,
		}
		if entry.Sentinel {
			page.ClassPath = ""
		}
		for _, card := range all {
			if entry.Sentinel {
				if len(card.Permissions) == 0 {
					page.EndpointIDs = append(page.EndpointIDs, card.ID)
				}
			} else if card.HasPermission(entry.ID) {
				page.EndpointIDs = append(page.EndpointIDs, card.ID)
			}
		}
		pages = append(pages, page)
	}
	return w.writeJSON(filepath.Join("permissions", "index.json"), pages)
}

func (w *Writer) writeJSON(relPath string, payload any) error {
	full := filepath.Join(w.outputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", relPath, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

// operationsByID indexes every operation map in the document by its
// operationId.
func operationsByID(doc map[string]any) map[string]map[string]any {
	result := make(map[string]map[string]any)
	paths, _ := doc["paths"].(map[string]any)
	for _, rawItem := range paths {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		for _, rawOp := range item {
			op, ok := rawOp.(map[string]any)
			if !ok {
				continue
			}
			if id, ok := op["operationId"].(string); ok && id != "" {
				result[id] = op
			}
		}
	}
	return result
}

func opDescription(op map[string]any) string {
	if op == nil {
		return ""
	}
	desc, _ := op["description"].(string)
	return desc
}

// requestSchema returns the JSON request body schema, if any.
func requestSchema(op map[string]any) map[string]any {
	body, _ := op["requestBody"].(map[string]any)
	return contentSchema(body)
}

// successResponseSchema returns the schema of the lowest 2xx response.
func successResponseSchema(op map[string]any) map[string]any {
	responses, _ := op["responses"].(map[string]any)
	codes := make([]string, 0, len(responses))
	for code := range responses {
		if strings.HasPrefix(code, "2") {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	sort.Strings(codes)

	resp, _ := responses[codes[0]].(map[string]any)
	return contentSchema(resp)
}

func contentSchema(node map[string]any) map[string]any {
	content, _ := node["content"].(map[string]any)
	for mediaType, rawMedia := range content {
		if !strings.Contains(mediaType, "json") {
			continue
		}
		media, _ := rawMedia.(map[string]any)
		schema, _ := media["schema"].(map[string]any)
		return schema
	}
	return nil
}
