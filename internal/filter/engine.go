// Package filter maintains the endpoint card index and applies the
// multi-facet visibility predicate with faceted option narrowing.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ShayestehHS/apidock/internal/cards"
	"github.com/ShayestehHS/apidock/internal/models"
	"github.com/ShayestehHS/apidock/internal/permissions"
)

// Facet names used for option narrowing. The facet currently being edited
// keeps its pre-filter option universe so the user can broaden back out.
const (
	FacetMethod      = "method"
	FacetApp         = "app"
	FacetAuth        = "auth"
	FacetPagination  = "pagination"
	FacetPermissions = "permissions"
)

// Engine holds the immutable card index and answers filter passes.
type Engine struct {
	cards  []*models.EndpointCard
	byID   map[string]*models.EndpointCard
	byApp  []models.CardGroup
	byView []models.CardGroup
}

// NewEngine indexes the given cards.
func NewEngine(all []*models.EndpointCard) *Engine {
	byID := make(map[string]*models.EndpointCard, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	return &Engine{
		cards:  all,
		byID:   byID,
		byApp:  cards.GroupByApp(all),
		byView: cards.GroupByView(all),
	}
}

// Cards returns the full card index.
func (e *Engine) Cards() []*models.EndpointCard {
	return e.cards
}

// Card returns one card by id.
func (e *Engine) Card(id string) (*models.EndpointCard, bool) {
	c, ok := e.byID[id]
	return c, ok
}

// Apply recomputes visibility for every card against the state.
// editingFacet names the facet the user is interacting with; pass "" when
// none applies.
func (e *Engine) Apply(state models.FilterState, editingFacet string) models.FilterResult {
	visible := make([]*models.EndpointCard, 0, len(e.cards))
	visibleIDs := make([]string, 0, len(e.cards))
	visibleSet := make(map[string]bool)

	for _, c := range e.cards {
		if Matches(c, state) {
			visible = append(visible, c)
			visibleIDs = append(visibleIDs, c.ID)
			visibleSet[c.ID] = true
		}
	}

	result := models.FilterResult{
		VisibleIDs:    visibleIDs,
		VisibleGroups: visibleGroups(e.byView, visibleSet),
		VisibleApps:   visibleGroups(e.byApp, visibleSet),
		Total:         len(e.cards),
		VisibleCount:  len(visible),
		Empty:         len(visible) == 0,
		Options:       e.narrowOptions(visible, state, editingFacet),
		Query:         Encode(state).Encode(),
	}

	return result
}

// Clear is the hard reset: empty state, every card visible, full option
// universe, no filter params in the URL.
func (e *Engine) Clear() models.FilterResult {
	return e.Apply(models.FilterState{}, "")
}

// Matches is the conjunctive visibility predicate for a single card.
func Matches(c *models.EndpointCard, s models.FilterState) bool {
	if !equalsFold(s.Method, c.Method) {
		return false
	}
	if !containsFold(c.Path, s.Path) {
		return false
	}
	if !equalsFold(s.App, c.App) {
		return false
	}
	if !equalsFold(s.Auth, c.AuthType) {
		return false
	}
	if !equalsFold(s.Pagination, c.PaginationType) {
		return false
	}
	if !equalsFold(s.ContentType, c.ContentType) {
		return false
	}
	if !anyContainsFold(c.Roles, s.Roles) {
		return false
	}
	if !anyContainsFold(c.Tags, s.Tags) {
		return false
	}
	if !anyContainsFold(c.Params, s.Params) {
		return false
	}
	if !anyContainsFold(c.Models, s.Schema) {
		return false
	}
	if !boolFacet(s.Search, c.SearchEnabled) {
		return false
	}
	if !boolFacet(s.Ordering, c.OrderingEnabled) {
		return false
	}
	return permissions.MatchesSelection(c, s.Permissions)
}

// equalsFold is the exact-match facet predicate; an empty facet matches
// everything.
func equalsFold(facet, value string) bool {
	return facet == "" || strings.EqualFold(facet, value)
}

// containsFold is the substring facet predicate.
func containsFold(value, facet string) bool {
	return facet == "" || strings.Contains(strings.ToLower(value), strings.ToLower(facet))
}

// anyContainsFold matches when any member contains the facet value.
func anyContainsFold(values []string, facet string) bool {
	if facet == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), strings.ToLower(facet)) {
			return true
		}
	}
	return false
}

// boolFacet matches an enabled/disabled select against a boolean feature.
func boolFacet(facet string, enabled bool) bool {
	if facet == "" {
		return true
	}
	want, err := strconv.ParseBool(facet)
	if err != nil {
		return true
	}
	return want == enabled
}

// narrowOptions recomputes selectable options from the visible cards only.
// The edited facet keeps the full universe, and a currently-selected value
// is never dropped even when no visible card carries it.
func (e *Engine) narrowOptions(visible []*models.EndpointCard, state models.FilterState, editingFacet string) models.FacetOptions {
	source := func(facet string) []*models.EndpointCard {
		if facet == editingFacet {
			return e.cards
		}
		return visible
	}

	opts := models.FacetOptions{
		Methods:    collect(source(FacetMethod), func(c *models.EndpointCard) []string { return []string{c.Method} }),
		Apps:       collect(source(FacetApp), func(c *models.EndpointCard) []string { return []string{c.App} }),
		Auth:       collect(source(FacetAuth), func(c *models.EndpointCard) []string { return []string{c.AuthType} }),
		Pagination: collect(source(FacetPagination), func(c *models.EndpointCard) []string { return []string{c.PaginationType} }),
	}

	permSource := source(FacetPermissions)
	permSet := make(map[string]bool)
	hasUnprotected := false
	for _, c := range permSource {
		if len(c.Permissions) == 0 {
			hasUnprotected = true
		}
		for _, p := range c.Permissions {
			permSet[p.ClassPath] = true
		}
	}
	perms := make([]string, 0, len(permSet)+1)
	for p := range permSet {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	if hasUnprotected {
		perms = append([]string{models.NoPermissionsSentinel}, perms...)
	}
	opts.Permissions = perms

	// Selected values stay selectable regardless of narrowing.
	opts.Methods = ensureValue(opts.Methods, state.Method)
	opts.Apps = ensureValue(opts.Apps, state.App)
	opts.Auth = ensureValue(opts.Auth, state.Auth)
	opts.Pagination = ensureValue(opts.Pagination, state.Pagination)
	for _, sel := range state.Permissions {
		opts.Permissions = ensureValue(opts.Permissions, sel)
	}

	return opts
}

func collect(source []*models.EndpointCard, get func(*models.EndpointCard) []string) []string {
	set := make(map[string]bool)
	for _, c := range source {
		for _, v := range get(c) {
			if v != "" {
				set[v] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func ensureValue(options []string, value string) []string {
	if value == "" {
		return options
	}
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return options
		}
	}
	return append(options, value)
}

func visibleGroups(groups []models.CardGroup, visibleSet map[string]bool) []string {
	var out []string
	for _, g := range groups {
		for _, id := range g.CardIDs {
			if visibleSet[id] {
				out = append(out, g.Name)
				break
			}
		}
	}
	return out
}
