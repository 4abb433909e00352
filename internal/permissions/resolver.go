// Package permissions derives the permission checklist facet from the
// endpoint card index.
package permissions

import (
	"sort"
	"strings"

	"github.com/ShayestehHS/apidock/internal/models"
)

// NoPermissionsLabel is the display name of the synthetic entry matching
// cards with an empty permission set.
const NoPermissionsLabel = "No Permissions"

// Entry is one row of the permission checklist.
type Entry struct {
	ID          string `json:"id"` // class path, or the sentinel token
	DisplayName string `json:"displayName"`
	Sentinel    bool   `json:"sentinel,omitempty"`
}

// Resolve scans all cards once and builds the checklist. Display names
// come from explicit card metadata first, falling back to the last segment
// of the class path. Entries sort ascending by display name; the sentinel
// entry is present iff some card has no permissions and always sorts first.
func Resolve(all []*models.EndpointCard) []Entry {
	names := make(map[string]string)
	hasUnprotected := false

	for _, card := range all {
		if len(card.Permissions) == 0 {
			hasUnprotected = true
			continue
		}
		for _, p := range card.Permissions {
			display := p.DisplayName
			if display == "" {
				display = DisplayNameFor(p.ClassPath)
			}
			// An explicit display name wins over an earlier fallback.
			if existing, ok := names[p.ClassPath]; !ok || existing == DisplayNameFor(p.ClassPath) {
				names[p.ClassPath] = display
			}
		}
	}

	entries := make([]Entry, 0, len(names)+1)
	for classPath, display := range names {
		entries = append(entries, Entry{ID: classPath, DisplayName: display})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].DisplayName), strings.ToLower(entries[j].DisplayName)
		if a == b {
			return entries[i].ID < entries[j].ID
		}
		return a < b
	})

	if hasUnprotected {
		sentinel := Entry{ID: models.NoPermissionsSentinel, DisplayName: NoPermissionsLabel, Sentinel: true}
		entries = append([]Entry{sentinel}, entries...)
	}

	return entries
}

// DisplayNameFor is the fallback display name: the last path segment of a
// fully-qualified class path.
func DisplayNameFor(classPath string) string {
	if idx := strings.LastIndex(classPath, "."); idx >= 0 {
		return classPath[idx+1:]
	}
	return classPath
}

// Search narrows the checklist by case-insensitive substring match against
// display name or class path. It only narrows what is offered; checked
// state and endpoint visibility are unaffected.
func Search(entries []Entry, term string) []Entry {
	if term == "" {
		return entries
	}
	term = strings.ToLower(term)

	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.DisplayName), term) ||
			strings.Contains(strings.ToLower(e.ID), term) {
			out = append(out, e)
		}
	}
	return out
}

// MatchesSelection implements the AND semantics of the permission facet:
// the sentinel matches only cards with no permissions; otherwise a card
// matches iff every selected permission is present on it.
func MatchesSelection(card *models.EndpointCard, selected []string) bool {
	if len(selected) == 0 {
		return true
	}

	for _, sel := range selected {
		if strings.EqualFold(sel, models.NoPermissionsSentinel) {
			if len(card.Permissions) != 0 {
				return false
			}
			continue
		}
		if !hasPermissionFold(card, sel) {
			return false
		}
	}
	return true
}

// hasPermissionFold matches class paths case-insensitively; the URL
// contract lowercases identifiers.
func hasPermissionFold(card *models.EndpointCard, classPath string) bool {
	for _, p := range card.Permissions {
		if strings.EqualFold(p.ClassPath, classPath) {
			return true
		}
	}
	return false
}
