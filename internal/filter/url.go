package filter

import (
	"net/url"
	"strings"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Encode serializes the filter state into URL query parameters. Each facet
// maps to a same-named parameter; the permission selection is a
// space-joined lowercase list under "permissions". Empty facets are
// omitted so a cleared state produces an empty query string.
func Encode(s models.FilterState) url.Values {
	values := url.Values{}

	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set("method", s.Method)
	set("path", s.Path)
	set("app", s.App)
	set("auth", s.Auth)
	set("roles", s.Roles)
	set("contentType", s.ContentType)
	set("params", s.Params)
	set("schema", s.Schema)
	set("pagination", s.Pagination)
	set("tags", s.Tags)
	set("ordering", s.Ordering)
	set("search", s.Search)

	if len(s.Permissions) > 0 {
		lowered := make([]string, len(s.Permissions))
		for i, p := range s.Permissions {
			lowered[i] = strings.ToLower(p)
		}
		values.Set("permissions", strings.Join(lowered, " "))
	}

	return values
}

// Decode parses URL query parameters back into a filter state. It is the
// inverse of Encode for every state Encode can produce.
func Decode(values url.Values) models.FilterState {
	s := models.FilterState{
		Method:      values.Get("method"),
		Path:        values.Get("path"),
		App:         values.Get("app"),
		Auth:        values.Get("auth"),
		Roles:       values.Get("roles"),
		ContentType: values.Get("contentType"),
		Params:      values.Get("params"),
		Schema:      values.Get("schema"),
		Pagination:  values.Get("pagination"),
		Tags:        values.Get("tags"),
		Ordering:    values.Get("ordering"),
		Search:      values.Get("search"),
	}

	if raw := values.Get("permissions"); raw != "" {
		for _, p := range strings.Fields(raw) {
			s.Permissions = append(s.Permissions, strings.ToLower(p))
		}
	}

	return s
}

// DecodeQuery parses a raw query string into a filter state. Malformed
// input yields the zero state.
func DecodeQuery(query string) models.FilterState {
	values, err := url.ParseQuery(query)
	if err != nil {
		return models.FilterState{}
	}
	return Decode(values)
}
