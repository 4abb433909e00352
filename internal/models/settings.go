package models

// StoredSettings is the persisted try-console configuration. Host and the
// persist flag are always durable; headers live in the session store and
// are mirrored into the durable store only while PersistHeaders is true.
type StoredSettings struct {
	Host           string            `json:"host"`
	Headers        map[string]string `json:"headers,omitempty"`
	PersistHeaders bool              `json:"persistHeaders"`
}

// SettingsUpdate is a partial settings change; nil fields are untouched.
type SettingsUpdate struct {
	Host           *string            `json:"host,omitempty"`
	Headers        *map[string]string `json:"headers,omitempty"`
	PersistHeaders *bool              `json:"persistHeaders,omitempty"`
}

// AuthHeader is the shape the auth hook must produce. Both fields must be
// non-empty for the result to be usable.
type AuthHeader struct {
	HeaderName  string `json:"headerName"`
	HeaderValue string `json:"headerValue"`
}

// Valid reports whether the hook output is usable.
func (a AuthHeader) Valid() bool {
	return a.HeaderName != "" && a.HeaderValue != ""
}
