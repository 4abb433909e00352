// Package settings persists the try-console configuration. Host and the
// persist flag are always durable; headers are session-scoped unless the
// user opts into persisting them.
package settings

// durableSettings is the shape written to the durable store.
type durableSettings struct {
	Host           string            `json:"host"`
	PersistHeaders bool              `json:"persistHeaders"`
	Headers        map[string]string `json:"headers,omitempty"` // mirror, only while PersistHeaders
}

// Store is the durable half of the settings service.
type Store interface {
	Load() (durableSettings, error)
	Save(durableSettings) error
}
