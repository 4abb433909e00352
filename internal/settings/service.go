package settings

import (
	"sync"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Service mediates between the session-scoped header map and the durable
// store. Host and the persist flag always hit the durable store; headers
// live in the session and are mirrored durably only while the flag is set.
type Service struct {
	mu          sync.RWMutex
	store       Store
	session     map[string]string
	defaultHost string
}

// NewService loads durable state and seeds the session headers from the
// durable mirror when header persistence is enabled.
func NewService(store Store, defaultHost string) (*Service, error) {
	durable, err := store.Load()
	if err != nil {
		return nil, err
	}

	session := make(map[string]string)
	if durable.PersistHeaders {
		for k, v := range durable.Headers {
			session[k] = v
		}
	}

	return &Service{
		store:       store,
		session:     session,
		defaultHost: defaultHost,
	}, nil
}

// Get returns the effective settings.
func (s *Service) Get() (models.StoredSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	durable, err := s.store.Load()
	if err != nil {
		return models.StoredSettings{}, err
	}

	host := durable.Host
	if host == "" {
		host = s.defaultHost
	}

	headers := make(map[string]string, len(s.session))
	for k, v := range s.session {
		headers[k] = v
	}

	return models.StoredSettings{
		Host:           host,
		Headers:        headers,
		PersistHeaders: durable.PersistHeaders,
	}, nil
}

// Update applies a partial change. Toggling persistence off removes the
// durable header mirror but leaves the session headers intact.
func (s *Service) Update(update models.SettingsUpdate) (models.StoredSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	durable, err := s.store.Load()
	if err != nil {
		return models.StoredSettings{}, err
	}

	if update.Host != nil {
		durable.Host = *update.Host
	}
	if update.PersistHeaders != nil {
		durable.PersistHeaders = *update.PersistHeaders
	}
	if update.Headers != nil {
		s.session = make(map[string]string, len(*update.Headers))
		for k, v := range *update.Headers {
			s.session[k] = v
		}
	}

	if durable.PersistHeaders {
		durable.Headers = make(map[string]string, len(s.session))
		for k, v := range s.session {
			durable.Headers[k] = v
		}
	} else {
		durable.Headers = nil
	}

	if err := s.store.Save(durable); err != nil {
		return models.StoredSettings{}, err
	}

	host := durable.Host
	if host == "" {
		host = s.defaultHost
	}

	headers := make(map[string]string, len(s.session))
	for k, v := range s.session {
		headers[k] = v
	}

	return models.StoredSettings{
		Host:           host,
		Headers:        headers,
		PersistHeaders: durable.PersistHeaders,
	}, nil
}

// ClearSession drops the session headers, simulating the end of a browser
// session. The durable mirror is untouched.
func (s *Service) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = make(map[string]string)
}
