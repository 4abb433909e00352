package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Service keeps a bounded in-memory log of try-console executions
type Service struct {
	mu          sync.RWMutex
	records     []*models.ExecutionRecord
	maxRecords  int
	subscribers map[string]chan *models.ExecutionRecord
}

// NewService creates a new history service
func NewService(maxRecords int) *Service {
	if maxRecords <= 0 {
		maxRecords = 500
	}

	return &Service{
		records:     make([]*models.ExecutionRecord, 0),
		maxRecords:  maxRecords,
		subscribers: make(map[string]chan *models.ExecutionRecord),
	}
}

// Record appends an execution record and notifies live subscribers
func (s *Service) Record(record *models.ExecutionRecord) {
	s.mu.Lock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	s.records = append(s.records, record)

	// Trim if over max
	if len(s.records) > s.maxRecords {
		s.records = s.records[len(s.records)-s.maxRecords:]
	}

	// Get subscribers snapshot
	subscribers := make([]chan *models.ExecutionRecord, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subscribers = append(subscribers, ch)
	}

	s.mu.Unlock()

	// Notify subscribers (non-blocking)
	for _, ch := range subscribers {
		select {
		case ch <- record:
		default:
			// Channel full, skip
		}
	}
}

// GetRecords returns records matching the filter, newest first
func (s *Service) GetRecords(filter *models.HistoryFilter) []*models.ExecutionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.ExecutionRecord, 0)

	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]

		if filter != nil {
			if filter.OperationID != "" && record.OperationID != filter.OperationID {
				continue
			}
			if filter.Method != "" && record.Request.Method != filter.Method {
				continue
			}
			if filter.StatusCode != 0 && record.Result.StatusCode != filter.StatusCode {
				continue
			}
			if filter.Failed != nil && (record.Result.State == models.StateFailed) != *filter.Failed {
				continue
			}
			if !filter.StartTime.IsZero() && record.Timestamp.Before(filter.StartTime) {
				continue
			}
			if !filter.EndTime.IsZero() && record.Timestamp.After(filter.EndTime) {
				continue
			}
		}

		result = append(result, record)

		if filter != nil && filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result
}

// GetRecord returns a single record by ID
func (s *Service) GetRecord(id string) *models.ExecutionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.ID == id {
			return record
		}
	}

	return nil
}

// Clear removes all records
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*models.ExecutionRecord, 0)
}

// Subscribe creates a subscription for live execution records
func (s *Service) Subscribe() (string, chan *models.ExecutionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan *models.ExecutionRecord, 100)
	s.subscribers[id] = ch

	return id, ch
}

// Unsubscribe removes a subscription
func (s *Service) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}
