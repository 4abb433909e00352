package history

import (
	"testing"
	"time"

	"github.com/ShayestehHS/apidock/internal/models"
)

func record(opID, method string, status int, state string) *models.ExecutionRecord {
	return &models.ExecutionRecord{
		OperationID: opID,
		Request:     models.RequestSpec{Method: method},
		Result:      models.ExecutionResult{State: state, StatusCode: status},
	}
}

func TestRecord_AssignsIDAndTimestamp(t *testing.T) {
	s := NewService(10)

	r := record("shop_products_list", "GET", 200, models.StateSucceeded)
	s.Record(r)

	if r.ID == "" {
		t.Error("expected generated id")
	}
	if r.Timestamp.IsZero() {
		t.Error("expected timestamp set")
	}
}

func TestRecord_RingBuffer(t *testing.T) {
	s := NewService(3)

	for i := 0; i < 5; i++ {
		s.Record(record("op", "GET", 200, models.StateSucceeded))
	}

	records := s.GetRecords(nil)
	if len(records) != 3 {
		t.Errorf("expected buffer trimmed to 3, got %d", len(records))
	}
}

func TestGetRecords_Filters(t *testing.T) {
	s := NewService(10)
	s.Record(record("shop_products_list", "GET", 200, models.StateSucceeded))
	s.Record(record("shop_products_create", "POST", 400, models.StateSucceeded))
	s.Record(record("shop_products_list", "GET", 200, models.StateFailed))

	failed := true

	tests := []struct {
		name     string
		filter   *models.HistoryFilter
		expected int
	}{
		{"no filter", nil, 3},
		{"by operation", &models.HistoryFilter{OperationID: "shop_products_list"}, 2},
		{"by method", &models.HistoryFilter{Method: "POST"}, 1},
		{"by status", &models.HistoryFilter{StatusCode: 400}, 1},
		{"by failed", &models.HistoryFilter{Failed: &failed}, 1},
		{"limit", &models.HistoryFilter{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.GetRecords(tt.filter)
			if len(got) != tt.expected {
				t.Errorf("got %d records, want %d", len(got), tt.expected)
			}
		})
	}
}

func TestGetRecords_NewestFirst(t *testing.T) {
	s := NewService(10)
	first := record("first", "GET", 200, models.StateSucceeded)
	second := record("second", "GET", 200, models.StateSucceeded)
	s.Record(first)
	s.Record(second)

	records := s.GetRecords(nil)
	if records[0].OperationID != "second" {
		t.Errorf("expected newest first, got %s", records[0].OperationID)
	}
}

func TestGetRecord(t *testing.T) {
	s := NewService(10)
	r := record("op", "GET", 200, models.StateSucceeded)
	s.Record(r)

	if got := s.GetRecord(r.ID); got == nil || got.ID != r.ID {
		t.Errorf("GetRecord failed: %+v", got)
	}
	if got := s.GetRecord("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := NewService(10)
	s.Record(record("op", "GET", 200, models.StateSucceeded))

	s.Clear()

	if got := s.GetRecords(nil); len(got) != 0 {
		t.Errorf("expected empty history, got %d", len(got))
	}
}

func TestSubscribe_ReceivesLiveRecords(t *testing.T) {
	s := NewService(10)

	id, ch := s.Subscribe()
	defer s.Unsubscribe(id)

	s.Record(record("op", "GET", 200, models.StateSucceeded))

	select {
	case got := <-ch:
		if got.OperationID != "op" {
			t.Errorf("unexpected record: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for live record")
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	s := NewService(10)

	id, ch := s.Subscribe()
	s.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}
