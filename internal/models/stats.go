package models

import (
	"sync/atomic"
	"time"
)

// ConsoleStats aggregates try-console activity across all endpoints.
type ConsoleStats struct {
	TotalExecutions int64           `json:"totalExecutions"`
	TotalFailures   int64           `json:"totalFailures"`
	AvgElapsedMs    float64         `json:"avgElapsedMs"`
	StartTime       time.Time       `json:"startTime"`
	Uptime          string          `json:"uptime"`
	TopOperations   []OperationStat `json:"topOperations"`
}

// OperationStat aggregates executions of one operation.
type OperationStat struct {
	OperationID     string  `json:"operationId"`
	Method          string  `json:"method"`
	Path            string  `json:"path"`
	TotalExecutions int64   `json:"totalExecutions"`
	TotalFailures   int64   `json:"totalFailures"`
	AvgElapsedMs    float64 `json:"avgElapsedMs"`
	MinElapsedMs    float64 `json:"minElapsedMs"`
	MaxElapsedMs    float64 `json:"maxElapsedMs"`
	LastExecutedAt  string  `json:"lastExecutedAt,omitempty"`
}

// AtomicOperationStat is the lock-free accumulator behind OperationStat.
type AtomicOperationStat struct {
	OperationID    string
	Method         string
	Path           string
	Total          atomic.Int64
	Failures       atomic.Int64
	TotalTimeNs    atomic.Int64
	MinTimeNs      atomic.Int64
	MaxTimeNs      atomic.Int64
	LastExecutedAt atomic.Value // stores time.Time
}

// ToOperationStat converts the accumulator to its snapshot form.
func (a *AtomicOperationStat) ToOperationStat() OperationStat {
	total := a.Total.Load()
	totalNs := a.TotalTimeNs.Load()
	var avgMs float64
	if total > 0 {
		avgMs = float64(totalNs) / float64(total) / 1e6
	}

	var last string
	if t, ok := a.LastExecutedAt.Load().(time.Time); ok && !t.IsZero() {
		last = t.Format(time.RFC3339)
	}

	return OperationStat{
		OperationID:     a.OperationID,
		Method:          a.Method,
		Path:            a.Path,
		TotalExecutions: total,
		TotalFailures:   a.Failures.Load(),
		AvgElapsedMs:    avgMs,
		MinElapsedMs:    float64(a.MinTimeNs.Load()) / 1e6,
		MaxElapsedMs:    float64(a.MaxTimeNs.Load()) / 1e6,
		LastExecutedAt:  last,
	}
}
