package models

import "time"

// ExecutionRecord is one captured try-console invocation.
type ExecutionRecord struct {
	ID          string          `json:"id"`
	OperationID string          `json:"operationId"`
	Timestamp   time.Time       `json:"timestamp"`
	Request     RequestSpec     `json:"request"`
	Result      ExecutionResult `json:"result"`
}

// HistoryFilter selects execution records when querying history.
type HistoryFilter struct {
	OperationID string    `json:"operationId,omitempty"`
	Method      string    `json:"method,omitempty"`
	StatusCode  int       `json:"statusCode,omitempty"`
	Failed      *bool     `json:"failed,omitempty"`
	StartTime   time.Time `json:"startTime,omitempty"`
	EndTime     time.Time `json:"endTime,omitempty"`
	Limit       int       `json:"limit,omitempty"`
}
