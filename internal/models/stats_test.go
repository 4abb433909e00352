package models

import (
	"testing"
	"time"
)

func TestAtomicOperationStat_ToOperationStat(t *testing.T) {
	stat := &AtomicOperationStat{
		OperationID: "shop_products_list",
		Method:      "GET",
		Path:        "/api/shop/products/",
	}
	stat.Total.Store(4)
	stat.Failures.Store(1)
	stat.TotalTimeNs.Store(int64(400 * time.Millisecond))
	stat.MinTimeNs.Store(int64(50 * time.Millisecond))
	stat.MaxTimeNs.Store(int64(200 * time.Millisecond))
	now := time.Now()
	stat.LastExecutedAt.Store(now)

	snapshot := stat.ToOperationStat()

	if snapshot.OperationID != "shop_products_list" {
		t.Errorf("OperationID = %q", snapshot.OperationID)
	}
	if snapshot.TotalExecutions != 4 {
		t.Errorf("TotalExecutions = %d", snapshot.TotalExecutions)
	}
	if snapshot.TotalFailures != 1 {
		t.Errorf("TotalFailures = %d", snapshot.TotalFailures)
	}
	if snapshot.AvgElapsedMs != 100 {
		t.Errorf("AvgElapsedMs = %f, want 100", snapshot.AvgElapsedMs)
	}
	if snapshot.MinElapsedMs != 50 || snapshot.MaxElapsedMs != 200 {
		t.Errorf("min/max = %f/%f", snapshot.MinElapsedMs, snapshot.MaxElapsedMs)
	}
	if snapshot.LastExecutedAt != now.Format(time.RFC3339) {
		t.Errorf("LastExecutedAt = %q", snapshot.LastExecutedAt)
	}
}

func TestAtomicOperationStat_Zero(t *testing.T) {
	stat := &AtomicOperationStat{OperationID: "never_run"}

	snapshot := stat.ToOperationStat()
	if snapshot.AvgElapsedMs != 0 {
		t.Errorf("AvgElapsedMs = %f, want 0 with no executions", snapshot.AvgElapsedMs)
	}
	if snapshot.LastExecutedAt != "" {
		t.Errorf("LastExecutedAt = %q, want empty", snapshot.LastExecutedAt)
	}
}
