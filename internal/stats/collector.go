package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Collector collects and aggregates try-console execution statistics
type Collector struct {
	mu         sync.RWMutex
	startTime  time.Time
	operations map[string]*models.AtomicOperationStat // operationID -> stats
}

// NewCollector creates a new statistics collector
func NewCollector() *Collector {
	return &Collector{
		startTime:  time.Now(),
		operations: make(map[string]*models.AtomicOperationStat),
	}
}

// RecordExecution records one console execution for statistics
func (c *Collector) RecordExecution(operationID, method, path string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	opStats, ok := c.operations[operationID]
	if !ok {
		opStats = &models.AtomicOperationStat{
			OperationID: operationID,
			Method:      method,
			Path:        path,
		}
		opStats.MinTimeNs.Store(duration.Nanoseconds())
		c.operations[operationID] = opStats
	}

	opStats.Total.Add(1)
	opStats.TotalTimeNs.Add(duration.Nanoseconds())
	opStats.LastExecutedAt.Store(time.Now())

	// Update min/max
	durationNs := duration.Nanoseconds()
	for {
		currentMin := opStats.MinTimeNs.Load()
		if durationNs >= currentMin || opStats.MinTimeNs.CompareAndSwap(currentMin, durationNs) {
			break
		}
	}
	for {
		currentMax := opStats.MaxTimeNs.Load()
		if durationNs <= currentMax || opStats.MaxTimeNs.CompareAndSwap(currentMax, durationNs) {
			break
		}
	}

	if failed {
		opStats.Failures.Add(1)
	}
}

// GetConsoleStats returns aggregated statistics across every operation
func (c *Collector) GetConsoleStats() *models.ConsoleStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var totalExecutions, totalFailures, totalTimeNs int64

	opStats := make([]models.OperationStat, 0, len(c.operations))
	for _, op := range c.operations {
		stat := op.ToOperationStat()
		opStats = append(opStats, stat)
		totalExecutions += stat.TotalExecutions
		totalFailures += stat.TotalFailures
		totalTimeNs += op.TotalTimeNs.Load()
	}

	// Sort by total executions (descending)
	sort.Slice(opStats, func(i, j int) bool {
		return opStats[i].TotalExecutions > opStats[j].TotalExecutions
	})

	// Top 10 operations
	topOps := opStats
	if len(topOps) > 10 {
		topOps = topOps[:10]
	}

	var avgElapsedMs float64
	if totalExecutions > 0 {
		avgElapsedMs = float64(totalTimeNs) / float64(totalExecutions) / 1e6
	}

	return &models.ConsoleStats{
		TotalExecutions: totalExecutions,
		TotalFailures:   totalFailures,
		AvgElapsedMs:    avgElapsedMs,
		StartTime:       c.startTime,
		Uptime:          time.Since(c.startTime).Round(time.Second).String(),
		TopOperations:   topOps,
	}
}

// GetOperationStats returns statistics for a specific operation
func (c *Collector) GetOperationStats(operationID string) *models.OperationStat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if op, ok := c.operations[operationID]; ok {
		stat := op.ToOperationStat()
		return &stat
	}

	return nil
}

// Reset resets all statistics
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.operations = make(map[string]*models.AtomicOperationStat)
}
