package health

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
)

// RuntimeCheckerConfig configures a RuntimeChecker.
type RuntimeCheckerConfig struct {
	// MaxHeap is the heap size treated as full. Default: the GOMEMLIMIT
	// soft limit; with no limit set the heap is not judged.
	MaxHeap uint64

	// WarningThreshold is the heap fraction that degrades. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the heap fraction that fails. Default: 0.95
	CriticalThreshold float64

	// MaxGoroutines degrades the check when exceeded. Zero disables it.
	MaxGoroutines int
}

// RuntimeChecker reports heap pressure and goroutine count.
type RuntimeChecker struct {
	config RuntimeCheckerConfig
	read   func(*runtime.MemStats)
}

// NewRuntimeChecker creates a RuntimeChecker.
func NewRuntimeChecker(config RuntimeCheckerConfig) *RuntimeChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= config.WarningThreshold || config.CriticalThreshold > 1 {
		config.CriticalThreshold = math.Max(0.95, config.WarningThreshold)
	}
	if config.MaxHeap == 0 {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			config.MaxHeap = uint64(limit)
		}
	}
	return &RuntimeChecker{config: config, read: runtime.ReadMemStats}
}

// Name returns the name of this checker.
func (c *RuntimeChecker) Name() string { return "runtime" }

// Check reads the memory statistics.
func (c *RuntimeChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	c.read(&stats)
	goroutines := runtime.NumGoroutine()
	details := map[string]any{
		"heap_alloc": stats.HeapAlloc,
		"heap_sys":   stats.HeapSys,
		"num_gc":     stats.NumGC,
		"goroutines": goroutines,
	}

	if c.config.MaxHeap > 0 {
		ratio := float64(stats.HeapAlloc) / float64(c.config.MaxHeap)
		details["heap_percent"] = ratio * 100
		switch {
		case ratio >= c.config.CriticalThreshold:
			return Unhealthy(fmt.Sprintf("heap usage critical: %.1f%%", ratio*100), ErrCheckFailed).WithDetails(details)
		case ratio >= c.config.WarningThreshold:
			return Degraded(fmt.Sprintf("heap usage high: %.1f%%", ratio*100)).WithDetails(details)
		}
	}
	if c.config.MaxGoroutines > 0 && goroutines > c.config.MaxGoroutines {
		return Degraded(fmt.Sprintf("%d goroutines running", goroutines)).WithDetails(details)
	}
	return Healthy("runtime normal").WithDetails(details)
}

var _ Checker = (*RuntimeChecker)(nil)
