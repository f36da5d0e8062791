package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks request-level counters plus the lifecycle events the
// engine cares about: submissions, decisions, and carry-forward runs.
// All methods are safe on a nil receiver so wiring stays optional.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	submissions      uint64
	approvals        uint64
	rejections       uint64
	cancellations    uint64
	carryForwardRuns uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordSubmission() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.submissions, 1)
}

func (c *Collector) RecordApproval() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.approvals, 1)
}

func (c *Collector) RecordRejection() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.rejections, 1)
}

func (c *Collector) RecordCancellation() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.cancellations, 1)
}

func (c *Collector) RecordCarryForwardRun() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.carryForwardRuns, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":      atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":         avg,
		"leaveSubmissions":      atomic.LoadUint64(&c.submissions),
		"leaveApprovals":        atomic.LoadUint64(&c.approvals),
		"leaveRejections":       atomic.LoadUint64(&c.rejections),
		"leaveCancellations":    atomic.LoadUint64(&c.cancellations),
		"carryForwardRunsTotal": atomic.LoadUint64(&c.carryForwardRuns),
	}
}
