package metrics

import (
	"testing"
	"time"
)

func TestRecordClassifiesStatuses(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 0)

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(3) {
		t.Fatalf("requestsTotal = %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"] != uint64(1) {
		t.Fatalf("errorsTotal = %v", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"] != uint64(1) {
		t.Fatalf("rateLimitedTotal = %v", snap["rateLimitedTotal"])
	}
}

func TestLifecycleCounters(t *testing.T) {
	c := New()
	c.RecordSubmission()
	c.RecordSubmission()
	c.RecordApproval()
	c.RecordRejection()
	c.RecordCancellation()
	c.RecordCarryForwardRun()

	snap := c.Snapshot()
	if snap["leaveSubmissions"] != uint64(2) {
		t.Fatalf("leaveSubmissions = %v", snap["leaveSubmissions"])
	}
	if snap["leaveApprovals"] != uint64(1) {
		t.Fatalf("leaveApprovals = %v", snap["leaveApprovals"])
	}
	if snap["leaveRejections"] != uint64(1) {
		t.Fatalf("leaveRejections = %v", snap["leaveRejections"])
	}
	if snap["leaveCancellations"] != uint64(1) {
		t.Fatalf("leaveCancellations = %v", snap["leaveCancellations"])
	}
	if snap["carryForwardRunsTotal"] != uint64(1) {
		t.Fatalf("carryForwardRunsTotal = %v", snap["carryForwardRunsTotal"])
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
	c.RecordSubmission()
	c.RecordCarryForwardRun()
}
