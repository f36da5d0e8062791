package leave

import (
	"testing"
	"time"

	"leavetrack/internal/domain/auth"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateRequestDays(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		isHalfDay bool
		want      float64
		wantErr   bool
	}{
		{name: "single day", start: day(2025, 6, 10), end: day(2025, 6, 10), want: 1},
		{name: "inclusive range", start: day(2025, 6, 10), end: day(2025, 6, 14), want: 5},
		{name: "half day", start: day(2025, 6, 10), end: day(2025, 6, 10), isHalfDay: true, want: 0.5},
		{name: "half day spanning days", start: day(2025, 6, 10), end: day(2025, 6, 11), isHalfDay: true, wantErr: true},
		{name: "end before start", start: day(2025, 6, 10), end: day(2025, 6, 9), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateRequestDays(tt.start, tt.end, tt.isHalfDay)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint before", day(2025, 6, 1), day(2025, 6, 2), day(2025, 6, 3), day(2025, 6, 4), false},
		{"touching boundary", day(2025, 6, 1), day(2025, 6, 3), day(2025, 6, 3), day(2025, 6, 5), true},
		{"contained", day(2025, 6, 2), day(2025, 6, 3), day(2025, 6, 1), day(2025, 6, 5), true},
		{"disjoint after", day(2025, 6, 6), day(2025, 6, 7), day(2025, 6, 1), day(2025, 6, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalApprovalLevel(t *testing.T) {
	tests := []struct {
		name          string
		totalDays     float64
		multiApprover int
		ceiling       int
		want          int
	}{
		{"short single approver", 2, 1, 3, 1},
		{"short multi approver", 2, 2, 3, 2},
		{"long request hits ceiling", 5, 1, 3, 3},
		{"long request manager ceiling", 7, 1, 2, 2},
		{"zero approver floors to one", 1, 0, 3, 1},
		{"multi approver capped by ceiling", 2, 3, 2, 2},
		{"fractional just below threshold", 4.5, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FinalApprovalLevel(tt.totalDays, tt.multiApprover, tt.ceiling); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(LeaveType{AutoApprove: true}, 3); got != StatusApproved {
		t.Fatalf("auto-approve type: got %s", got)
	}
	if got := InitialStatus(LeaveType{}, 1); got != StatusPending {
		t.Fatalf("single level: got %s", got)
	}
	if got := InitialStatus(LeaveType{}, 2); got != StatusPendingL1 {
		t.Fatalf("multi level: got %s", got)
	}
}

func TestVisibleToApprover(t *testing.T) {
	base := PendingRequest{
		RequesterRole:     auth.RoleEmployee,
		ManagerID:         "mgr",
		ManagerManagerID:  "hr",
		ManagerManager2ID: "admin",
	}
	withStatus := func(p PendingRequest, s Status) PendingRequest {
		p.Status = s
		return p
	}

	tests := []struct {
		name       string
		role       string
		approverID string
		req        PendingRequest
		want       bool
	}{
		{"manager sees direct report pending", auth.RoleManager, "mgr", withStatus(base, StatusPending), true},
		{"manager sees direct report l1", auth.RoleManager, "mgr", withStatus(base, StatusPendingL1), true},
		{"manager blind to l2", auth.RoleManager, "mgr", withStatus(base, StatusPendingL2), false},
		{"other manager blind", auth.RoleManager, "other", withStatus(base, StatusPending), false},
		{"hr sees own report pending", auth.RoleHR, "mgr", withStatus(base, StatusPending), true},
		{"hr sees l2 escalation", auth.RoleHR, "hr", withStatus(base, StatusPendingL2), true},
		{"hr blind to l3", auth.RoleHR, "hr", withStatus(base, StatusPendingL3), false},
		{"admin sees l3", auth.RoleAdmin, "admin", withStatus(base, StatusPendingL3), true},
		{"admin sees l2 resolving to them", auth.RoleAdmin, "hr", withStatus(base, StatusPendingL2), true},
		{"admin blind to plain employee pending", auth.RoleAdmin, "admin", withStatus(base, StatusPending), false},
		{"employee never sees", auth.RoleEmployee, "mgr", withStatus(base, StatusPending), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleToApprover(tt.role, tt.approverID, tt.req); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleToApproverAdminSeesHRPending(t *testing.T) {
	req := PendingRequest{
		RequestView:   RequestView{Status: StatusPending},
		RequesterRole: auth.RoleHR,
		ManagerID:     "admin",
	}
	if !VisibleToApprover(auth.RoleAdmin, "admin", req) {
		t.Fatal("admin should see hr-originated pendings")
	}
}
