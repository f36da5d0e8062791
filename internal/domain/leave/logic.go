package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"leavetrack/internal/domain/auth"
)

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// CalculateRequestDays returns the chargeable day count for a request. A
// half-day request must be a single calendar day and counts as 0.5.
func CalculateRequestDays(start, end time.Time, isHalfDay bool) (float64, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}
	if isHalfDay {
		if !sameDate(start, end) {
			return 0, ErrInvalidRange
		}
		return 0.5, nil
	}
	return days, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Overlaps is the closed-interval intersection test:
// a.start <= b.end AND a.end >= b.start.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// longRequestDays is the threshold at and beyond which a request always
// demands the maximum depth the requester's role permits, regardless of
// the leave type's lighter multi-approver setting.
const longRequestDays = 5

// FinalApprovalLevel computes the number of approval hops a request needs.
// ceiling is the role-based organizational maximum from the hierarchy
// resolver; multiApprover is the leave type's configured depth.
func FinalApprovalLevel(totalDays float64, multiApprover, ceiling int) int {
	if decimal.NewFromFloat(totalDays).GreaterThanOrEqual(decimal.NewFromInt(longRequestDays)) {
		return ceiling
	}
	level := multiApprover
	if level < 1 {
		level = 1
	}
	if level > ceiling {
		level = ceiling
	}
	return level
}

// InitialStatus determines the state a freshly submitted request starts
// in. Auto-approve types bypass the approval flow entirely.
func InitialStatus(lt LeaveType, finalLevel int) Status {
	if lt.AutoApprove {
		return StatusApproved
	}
	if finalLevel > 1 {
		return StatusPendingL1
	}
	return StatusPending
}

// VisibleToApprover decides whether a pending request belongs in the given
// approver's inbox. Managers see their direct reports' first-level
// pendings; HR additionally sees second-level escalations out of their
// reports' teams; admins see HR-originated pendings plus the L2/L3
// escalations that resolve to them through the chain.
func VisibleToApprover(role, approverID string, req PendingRequest) bool {
	switch role {
	case auth.RoleAdmin:
		if req.Status == StatusPending && req.RequesterRole == auth.RoleHR {
			return true
		}
		if req.Status == StatusPendingL3 && req.ManagerManager2ID == approverID {
			return true
		}
		return req.Status == StatusPendingL2 && req.ManagerManagerID == approverID
	case auth.RoleHR:
		if (req.Status == StatusPending || req.Status == StatusPendingL1) && req.ManagerID == approverID {
			return true
		}
		return req.Status == StatusPendingL2 && req.ManagerManagerID == approverID
	case auth.RoleManager:
		return (req.Status == StatusPending || req.Status == StatusPendingL1) && req.ManagerID == approverID
	}
	return false
}
