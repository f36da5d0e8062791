package leave

import "time"

type HalfDayType string

const (
	HalfDayAM HalfDayType = "AM"
	HalfDayPM HalfDayType = "PM"
)

// LeaveType is a category of absence with its own annual allowance and
// required approval depth. AutoApprove types skip the approval flow
// entirely; Exempt types keep a nominal balance that is never enforced or
// decremented; CarryForward marks eligibility for the yearly roll.
type LeaveType struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MaxPerYear    float64 `json:"maxPerYear"`
	MultiApprover int     `json:"multiApprover"`
	AutoApprove   bool    `json:"autoApprove"`
	Exempt        bool    `json:"exempt"`
	CarryForward  bool    `json:"carryForward"`
}

// LeaveBalance is the per (user, leaveType, year) account. Balance + Used
// is the year's total entitlement; only provisioning, carry-forward, and
// ledger deltas may touch the pair.
type LeaveBalance struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	LeaveTypeID string  `json:"leaveTypeId"`
	Year        int     `json:"year"`
	Balance     float64 `json:"balance"`
	Used        float64 `json:"used"`
}

// BalanceView is a balance row joined with its leave-type name.
type BalanceView struct {
	LeaveTypeID string  `json:"leaveTypeId"`
	LeaveType   string  `json:"leaveType"`
	Balance     float64 `json:"balance"`
	Used        float64 `json:"used"`
	Total       float64 `json:"total"`
}

type LeaveRequest struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"userId"`
	LeaveTypeID        string      `json:"leaveTypeId"`
	StartDate          time.Time   `json:"startDate"`
	EndDate            time.Time   `json:"endDate"`
	IsHalfDay          bool        `json:"isHalfDay"`
	HalfDayType        HalfDayType `json:"halfDayType,omitempty"`
	Reason             string      `json:"reason"`
	Status             Status      `json:"status"`
	FinalApprovalLevel int         `json:"finalApprovalLevel"`
	TotalDays          float64     `json:"totalDays"`
	Level2ApproverID   string      `json:"level2ApproverId,omitempty"`
	Level3ApproverID   string      `json:"level3ApproverId,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	StatusUpdatedAt    *time.Time  `json:"statusUpdatedAt,omitempty"`
}

// RequestView is a request joined with display names for history and
// approval-inbox listings.
type RequestView struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	LeaveTypeID string     `json:"leaveTypeId"`
	LeaveType   string     `json:"leaveType"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Reason      string     `json:"reason"`
	Status      Status     `json:"status"`
	TotalDays   float64    `json:"totalDays"`
	ManagerName string     `json:"managerName,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PendingRequest is a non-terminal request joined with the requester's
// live manager chain, the unit the inbox visibility filter works on.
type PendingRequest struct {
	RequestView
	RequesterRole     string `json:"requesterRole"`
	ManagerID         string `json:"managerId,omitempty"`
	ManagerManagerID  string `json:"managerManagerId,omitempty"`
	ManagerManager2ID string `json:"managerManager2Id,omitempty"`
}
