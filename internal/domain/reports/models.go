package reports

import "time"

// OnLeaveRow is one user absent today.
type OnLeaveRow struct {
	UserID    string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	LeaveType string    `json:"leaveType"`
}

// TeamLeaveRow is one approved absence in a team's monthly calendar.
type TeamLeaveRow struct {
	RequestID string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	LeaveType string    `json:"leaveType"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
	TotalDays float64   `json:"totalDays"`
}

// BalanceSummaryRow aggregates one user's entitlements for a year.
type BalanceSummaryRow struct {
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName"`
	LeaveType    string  `json:"leaveType"`
	Balance      float64 `json:"balance"`
	Used         float64 `json:"used"`
	Entitlement  float64 `json:"entitlement"`
}
