package reports

import (
	"context"
	"time"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/leave"
	"leavetrack/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// OnLeaveToday lists users with an approved request covering the given day.
func (s *Store) OnLeaveToday(ctx context.Context, today time.Time) ([]OnLeaveRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.name, u.email, lr.start_date, lr.end_date, lt.name
    FROM leave_requests lr
    JOIN users u ON u.id = lr.user_id
    JOIN leave_types lt ON lt.id = lr.leave_type_id
    WHERE lr.status = $1
      AND $2::date BETWEEN lr.start_date AND lr.end_date
      AND lr.is_deleted = false AND u.is_deleted = false AND lt.is_deleted = false
    ORDER BY u.name
  `, leave.StatusApproved, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OnLeaveRow
	for rows.Next() {
		var r OnLeaveRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.Email, &r.StartDate, &r.EndDate, &r.LeaveType); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TeamLeave lists approved absences starting in the given month. Admins
// see the whole org; everyone else is limited to the supplied member ids.
func (s *Store) TeamLeave(ctx context.Context, memberIDs []string, month, year int, role string) ([]TeamLeaveRow, error) {
	query := `
    SELECT lr.id, lr.user_id, u.name, lt.name, lr.start_date, lr.end_date,
           COALESCE(lr.reason, ''), lr.total_days
    FROM leave_requests lr
    JOIN users u ON u.id = lr.user_id
    JOIN leave_types lt ON lt.id = lr.leave_type_id
    WHERE lr.status = $1
      AND EXTRACT(MONTH FROM lr.start_date) = $2
      AND EXTRACT(YEAR FROM lr.start_date) = $3
      AND lr.is_deleted = false AND u.is_deleted = false AND lt.is_deleted = false
  `
	args := []any{leave.StatusApproved, month, year}
	if role != auth.RoleAdmin {
		query += " AND lr.user_id = ANY($4)"
		args = append(args, memberIDs)
	}
	query += " ORDER BY lr.start_date"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamLeaveRow
	for rows.Next() {
		var r TeamLeaveRow
		if err := rows.Scan(&r.RequestID, &r.UserID, &r.UserName, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.TotalDays); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BalanceSummary lists every active user's balance rows for a year with
// joined names, the data set behind the CSV and PDF exports.
func (s *Store) BalanceSummary(ctx context.Context, year int) ([]BalanceSummaryRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.name, lt.name, lb.balance, lb.used, lb.balance + lb.used
    FROM leave_balances lb
    JOIN users u ON u.id = lb.user_id
    JOIN leave_types lt ON lt.id = lb.leave_type_id
    WHERE lb.year = $1
      AND lb.is_deleted = false AND u.is_deleted = false AND lt.is_deleted = false
    ORDER BY u.name, lt.name
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceSummaryRow
	for rows.Next() {
		var r BalanceSummaryRow
		if err := rows.Scan(&r.UserID, &r.UserName, &r.LeaveType, &r.Balance, &r.Used, &r.Entitlement); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
