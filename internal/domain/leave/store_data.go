package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const typeColumns = "id, name, max_per_year, multi_approver, auto_approve, exempt, carry_forward"

func scanType(row pgx.Row) (LeaveType, error) {
	var lt LeaveType
	err := row.Scan(&lt.ID, &lt.Name, &lt.MaxPerYear, &lt.MultiApprover, &lt.AutoApprove, &lt.Exempt, &lt.CarryForward)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrTypeNotFound
	}
	return lt, err
}

func (s *Store) TypeByID(ctx context.Context, id string) (LeaveType, error) {
	return scanType(s.Pool.QueryRow(ctx, `
    SELECT `+typeColumns+`
    FROM leave_types
    WHERE id = $1 AND is_deleted = false
  `, id))
}

func (s *Store) ListTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := s.Pool.Query(ctx, `
    SELECT `+typeColumns+`
    FROM leave_types
    WHERE is_deleted = false
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var lt LeaveType
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.MaxPerYear, &lt.MultiApprover, &lt.AutoApprove, &lt.Exempt, &lt.CarryForward); err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

func (s *Store) CreateType(ctx context.Context, lt LeaveType) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `
    INSERT INTO leave_types (name, max_per_year, multi_approver, auto_approve, exempt, carry_forward)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, lt.Name, lt.MaxPerYear, lt.MultiApprover, lt.AutoApprove, lt.Exempt, lt.CarryForward).Scan(&id)
	return id, err
}

func (s *Store) UpdateType(ctx context.Context, lt LeaveType) error {
	_, err := s.Pool.Exec(ctx, `
    UPDATE leave_types
    SET name = $2, max_per_year = $3, multi_approver = $4, auto_approve = $5, exempt = $6, carry_forward = $7
    WHERE id = $1 AND is_deleted = false
  `, lt.ID, lt.Name, lt.MaxPerYear, lt.MultiApprover, lt.AutoApprove, lt.Exempt, lt.CarryForward)
	return err
}

// SoftDeleteType flags the type and cascades the flag to its requests in
// one transaction.
func (s *Store) SoftDeleteType(ctx context.Context, id string) error {
	return s.InTx(ctx, func(api TxAPI) error {
		tx := api.(*txStore)
		tag, err := tx.q.Exec(ctx, `
      UPDATE leave_types SET is_deleted = true WHERE id = $1 AND is_deleted = false
    `, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrTypeNotFound
		}
		_, err = tx.q.Exec(ctx, `
      UPDATE leave_requests SET is_deleted = true WHERE leave_type_id = $1
    `, id)
		return err
	})
}

func (s *Store) BalancesByUserYear(ctx context.Context, userID string, year int) ([]BalanceView, error) {
	rows, err := s.Pool.Query(ctx, `
    SELECT lb.leave_type_id, lt.name, lb.balance, lb.used, lb.balance + lb.used
    FROM leave_balances lb
    JOIN leave_types lt ON lt.id = lb.leave_type_id
    WHERE lb.user_id = $1 AND lb.year = $2
      AND lb.is_deleted = false AND lt.is_deleted = false
    ORDER BY lt.name
  `, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []BalanceView
	for rows.Next() {
		var v BalanceView
		if err := rows.Scan(&v.LeaveTypeID, &v.LeaveType, &v.Balance, &v.Used, &v.Total); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *Store) BalancesForTypeYear(ctx context.Context, leaveTypeID string, year int) ([]LeaveBalance, error) {
	rows, err := s.Pool.Query(ctx, `
    SELECT id, user_id, leave_type_id, year, balance, used
    FROM leave_balances
    WHERE leave_type_id = $1 AND year = $2 AND is_deleted = false
  `, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(&b.ID, &b.UserID, &b.LeaveTypeID, &b.Year, &b.Balance, &b.Used); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) CreateBalanceIfMissing(ctx context.Context, userID, leaveTypeID string, year int, balance float64) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
    INSERT INTO leave_balances (user_id, leave_type_id, year, balance, used)
    VALUES ($1, $2, $3, $4, 0)
    ON CONFLICT (user_id, leave_type_id, year) DO NOTHING
  `, userID, leaveTypeID, year, balance)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const requestColumns = `
  lr.id, lr.user_id, lr.leave_type_id, lr.start_date, lr.end_date,
  lr.is_half_day, COALESCE(lr.half_day_type, ''), COALESCE(lr.reason, ''),
  lr.status, lr.final_approval_level, lr.total_days,
  COALESCE(lr.level2_approver_id::text, ''), COALESCE(lr.level3_approver_id::text, ''),
  lr.created_at, lr.status_updated_at`

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var req LeaveRequest
	err := row.Scan(
		&req.ID, &req.UserID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.IsHalfDay, &req.HalfDayType, &req.Reason,
		&req.Status, &req.FinalApprovalLevel, &req.TotalDays,
		&req.Level2ApproverID, &req.Level3ApproverID,
		&req.CreatedAt, &req.StatusUpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	return req, err
}

func (s *Store) RequestByID(ctx context.Context, id string) (LeaveRequest, error) {
	return scanRequest(s.Pool.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests lr
    WHERE lr.id = $1 AND lr.is_deleted = false
  `, id))
}

func (s *Store) HistoryByUser(ctx context.Context, userID string) ([]RequestView, error) {
	rows, err := s.Pool.Query(ctx, `
    SELECT lr.id, lr.user_id, u.name, lr.leave_type_id, lt.name,
           lr.start_date, lr.end_date, COALESCE(lr.reason, ''), lr.status,
           lr.total_days, COALESCE(mgr.name, ''), lr.created_at, lr.status_updated_at
    FROM leave_requests lr
    JOIN users u ON u.id = lr.user_id
    JOIN leave_types lt ON lt.id = lr.leave_type_id
    LEFT JOIN users mgr ON mgr.id = u.manager_id
    WHERE lr.user_id = $1
      AND lr.is_deleted = false AND u.is_deleted = false AND lt.is_deleted = false
    ORDER BY lr.created_at DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []RequestView
	for rows.Next() {
		var v RequestView
		if err := rows.Scan(&v.ID, &v.UserID, &v.UserName, &v.LeaveTypeID, &v.LeaveType,
			&v.StartDate, &v.EndDate, &v.Reason, &v.Status,
			&v.TotalDays, &v.ManagerName, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// PendingWithChain returns every awaiting-approval request joined with
// the requester's live manager chain; the service applies the role
// visibility predicate on top.
func (s *Store) PendingWithChain(ctx context.Context) ([]PendingRequest, error) {
	rows, err := s.Pool.Query(ctx, `
    SELECT lr.id, lr.user_id, u.name, lr.leave_type_id, lt.name,
           lr.start_date, lr.end_date, COALESCE(lr.reason, ''), lr.status,
           lr.total_days, lr.created_at, lr.status_updated_at,
           u.role,
           COALESCE(u.manager_id::text, ''),
           COALESCE(mgr.manager_id::text, ''),
           COALESCE(mgr2.manager_id::text, '')
    FROM leave_requests lr
    JOIN users u ON u.id = lr.user_id
    JOIN leave_types lt ON lt.id = lr.leave_type_id
    LEFT JOIN users mgr ON mgr.id = u.manager_id
    LEFT JOIN users mgr2 ON mgr2.id = mgr.manager_id
    WHERE lr.status IN ($1, $2, $3, $4)
      AND lr.is_deleted = false AND u.is_deleted = false AND lt.is_deleted = false
    ORDER BY lr.created_at
  `, StatusPending, StatusPendingL1, StatusPendingL2, StatusPendingL3)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pendings []PendingRequest
	for rows.Next() {
		var p PendingRequest
		if err := rows.Scan(&p.ID, &p.UserID, &p.UserName, &p.LeaveTypeID, &p.LeaveType,
			&p.StartDate, &p.EndDate, &p.Reason, &p.Status,
			&p.TotalDays, &p.CreatedAt, &p.UpdatedAt,
			&p.RequesterRole, &p.ManagerID, &p.ManagerManagerID, &p.ManagerManager2ID); err != nil {
			return nil, err
		}
		pendings = append(pendings, p)
	}
	return pendings, rows.Err()
}

func (t *txStore) BalanceRow(ctx context.Context, userID, leaveTypeID string, year int) (LeaveBalance, error) {
	var b LeaveBalance
	err := t.q.QueryRow(ctx, `
    SELECT id, user_id, leave_type_id, year, balance, used
    FROM leave_balances
    WHERE user_id = $1 AND leave_type_id = $2 AND year = $3 AND is_deleted = false
    FOR UPDATE
  `, userID, leaveTypeID, year).Scan(&b.ID, &b.UserID, &b.LeaveTypeID, &b.Year, &b.Balance, &b.Used)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveBalance{}, ErrBalanceNotFound
	}
	return b, err
}

func (t *txStore) HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	var exists bool
	err := t.q.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1
      FROM leave_requests
      WHERE user_id = $1
        AND status IN ($2, $3, $4, $5, $6)
        AND start_date <= $8 AND end_date >= $7
        AND is_deleted = false
    )
  `, userID, StatusPending, StatusPendingL1, StatusPendingL2, StatusPendingL3, StatusApproved, start, end).Scan(&exists)
	return exists, err
}

func (t *txStore) CreateRequest(ctx context.Context, req LeaveRequest) (string, error) {
	var id string
	err := t.q.QueryRow(ctx, `
    INSERT INTO leave_requests
      (user_id, leave_type_id, start_date, end_date, is_half_day, half_day_type,
       reason, status, final_approval_level, total_days, level2_approver_id, level3_approver_id)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10,
            NULLIF($11, '')::uuid, NULLIF($12, '')::uuid)
    RETURNING id
  `, req.UserID, req.LeaveTypeID, req.StartDate, req.EndDate, req.IsHalfDay, string(req.HalfDayType),
		req.Reason, req.Status, req.FinalApprovalLevel, req.TotalDays,
		req.Level2ApproverID, req.Level3ApproverID).Scan(&id)
	return id, err
}

func (t *txStore) RequestForUpdate(ctx context.Context, id string) (LeaveRequest, error) {
	return scanRequest(t.q.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests lr
    WHERE lr.id = $1 AND lr.is_deleted = false
    FOR UPDATE
  `, id))
}

func (t *txStore) UpdateRequestStatus(ctx context.Context, id string, status Status, at time.Time) error {
	tag, err := t.q.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, status_updated_at = $3
    WHERE id = $1 AND is_deleted = false
  `, id, status, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyDelta adjusts one balance row in place. A missing row is a
// provisioning gap, surfaced as ErrBalanceNotFound rather than silently
// inventing an account.
func (t *txStore) ApplyDelta(ctx context.Context, userID, leaveTypeID string, year int, d Delta) error {
	tag, err := t.q.Exec(ctx, `
    UPDATE leave_balances
    SET balance = balance + $4, used = used + $5
    WHERE user_id = $1 AND leave_type_id = $2 AND year = $3 AND is_deleted = false
  `, userID, leaveTypeID, year, d.Balance, d.Used)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBalanceNotFound
	}
	return nil
}
