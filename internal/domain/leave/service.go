package leave

import (
	"context"
	"log/slog"
	"time"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/directory"
)

type Service struct {
	Store     StoreAPI
	Directory Directory

	// now is swapped in tests to pin status timestamps.
	now func() time.Time
}

func NewService(store StoreAPI, dir Directory) *Service {
	return &Service{Store: store, Directory: dir, now: time.Now}
}

type SubmitInput struct {
	UserID      string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	IsHalfDay   bool
	HalfDayType HalfDayType
	Reason      string
	TotalDays   float64
}

// Submit runs the full submission pipeline: balance check, conflict
// check, chain resolution, approval-depth computation, then a guarded
// insert. Nothing persists on any failure. Auto-approve types finalize
// inside the same transaction, bypassing the approval flow.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	lt, err := s.Store.TypeByID(ctx, in.LeaveTypeID)
	if err != nil {
		return "", err
	}
	user, err := s.Directory.UserByID(ctx, in.UserID)
	if err != nil {
		return "", err
	}
	chain, err := s.Directory.ResolveChain(ctx, in.UserID)
	if err != nil {
		return "", err
	}

	ceiling := directory.MaxApprovalDepth(user.Role)
	finalLevel := FinalApprovalLevel(in.TotalDays, lt.MultiApprover, ceiling)
	status := InitialStatus(lt, finalLevel)
	year := in.StartDate.Year()

	var id string
	err = s.Store.InTx(ctx, func(tx TxAPI) error {
		if err := tx.LockUser(ctx, in.UserID); err != nil {
			return err
		}

		if !lt.Exempt {
			bal, err := tx.BalanceRow(ctx, in.UserID, in.LeaveTypeID, year)
			if err != nil {
				return err
			}
			if ExceedsBalance(in.TotalDays, bal) {
				return ErrLimitExceeded
			}
		}

		overlap, err := tx.HasOverlap(ctx, in.UserID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlapConflict
		}

		req := LeaveRequest{
			UserID:             in.UserID,
			LeaveTypeID:        in.LeaveTypeID,
			StartDate:          in.StartDate,
			EndDate:            in.EndDate,
			IsHalfDay:          in.IsHalfDay,
			HalfDayType:        in.HalfDayType,
			Reason:             in.Reason,
			Status:             status,
			FinalApprovalLevel: finalLevel,
			TotalDays:          in.TotalDays,
			Level2ApproverID:   chain.Level2ApproverID,
			Level3ApproverID:   chain.Level3ApproverID,
		}
		id, err = tx.CreateRequest(ctx, req)
		if err != nil {
			return err
		}

		if status == StatusApproved {
			return tx.ApplyDelta(ctx, in.UserID, in.LeaveTypeID, year, DebitDelta(in.TotalDays, lt.Exempt))
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Outcome reports where a decision left the request. AlreadyProcessed
// marks the soft no-op on terminal requests.
type Outcome struct {
	Status           Status `json:"status"`
	Finalized        bool   `json:"finalized"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
}

// Approve advances the request one approval level, finalizing (and
// debiting the ledger) at the last required level. Requests of an
// auto-approve type that predate the policy finalize immediately.
func (s *Service) Approve(ctx context.Context, requestID string) (Outcome, error) {
	var out Outcome
	err := s.Store.InTx(ctx, func(tx TxAPI) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		lt, err := s.Store.TypeByID(ctx, req.LeaveTypeID)
		if err != nil {
			return err
		}

		if lt.AutoApprove && req.Status != StatusApproved {
			out = Outcome{Status: StatusApproved, Finalized: true}
			return s.finalize(ctx, tx, req, lt)
		}

		next, err := Next(req.Status, ActionApprove, req.FinalApprovalLevel)
		if err == ErrAlreadyProcessed {
			out = Outcome{Status: req.Status, AlreadyProcessed: true}
			return nil
		}
		if err != nil {
			return err
		}

		if Finalizes(req.Status, req.FinalApprovalLevel) {
			out = Outcome{Status: StatusApproved, Finalized: true}
			return s.finalize(ctx, tx, req, lt)
		}
		out = Outcome{Status: next}
		return tx.UpdateRequestStatus(ctx, req.ID, next, s.now())
	})
	return out, err
}

func (s *Service) finalize(ctx context.Context, tx TxAPI, req LeaveRequest, lt LeaveType) error {
	if err := tx.UpdateRequestStatus(ctx, req.ID, StatusApproved, s.now()); err != nil {
		return err
	}
	year := req.StartDate.Year()
	return tx.ApplyDelta(ctx, req.UserID, req.LeaveTypeID, year, DebitDelta(req.TotalDays, lt.Exempt))
}

// Reject moves any non-terminal request to REJECTED. Nothing was debited
// before final approval, so there is no ledger effect.
func (s *Service) Reject(ctx context.Context, requestID string) (Outcome, error) {
	var out Outcome
	err := s.Store.InTx(ctx, func(tx TxAPI) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		next, err := Next(req.Status, ActionReject, req.FinalApprovalLevel)
		if err == ErrAlreadyProcessed {
			out = Outcome{Status: req.Status, AlreadyProcessed: true}
			return nil
		}
		if err != nil {
			return err
		}
		out = Outcome{Status: next}
		return tx.UpdateRequestStatus(ctx, req.ID, next, s.now())
	})
	return out, err
}

// Cancel moves a request to CANCELLED from any state. Cancelling a
// previously approved request credits back the exact negation of its
// debit, restoring balance and used to their pre-approval values.
func (s *Service) Cancel(ctx context.Context, requestID string) (Outcome, error) {
	var out Outcome
	err := s.Store.InTx(ctx, func(tx TxAPI) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		next, err := Next(req.Status, ActionCancel, req.FinalApprovalLevel)
		if err == ErrAlreadyProcessed {
			out = Outcome{Status: req.Status, AlreadyProcessed: true}
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.UpdateRequestStatus(ctx, req.ID, next, s.now()); err != nil {
			return err
		}
		out = Outcome{Status: next}

		if req.Status == StatusApproved {
			lt, err := s.Store.TypeByID(ctx, req.LeaveTypeID)
			if err != nil {
				return err
			}
			year := req.StartDate.Year()
			return tx.ApplyDelta(ctx, req.UserID, req.LeaveTypeID, year, DebitDelta(req.TotalDays, lt.Exempt).Negate())
		}
		return nil
	})
	return out, err
}

func (s *Service) Balances(ctx context.Context, userID string, year int) ([]BalanceView, error) {
	return s.Store.BalancesByUserYear(ctx, userID, year)
}

func (s *Service) History(ctx context.Context, userID string) ([]RequestView, error) {
	return s.Store.HistoryByUser(ctx, userID)
}

// Incoming lists the pending requests awaiting the approver, filtered by
// role against each requester's live manager chain.
func (s *Service) Incoming(ctx context.Context, approverID string) ([]PendingRequest, error) {
	approver, err := s.Directory.UserByID(ctx, approverID)
	if err != nil {
		return nil, err
	}
	if approver.Role == auth.RoleEmployee {
		return nil, nil
	}
	pendings, err := s.Store.PendingWithChain(ctx)
	if err != nil {
		return nil, err
	}
	var visible []PendingRequest
	for _, p := range pendings {
		if VisibleToApprover(approver.Role, approverID, p) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]LeaveType, error) {
	return s.Store.ListTypes(ctx)
}

// CreateType adds a leave type and provisions a current-year balance row
// for every active user.
func (s *Service) CreateType(ctx context.Context, lt LeaveType) (string, error) {
	id, err := s.Store.CreateType(ctx, lt)
	if err != nil {
		return "", err
	}
	userIDs, err := s.Directory.ListActiveUserIDs(ctx)
	if err != nil {
		return id, err
	}
	year := s.now().Year()
	for _, userID := range userIDs {
		if _, err := s.Store.CreateBalanceIfMissing(ctx, userID, id, year, lt.MaxPerYear); err != nil {
			slog.Warn("balance provisioning for new leave type failed", "userId", userID, "leaveTypeId", id, "err", err)
		}
	}
	return id, nil
}

func (s *Service) UpdateType(ctx context.Context, lt LeaveType) error {
	if _, err := s.Store.TypeByID(ctx, lt.ID); err != nil {
		return err
	}
	return s.Store.UpdateType(ctx, lt)
}

// DeleteType soft-deletes the type; the store cascades the flag to the
// type's leave requests.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	if _, err := s.Store.TypeByID(ctx, id); err != nil {
		return err
	}
	return s.Store.SoftDeleteType(ctx, id)
}

// ProvisionUser seeds current-year balance rows for a new user, one per
// active leave type. Implements directory.Provisioner.
func (s *Service) ProvisionUser(ctx context.Context, userID string) error {
	types, err := s.Store.ListTypes(ctx)
	if err != nil {
		return err
	}
	year := s.now().Year()
	for _, lt := range types {
		if _, err := s.Store.CreateBalanceIfMissing(ctx, userID, lt.ID, year, lt.MaxPerYear); err != nil {
			return err
		}
	}
	return nil
}
