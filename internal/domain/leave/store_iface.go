package leave

import (
	"context"
	"time"

	"leavetrack/internal/domain/directory"
)

// StoreAPI is the persistence surface the leave service needs. Reads run
// against the pool; every read-modify-write sequence goes through InTx so
// concurrent transitions on the same request or balance row serialize.
type StoreAPI interface {
	TypeByID(ctx context.Context, id string) (LeaveType, error)
	ListTypes(ctx context.Context) ([]LeaveType, error)
	CreateType(ctx context.Context, lt LeaveType) (string, error)
	UpdateType(ctx context.Context, lt LeaveType) error
	SoftDeleteType(ctx context.Context, id string) error

	BalancesByUserYear(ctx context.Context, userID string, year int) ([]BalanceView, error)
	BalancesForTypeYear(ctx context.Context, leaveTypeID string, year int) ([]LeaveBalance, error)
	CreateBalanceIfMissing(ctx context.Context, userID, leaveTypeID string, year int, balance float64) (bool, error)

	RequestByID(ctx context.Context, id string) (LeaveRequest, error)
	HistoryByUser(ctx context.Context, userID string) ([]RequestView, error)
	PendingWithChain(ctx context.Context) ([]PendingRequest, error)

	InTx(ctx context.Context, fn func(tx TxAPI) error) error
}

// TxAPI is the transactional slice of the store. LockUser takes a
// per-user advisory lock so two racing submissions for the same user
// cannot both pass the overlap check.
type TxAPI interface {
	LockUser(ctx context.Context, userID string) error
	BalanceRow(ctx context.Context, userID, leaveTypeID string, year int) (LeaveBalance, error)
	HasOverlap(ctx context.Context, userID string, start, end time.Time) (bool, error)
	CreateRequest(ctx context.Context, req LeaveRequest) (string, error)
	RequestForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status Status, at time.Time) error
	ApplyDelta(ctx context.Context, userID, leaveTypeID string, year int, d Delta) error
}

// Directory is the slice of the user directory the leave engine consumes.
type Directory interface {
	UserByID(ctx context.Context, id string) (directory.User, error)
	ResolveChain(ctx context.Context, userID string) (directory.Chain, error)
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}
