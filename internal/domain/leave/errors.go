package leave

import "errors"

var (
	ErrNotFound         = errors.New("leave request not found")
	ErrTypeNotFound     = errors.New("leave type not found")
	ErrBalanceNotFound  = errors.New("leave balance not found")
	ErrLimitExceeded    = errors.New("leave limit exceeded")
	ErrOverlapConflict  = errors.New("leave dates overlap with existing requests")
	ErrAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidRange     = errors.New("invalid date range")
)
