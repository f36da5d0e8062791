package leave

// Status values keep the wire strings of the legacy schema so existing
// rows stay readable.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPendingL1 Status = "Pending (L1)"
	StatusPendingL2 Status = "Pending (L2)"
	StatusPendingL3 Status = "Pending (L3)"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

type Action int

const (
	ActionApprove Action = iota
	ActionReject
	ActionCancel
)

// Terminal reports whether approve and reject are closed out of s.
// Cancellation is the exception: it is valid from every status except
// CANCELLED itself, reversing the ledger debit when the request was
// approved.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Pending reports whether s is any of the awaiting-approval states.
func (s Status) Pending() bool {
	switch s {
	case StatusPending, StatusPendingL1, StatusPendingL2, StatusPendingL3:
		return true
	}
	return false
}

// approveTransitions is the (state, finalLevel) → next state table for the
// approve action. PENDING_L2 branches on the computed final approval level:
// a three-level request escalates to L3, a two-level request finalizes.
var approveTransitions = map[Status]Status{
	StatusPending:   StatusApproved,
	StatusPendingL1: StatusPendingL2,
	StatusPendingL3: StatusApproved,
}

// Next computes the state reached by applying action to current. It
// returns ErrAlreadyProcessed when current is terminal for that action,
// making illegal transitions a closed, testable set rather than scattered
// status-string comparisons.
func Next(current Status, action Action, finalLevel int) (Status, error) {
	switch action {
	case ActionApprove:
		if current == StatusPendingL2 {
			if finalLevel == 3 {
				return StatusPendingL3, nil
			}
			return StatusApproved, nil
		}
		next, ok := approveTransitions[current]
		if !ok {
			return current, ErrAlreadyProcessed
		}
		return next, nil
	case ActionReject:
		if current.Terminal() {
			return current, ErrAlreadyProcessed
		}
		return StatusRejected, nil
	case ActionCancel:
		if current == StatusCancelled {
			return current, ErrAlreadyProcessed
		}
		return StatusCancelled, nil
	}
	return current, ErrAlreadyProcessed
}

// Finalizes reports whether the approve transition from current is the one
// that debits the ledger.
func Finalizes(current Status, finalLevel int) bool {
	switch current {
	case StatusPending, StatusPendingL3:
		return true
	case StatusPendingL2:
		return finalLevel != 3
	}
	return false
}
