package leave

import (
	"context"
	"log/slog"
	"time"
)

type CarryForwardSummary struct {
	TypesProcessed int `json:"typesProcessed"`
	RowsCreated    int `json:"rowsCreated"`
	RowsSkipped    int `json:"rowsSkipped"`
}

// RunCarryForward rolls unused prior-year balance into the current year
// for every carry-forward-eligible leave type: a new row with
// balance = min(prior.balance, maxPerYear) and used = 0, created only if
// no current-year row exists yet. Skip-on-exists makes the job idempotent
// and safely re-runnable.
func (s *Service) RunCarryForward(ctx context.Context, now time.Time) (CarryForwardSummary, error) {
	var summary CarryForwardSummary
	currentYear := now.Year()
	previousYear := currentYear - 1

	types, err := s.Store.ListTypes(ctx)
	if err != nil {
		return summary, err
	}

	for _, lt := range types {
		if !lt.CarryForward {
			continue
		}

		balances, err := s.Store.BalancesForTypeYear(ctx, lt.ID, previousYear)
		if err != nil {
			return summary, err
		}

		for _, bal := range balances {
			if bal.Balance <= 0 {
				continue
			}
			carry := CarryAmount(bal.Balance, lt.MaxPerYear)
			created, err := s.Store.CreateBalanceIfMissing(ctx, bal.UserID, lt.ID, currentYear, carry)
			if err != nil {
				return summary, err
			}
			if created {
				summary.RowsCreated++
			} else {
				summary.RowsSkipped++
				slog.Debug("carry-forward row exists, skipping", "userId", bal.UserID, "leaveTypeId", lt.ID, "year", currentYear)
			}
		}
		summary.TypesProcessed++
	}

	return summary, nil
}
