package leave

import "github.com/shopspring/decimal"

// Delta is a signed (balance, used) adjustment to one balance row. The
// approve/cancel pair must be exact negations of each other so that
// balance + used is conserved across any round trip; all arithmetic runs
// through decimal to keep fractional half-days drift-free.
type Delta struct {
	Balance float64
	Used    float64
}

// DebitDelta is the adjustment applied when a request for totalDays is
// finally approved. Exempt types track usage for reporting but never
// deplete the nominal balance.
func DebitDelta(totalDays float64, exempt bool) Delta {
	d := Delta{Used: totalDays}
	if !exempt {
		d.Balance = -totalDays
	}
	return d
}

// Negate returns the exact reversal of d, used when cancelling a
// previously approved request.
func (d Delta) Negate() Delta {
	return Delta{
		Balance: decimal.NewFromFloat(d.Balance).Neg().InexactFloat64(),
		Used:    decimal.NewFromFloat(d.Used).Neg().InexactFloat64(),
	}
}

// Apply returns the balance row after adding d to it.
func (d Delta) Apply(b LeaveBalance) LeaveBalance {
	b.Balance = decimal.NewFromFloat(b.Balance).Add(decimal.NewFromFloat(d.Balance)).InexactFloat64()
	b.Used = decimal.NewFromFloat(b.Used).Add(decimal.NewFromFloat(d.Used)).InexactFloat64()
	return b
}

// ExceedsBalance reports whether charging totalDays against the row would
// overdraw it.
func ExceedsBalance(totalDays float64, b LeaveBalance) bool {
	return decimal.NewFromFloat(totalDays).GreaterThan(decimal.NewFromFloat(b.Balance))
}

// CarryAmount is the balance rolled into the new year: unused prior-year
// balance capped at the type's annual allowance.
func CarryAmount(priorBalance, maxPerYear float64) float64 {
	prior := decimal.NewFromFloat(priorBalance)
	cap := decimal.NewFromFloat(maxPerYear)
	if prior.GreaterThan(cap) {
		return maxPerYear
	}
	return priorBalance
}
