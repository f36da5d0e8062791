package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarryForwardRollsUnusedBalance(t *testing.T) {
	svc, store, _ := newFixture(t)
	casual := seedType(store, LeaveType{Name: "Casual", MaxPerYear: 10, MultiApprover: 1, CarryForward: true})
	seedBalance(store, "employee", casual, 2024, 4)

	summary, err := svc.RunCarryForward(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TypesProcessed)
	assert.Equal(t, 1, summary.RowsCreated)
	assert.Equal(t, 0, summary.RowsSkipped)

	b, ok := store.balances[balKey("employee", casual, 2025)]
	require.True(t, ok)
	assert.Equal(t, 4.0, b.Balance)
	assert.Equal(t, 0.0, b.Used)
}

func TestCarryForwardCapsAtAnnualAllowance(t *testing.T) {
	svc, store, _ := newFixture(t)
	casual := seedType(store, LeaveType{Name: "Casual", MaxPerYear: 10, MultiApprover: 1, CarryForward: true})
	seedBalance(store, "employee", casual, 2024, 14)

	_, err := svc.RunCarryForward(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	b := store.balances[balKey("employee", casual, 2025)]
	assert.Equal(t, 10.0, b.Balance)
}

func TestCarryForwardSkipsIneligibleAndEmpty(t *testing.T) {
	svc, store, _ := newFixture(t)
	maternity := seedType(store, LeaveType{Name: "Maternity", MaxPerYear: 20, MultiApprover: 3})
	casual := seedType(store, LeaveType{Name: "Casual", MaxPerYear: 10, MultiApprover: 1, CarryForward: true})
	seedBalance(store, "employee", maternity, 2024, 20)
	seedBalance(store, "employee", casual, 2024, 0)

	summary, err := svc.RunCarryForward(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TypesProcessed, "non-carry-forward types are not processed")
	assert.Equal(t, 0, summary.RowsCreated, "zero balance does not roll")

	assert.NotContains(t, store.balances, balKey("employee", maternity, 2025))
	assert.NotContains(t, store.balances, balKey("employee", casual, 2025))
}

func TestCarryForwardIsIdempotent(t *testing.T) {
	svc, store, _ := newFixture(t)
	casual := seedType(store, LeaveType{Name: "Casual", MaxPerYear: 10, MultiApprover: 1, CarryForward: true})
	seedBalance(store, "employee", casual, 2024, 4)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.RunCarryForward(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 1, first.RowsCreated)

	// Burn some of the new balance, then re-run: the existing row must
	// survive untouched.
	store.balances[balKey("employee", casual, 2025)].Balance = 2

	second, err := svc.RunCarryForward(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsCreated)
	assert.Equal(t, 1, second.RowsSkipped)
	assert.Equal(t, 2.0, store.balances[balKey("employee", casual, 2025)].Balance)
}
