package leave

import "testing"

func TestDebitDelta(t *testing.T) {
	d := DebitDelta(3, false)
	if d.Balance != -3 || d.Used != 3 {
		t.Fatalf("standard debit: got %+v", d)
	}

	d = DebitDelta(3, true)
	if d.Balance != 0 || d.Used != 3 {
		t.Fatalf("exempt debit: got %+v", d)
	}
}

func TestDeltaNegateRoundTrip(t *testing.T) {
	start := LeaveBalance{Balance: 10, Used: 0}

	debit := DebitDelta(2.5, false)
	after := debit.Apply(start)
	if after.Balance != 7.5 || after.Used != 2.5 {
		t.Fatalf("after debit: %+v", after)
	}

	restored := debit.Negate().Apply(after)
	if restored.Balance != start.Balance || restored.Used != start.Used {
		t.Fatalf("round trip drifted: %+v", restored)
	}
}

func TestDeltaConservesEntitlement(t *testing.T) {
	b := LeaveBalance{Balance: 16, Used: 0}
	for _, days := range []float64{0.5, 1, 2.5, 4} {
		b = DebitDelta(days, false).Apply(b)
		if total := b.Balance + b.Used; total != 16 {
			t.Fatalf("entitlement drifted to %v after debiting %v", total, days)
		}
	}
}

func TestExceedsBalance(t *testing.T) {
	b := LeaveBalance{Balance: 3}
	if ExceedsBalance(3, b) {
		t.Fatal("exact balance should be allowed")
	}
	if !ExceedsBalance(3.5, b) {
		t.Fatal("over balance should be blocked")
	}
}

func TestCarryAmount(t *testing.T) {
	if got := CarryAmount(4, 10); got != 4 {
		t.Fatalf("under cap: got %v", got)
	}
	if got := CarryAmount(14, 10); got != 10 {
		t.Fatalf("over cap: got %v", got)
	}
	if got := CarryAmount(10, 10); got != 10 {
		t.Fatalf("at cap: got %v", got)
	}
}
