package orders

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusCancelled, false},
		{StatusCancelled, StatusPaid, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusPending, false},
		{Status("bogus"), StatusPaid, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusCancelled} {
		if !Valid(s) {
			t.Errorf("Valid(%s) = false", s)
		}
	}
	if Valid(Status("shipped")) {
		t.Error("Valid(shipped) = true")
	}
}

func TestTotal(t *testing.T) {
	items := []Item{
		{Qty: 2, PriceCents: 2500},
		{Qty: 1, PriceCents: 1200},
	}
	if got := Total(items); got != 6200 {
		t.Errorf("Total = %d, want 6200", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil) = %d, want 0", got)
	}
}
