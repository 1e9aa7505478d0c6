package domain

import "testing"

func TestCanTransitionForwardSteps(t *testing.T) {
	steps := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusConfirmed, OrderStatusPacked},
		{OrderStatusPacked, OrderStatusInTransit},
		{OrderStatusInTransit, OrderStatusDelivered},
	}
	for _, s := range steps {
		if !s.from.CanTransition(s.to) {
			t.Fatalf("expected %s -> %s to be legal", s.from, s.to)
		}
	}
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	if OrderStatusPending.CanTransition(OrderStatusPacked) {
		t.Fatalf("pending -> packed must be illegal")
	}
	if OrderStatusConfirmed.CanTransition(OrderStatusDelivered) {
		t.Fatalf("confirmed -> delivered must be illegal")
	}
	if OrderStatusPacked.CanTransition(OrderStatusConfirmed) {
		t.Fatalf("backwards transition must be illegal")
	}
}

func TestCancelledReachableFromNonTerminal(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked, OrderStatusInTransit} {
		if !from.CanTransition(OrderStatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be legal", from)
		}
	}
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled} {
			if from.CanTransition(to) {
				t.Fatalf("expected %s -> %s to be illegal", from, to)
			}
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	if !ValidOrderStatus(OrderStatusInTransit) {
		t.Fatalf("in_transit should be valid")
	}
	if ValidOrderStatus("shipped") {
		t.Fatalf("unknown status should be invalid")
	}
}

func TestCartTotalCents(t *testing.T) {
	c := Cart{Lines: []CartLine{
		{Quantity: 2, PriceCents: 10000},
		{Quantity: 1, PriceCents: 2550},
	}}
	if got := c.TotalCents(); got != 22550 {
		t.Fatalf("expected total 22550, got %d", got)
	}
}
