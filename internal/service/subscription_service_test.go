package service

import (
	"errors"
	"testing"
)

func TestSubscribeOutcomes(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSubscriptionService(gdb)

	outcome, subscriber, err := svc.Subscribe("  Reader@Example.COM ")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if outcome != SubscribeCreated || subscriber.Email != "reader@example.com" {
		t.Fatalf("unexpected result: %s %+v", outcome, subscriber)
	}

	outcome, _, err = svc.Subscribe("reader@example.com")
	if err != nil || outcome != SubscribeAlreadyActive {
		t.Fatalf("expected already active, got %s (%v)", outcome, err)
	}

	if err := svc.Unsubscribe("READER@example.com"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	active, _ := svc.List(true)
	if len(active) != 0 {
		t.Fatalf("expected no active subscribers, got %d", len(active))
	}

	outcome, subscriber, err = svc.Subscribe("reader@example.com")
	if err != nil || outcome != SubscribeReactivated || !subscriber.IsActive {
		t.Fatalf("expected reactivation, got %s (%v)", outcome, err)
	}

	all, _ := svc.List(false)
	if len(all) != 1 {
		t.Fatalf("expected a single subscriber row, got %d", len(all))
	}
}

func TestSubscribeValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSubscriptionService(gdb)

	for _, email := range []string{"", "   ", "not-an-email", "a@"} {
		if _, _, err := svc.Subscribe(email); !errors.Is(err, ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", email, err)
		}
	}
	if err := svc.Unsubscribe("ghost@example.com"); !errors.Is(err, ErrSubscriberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubscribeOutcomeMessage(t *testing.T) {
	for _, outcome := range []SubscribeOutcome{SubscribeCreated, SubscribeAlreadyActive, SubscribeReactivated} {
		if outcome.Message() == "" {
			t.Fatalf("missing message for %s", outcome)
		}
	}
}
