package sigterm

import (
	"context"
	"testing"
)

func TestInterruptCancelsTrialFirst(t *testing.T) {
	s := newSession(context.Background())
	defer s.Stop()

	trial, done := s.Trial()

	if s.Interrupt() {
		t.Log("first interrupt should not cancel the session")
		t.FailNow()
	}

	if trial.Err() == nil {
		t.Log("expected trial context to be canceled")
		t.FailNow()
	}

	if s.Context().Err() != nil {
		t.Log("session should still be running")
		t.FailNow()
	}

	done()

	// A new trial starts fresh.
	next, done := s.Trial()
	defer done()

	if next.Err() != nil {
		t.Log("expected fresh trial context")
		t.FailNow()
	}

	s.Interrupt()

	if !s.Interrupt() {
		t.Log("second interrupt should cancel the session")
		t.FailNow()
	}

	if s.Context().Err() == nil {
		t.Log("expected session context to be canceled")
		t.FailNow()
	}
}

func TestInterruptWithoutTrial(t *testing.T) {
	s := newSession(context.Background())

	if !s.Interrupt() {
		t.Log("interrupt outside a trial should cancel the session")
		t.FailNow()
	}
}
