package cleansing

import (
	"testing"
	"time"
)

func TestCircuitBreaker_Transitions(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreakerWithThresholds(3, 2, 30*time.Second)
	cb.now = func() time.Time { return now }

	if cb.State() != BreakerClosed {
		t.Fatalf("initial state = %v, want closed", cb.State())
	}

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("Allow() = false before threshold, attempt %d", i)
		}
		cb.RecordFailure()
	}
	if cb.State() != BreakerOpen {
		t.Fatalf("state after failures = %v, want open", cb.State())
	}
	if cb.Allow() {
		t.Error("Allow() = true while open")
	}

	now = now.Add(31 * time.Second)
	if !cb.Allow() {
		t.Fatal("Allow() = false after timeout")
	}
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state after timeout = %v, want half-open", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != BreakerHalfOpen {
		t.Errorf("state after one success = %v, want half-open", cb.State())
	}
	cb.RecordSuccess()
	if cb.State() != BreakerClosed {
		t.Errorf("state after two successes = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreakerWithThresholds(1, 1, time.Second)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(2 * time.Second)
	if !cb.Allow() {
		t.Fatal("Allow() = false after timeout")
	}

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
	if cb.Allow() {
		t.Error("Allow() = true right after reopening")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreakerWithThresholds(2, 1, time.Minute)

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	if cb.State() != BreakerClosed {
		t.Errorf("state = %v, want closed", cb.State())
	}
}

func TestBreakerState_String(t *testing.T) {
	tests := map[BreakerState]string{
		BreakerClosed:    "closed",
		BreakerOpen:      "open",
		BreakerHalfOpen:  "half-open",
		BreakerState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(state), got, want)
		}
	}
}
