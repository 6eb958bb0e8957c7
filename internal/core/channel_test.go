package core_test

import (
	"errors"
	"testing"

	"inventory-ops/internal/core"
)

func autoListing(buffer int) core.ChannelListing {
	return core.ChannelListing{
		ID:               "l1",
		Platform:         "ebay",
		Status:           core.StatusActive,
		BufferStock:      buffer,
		AutoPauseEnabled: true,
	}
}

func TestEvaluateListing_PausesBelowBuffer(t *testing.T) {
	l := autoListing(10)

	if changed := core.EvaluateListing(&l, 8); !changed {
		t.Error("Expected a status change at available=8, buffer=10")
	}
	if l.Status != core.StatusAutoPaused {
		t.Errorf("Expected auto_paused, got %s", l.Status)
	}
	if l.LastSyncAt.IsZero() {
		t.Error("Expected LastSyncAt stamped on transition")
	}
}

func TestEvaluateListing_ReactivatesAtBuffer(t *testing.T) {
	l := autoListing(10)
	l.Status = core.StatusAutoPaused

	// available == buffer satisfies the rule; the same threshold drives both
	// directions.
	if changed := core.EvaluateListing(&l, 10); !changed {
		t.Error("Expected reactivation at available=10, buffer=10")
	}
	if l.Status != core.StatusActive {
		t.Errorf("Expected active, got %s", l.Status)
	}
}

func TestEvaluateListing_Idempotent(t *testing.T) {
	l := autoListing(10)

	if changed := core.EvaluateListing(&l, 8); !changed {
		t.Fatal("Expected first evaluation to pause")
	}
	if changed := core.EvaluateListing(&l, 8); changed {
		t.Error("Second evaluation with the same inputs reported a change")
	}
	if changed := core.EvaluateListing(&l, 10); !changed {
		t.Fatal("Expected reactivation")
	}
	if changed := core.EvaluateListing(&l, 10); changed {
		t.Error("Repeated evaluation after reactivation reported a change")
	}
}

func TestEvaluateListing_DisabledDoesNothing(t *testing.T) {
	l := autoListing(10)
	l.AutoPauseEnabled = false

	if changed := core.EvaluateListing(&l, 0); changed {
		t.Error("Evaluation changed a listing with automation disabled")
	}
	if l.Status != core.StatusActive {
		t.Errorf("Expected active, got %s", l.Status)
	}
}

func TestEvaluateListing_NeverTouchesManualPause(t *testing.T) {
	l := autoListing(10)
	l.Status = core.StatusPaused

	if changed := core.EvaluateListing(&l, 0); changed {
		t.Error("Automation paused an already manually paused listing")
	}
	if changed := core.EvaluateListing(&l, 100); changed {
		t.Error("Automation reactivated a manually paused listing")
	}
	if l.Status != core.StatusPaused {
		t.Errorf("Expected paused, got %s", l.Status)
	}
}

func TestEvaluateListing_NeverTouchesClosedOrError(t *testing.T) {
	for _, status := range []core.ChannelStatus{core.StatusClosed, core.StatusError} {
		l := autoListing(10)
		l.Status = status
		if changed := core.EvaluateListing(&l, 0); changed {
			t.Errorf("Automation changed a %s listing on low stock", status)
		}
		if changed := core.EvaluateListing(&l, 100); changed {
			t.Errorf("Automation changed a %s listing on high stock", status)
		}
		if l.Status != status {
			t.Errorf("Expected %s, got %s", status, l.Status)
		}
	}
}

func TestManualTransitions(t *testing.T) {
	l := autoListing(10)
	l.Status = core.StatusAutoPaused

	// Manual activation overrides an automation pause.
	if err := core.ActivateTransition(&l); err != nil {
		t.Fatalf("ActivateTransition failed: %v", err)
	}
	if l.Status != core.StatusActive {
		t.Errorf("Expected active, got %s", l.Status)
	}

	if err := core.PauseTransition(&l); err != nil {
		t.Fatalf("PauseTransition failed: %v", err)
	}
	if l.Status != core.StatusPaused {
		t.Errorf("Expected paused, got %s", l.Status)
	}

	// Error state is recoverable by hand.
	l.Status = core.StatusError
	if err := core.ActivateTransition(&l); err != nil {
		t.Fatalf("ActivateTransition from error failed: %v", err)
	}
	if l.Status != core.StatusActive {
		t.Errorf("Expected active, got %s", l.Status)
	}

	// Closed is terminal for both transitions.
	l.Status = core.StatusClosed
	if err := core.PauseTransition(&l); !errors.Is(err, core.ErrListingClosed) {
		t.Errorf("Expected ErrListingClosed on pause, got %v", err)
	}
	if err := core.ActivateTransition(&l); !errors.Is(err, core.ErrListingClosed) {
		t.Errorf("Expected ErrListingClosed on activate, got %v", err)
	}
}

func TestVisibleStock(t *testing.T) {
	l := core.ChannelListing{MaxVisibleEnabled: true, MaxVisibleStock: 5}

	if got := core.VisibleStock(&l, 20); got != 5 {
		t.Errorf("Expected capped visible stock 5, got %d", got)
	}
	if got := core.VisibleStock(&l, 3); got != 3 {
		t.Errorf("Expected uncapped visible stock 3, got %d", got)
	}

	l.MaxVisibleEnabled = false
	if got := core.VisibleStock(&l, 20); got != 20 {
		t.Errorf("Expected full visible stock 20 with cap disabled, got %d", got)
	}
}
