package core

import (
	"fmt"
	"time"
)

// EvaluateListing runs the auto-pause rule against a listing and reports
// whether the status changed. It is the single evaluation function for both
// the single-product edit path and the bulk path.
//
// Only listings the automation itself paused are eligible for its un-pause:
// manual pauses and the closed/error states carry operator or platform intent
// and are never silently reversed. The same threshold drives both directions;
// there is no reactivation margin, so a product hovering exactly at the
// threshold can oscillate under frequent small updates.
func EvaluateListing(l *ChannelListing, available int) bool {
	if !l.AutoPauseEnabled {
		return false
	}
	if available < l.BufferStock {
		if l.Status == StatusActive || l.Status == StatusAutoPaused {
			changed := l.Status != StatusAutoPaused
			l.Status = StatusAutoPaused
			if changed {
				l.LastSyncAt = time.Now().UTC()
			}
			return changed
		}
		return false
	}
	if l.Status == StatusAutoPaused {
		l.Status = StatusActive
		l.LastSyncAt = time.Now().UTC()
		return true
	}
	return false
}

// PauseTransition applies a manual pause. Allowed from any state except closed,
// independently of AutoPauseEnabled.
func PauseTransition(l *ChannelListing) error {
	if l.Status == StatusClosed {
		return fmt.Errorf("cannot pause listing %s: %w", l.ID, ErrListingClosed)
	}
	l.Status = StatusPaused
	l.LastSyncAt = time.Now().UTC()
	return nil
}

// ActivateTransition applies a manual activation. Allowed from any state
// except closed.
func ActivateTransition(l *ChannelListing) error {
	if l.Status == StatusClosed {
		return fmt.Errorf("cannot activate listing %s: %w", l.ID, ErrListingClosed)
	}
	l.Status = StatusActive
	l.LastSyncAt = time.Now().UTC()
	return nil
}

// VisibleStock is the quantity advertised externally: available capped at
// MaxVisibleStock when the cap is enabled. Pure projection — no state change.
func VisibleStock(l *ChannelListing, available int) int {
	if l.MaxVisibleEnabled && available > l.MaxVisibleStock {
		return l.MaxVisibleStock
	}
	return available
}
