// Package piston defines one-shot pneumatic pulse actuators.
package piston

import (
	"context"
	"time"
)

// A Piston is a pneumatic actuator that extends for a fixed duration when
// pulsed. The pulse duration is configured once at setup; each StartPulse
// then produces a single timed actuation.
type Piston interface {
	// SetPulseDuration configures how long each pulse extends the piston.
	SetPulseDuration(ctx context.Context, d time.Duration) error

	// StartPulse begins a single timed actuation.
	StartPulse(ctx context.Context) error

	// IsPulsing reports whether a pulse is currently in progress.
	IsPulsing(ctx context.Context) (bool, error)
}
