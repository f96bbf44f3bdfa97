// Package flywheel defines velocity-mode drives for motor controllers that
// spin a launching flywheel.
//
// A Drive runs its own closed velocity loop; callers hand it a setpoint in
// revolutions per second plus an open-loop feedforward bias and read back the
// measured velocity. Unit conversion to the controller's native encoder
// convention is the drive's concern, never the caller's.
package flywheel

import (
	"context"
	"math"
)

// Gains are closed-loop velocity gains in the RPS domain. Drives convert to
// their native sensor units internally.
type Gains struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}

// A Drive represents one independently driven flywheel motor controller
// running in velocity mode with an arbitrary-feedforward input.
type Drive interface {
	// SetVelocity commands the closed loop to the given setpoint in
	// revolutions per second, with feedforwardPct added as a fractional
	// duty-cycle bias in [-1, 1].
	SetVelocity(ctx context.Context, setpointRPS, feedforwardPct float64) error

	// Velocity returns the measured flywheel velocity in revolutions per
	// second.
	Velocity(ctx context.Context) (float64, error)

	// SetVelocityGains configures the drive's internal velocity loop.
	SetVelocityGains(ctx context.Context, gains Gains) error

	// Stop puts the drive into neutral output.
	Stop(ctx context.Context) error
}

// Sign returns -1, 0, or 1 matching the sign of x. Zero maps to zero so a
// static-friction feedforward term vanishes at rest instead of picking a
// direction.
func Sign(x float64) float64 {
	if x == 0 {
		return 0
	}
	if math.Signbit(x) {
		return -1.0
	}
	return 1.0
}

// ClampDuty clamps a fractional duty cycle to [-1, 1].
func ClampDuty(duty float64) float64 {
	duty = math.Min(duty, 1.0)
	duty = math.Max(duty, -1.0)
	return duty
}
