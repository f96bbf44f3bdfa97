// Package fake implements a simulated flywheel drive.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

const (
	defaultTicksPerRevolution = 2048
	defaultMeasurementWindow  = 100 * time.Millisecond
	defaultSpinUpTau          = 250 * time.Millisecond
)

var _ flywheel.Drive = &Flywheel{}

// Config describes a simulated flywheel drive.
type Config struct {
	Name string `json:"name"`
	// TicksPerRevolution is the encoder resolution. Native velocity is kept
	// in ticks per measurement window, the common integrated-controller
	// convention.
	TicksPerRevolution int           `json:"ticks_per_revolution,omitempty"`
	MeasurementWindow  time.Duration `json:"-"`
	// SpinUpTau is the time constant of the first-order velocity response.
	SpinUpTau time.Duration `json:"-"`
	// Inverted flips the direction of the physical output. Commanded and
	// reported velocities stay in the caller's orientation, matching how
	// integrated controllers apply inversion.
	Inverted bool `json:"inverted"`
}

// Flywheel simulates a velocity-mode motor controller. The velocity follows
// commanded setpoints with a first-order lag, integrated lazily against the
// injected clock so tests using a mock clock are deterministic.
type Flywheel struct {
	name   string
	logger golog.Logger
	clk    clock.Clock

	ticksPerRev float64
	window      time.Duration
	tau         time.Duration
	inverted    bool

	mu sync.Mutex
	// nativeVelocity and nativeSetpoint are in ticks per window, signed in
	// the physical direction (inversion applied).
	nativeVelocity float64
	nativeSetpoint float64
	feedforward    float64
	gains          flywheel.Gains
	lastAdvance    time.Time
}

// New returns a simulated flywheel drive at rest.
func New(cfg Config, clk clock.Clock, logger golog.Logger) *Flywheel {
	if cfg.TicksPerRevolution <= 0 {
		cfg.TicksPerRevolution = defaultTicksPerRevolution
	}
	if cfg.MeasurementWindow <= 0 {
		cfg.MeasurementWindow = defaultMeasurementWindow
	}
	if cfg.SpinUpTau <= 0 {
		cfg.SpinUpTau = defaultSpinUpTau
	}
	return &Flywheel{
		name:        cfg.Name,
		logger:      logger,
		clk:         clk,
		ticksPerRev: float64(cfg.TicksPerRevolution),
		window:      cfg.MeasurementWindow,
		tau:         cfg.SpinUpTau,
		inverted:    cfg.Inverted,
		lastAdvance: clk.Now(),
	}
}

// rpsToNative converts revolutions per second to ticks per measurement
// window.
func (f *Flywheel) rpsToNative(rps float64) float64 {
	return rps * f.ticksPerRev * f.window.Seconds()
}

func (f *Flywheel) nativeToRPS(native float64) float64 {
	return native / (f.ticksPerRev * f.window.Seconds())
}

func (f *Flywheel) physical(rps float64) float64 {
	if f.inverted {
		return -rps
	}
	return rps
}

// advance integrates the first-order response up to the clock's current
// time. Callers must hold f.mu.
func (f *Flywheel) advance() {
	now := f.clk.Now()
	dt := now.Sub(f.lastAdvance)
	f.lastAdvance = now
	if dt <= 0 {
		return
	}
	decay := math.Exp(-dt.Seconds() / f.tau.Seconds())
	f.nativeVelocity = f.nativeSetpoint + (f.nativeVelocity-f.nativeSetpoint)*decay
}

// SetVelocity commands the simulated closed loop to the given setpoint.
func (f *Flywheel) SetVelocity(ctx context.Context, setpointRPS, feedforwardPct float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advance()
	f.nativeSetpoint = f.rpsToNative(f.physical(setpointRPS))
	f.feedforward = flywheel.ClampDuty(feedforwardPct)
	f.logger.Debugw("flywheel velocity command",
		"name", f.name, "setpoint_rps", setpointRPS, "feedforward_pct", f.feedforward)
	return nil
}

// Velocity returns the simulated measured velocity in revolutions per
// second, in the caller's orientation.
func (f *Flywheel) Velocity(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advance()
	return f.physical(f.nativeToRPS(f.nativeVelocity)), nil
}

// SetVelocityGains records the RPS-domain loop gains. The simulation's
// response is gain-independent; the values are kept so callers can read back
// what they configured.
func (f *Flywheel) SetVelocityGains(ctx context.Context, gains flywheel.Gains) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gains = gains
	f.logger.Debugw("flywheel gains configured", "name", f.name, "p", gains.P, "i", gains.I, "d", gains.D)
	return nil
}

// VelocityGains returns the configured loop gains.
func (f *Flywheel) VelocityGains() flywheel.Gains {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gains
}

// Stop commands neutral output; the simulated wheel coasts down to rest.
func (f *Flywheel) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advance()
	f.nativeSetpoint = 0
	f.feedforward = 0
	f.logger.Debugw("flywheel stopped", "name", f.name)
	return nil
}

// Setpoint returns the last commanded setpoint in revolutions per second.
func (f *Flywheel) Setpoint() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.physical(f.nativeToRPS(f.nativeSetpoint))
}

// Feedforward returns the last commanded feedforward duty fraction.
func (f *Flywheel) Feedforward() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedforward
}

// NativeVelocity returns the simulated sensor velocity in ticks per
// measurement window, signed in the physical direction.
func (f *Flywheel) NativeVelocity() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advance()
	return f.nativeVelocity
}
