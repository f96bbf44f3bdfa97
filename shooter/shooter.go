package shooter

import (
	"context"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
	"github.com/ArthurAllshire/pyinfiniterecharge/components/piston"
	"github.com/ArthurAllshire/pyinfiniterecharge/components/powersensor"
)

// TargetState is the live pair of velocity targets plus whether the last
// ranged distance fell inside the calibration table.
type TargetState struct {
	CentreRPS float64 `json:"centre_rps"`
	OuterRPS  float64 `json:"outer_rps"`
	InRange   bool    `json:"in_range"`
}

// Status is a one-cycle snapshot of the shooter for telemetry.
type Status struct {
	CentreTargetRPS   float64 `json:"centre_target_rps"`
	OuterTargetRPS    float64 `json:"outer_target_rps"`
	CentreVelocityRPS float64 `json:"centre_velocity_rps"`
	OuterVelocityRPS  float64 `json:"outer_velocity_rps"`
	InRange           bool    `json:"in_range"`
	AtSpeed           bool    `json:"at_speed"`
	Firing            bool    `json:"firing"`
	Ready             bool    `json:"ready"`
}

// Shooter coordinates the two flywheel drives, the loading piston, and the
// supply voltage sensor. All methods serialize through one mutex so every
// caller observes a consistent cycle snapshot; the host is expected to call
// Execute at a fixed period and may query or adjust targets from other
// goroutines.
type Shooter struct {
	mu     sync.Mutex
	logger golog.Logger

	cal       *Calibration
	tolerance float64
	pulse     time.Duration

	centre    *velocityController
	outer     *velocityController
	sequencer *fireSequencer
	loader    piston.Piston
	supply    powersensor.PowerSensor

	targets   TargetState
	voltageOK bool
}

// NewShooter validates the config and assembles a shooter around the given
// drives and sensors. Call Setup once before the first Execute to push the
// configured gains and pulse duration to the hardware.
func NewShooter(
	cfg *Config,
	centre, outer flywheel.Drive,
	loader piston.Piston,
	supply powersensor.PowerSensor,
	logger golog.Logger,
) (*Shooter, error) {
	if err := cfg.Validate("shooter"); err != nil {
		return nil, err
	}
	cal, err := NewCalibration(cfg.Calibration)
	if err != nil {
		return nil, err
	}
	return &Shooter{
		logger:    logger,
		cal:       cal,
		tolerance: cfg.Tolerance(),
		pulse:     cfg.PulseDuration(),
		centre:    &velocityController{name: "centre", drive: centre, ff: cfg.Centre.Feedforward, gains: cfg.Centre.Gains},
		outer:     &velocityController{name: "outer", drive: outer, ff: cfg.Outer.Feedforward, gains: cfg.Outer.Gains},
		sequencer: &fireSequencer{loader: loader},
		loader:    loader,
		supply:    supply,
		voltageOK: true,
	}, nil
}

// Setup applies the pulse duration and per-wheel feedback gains once.
func (s *Shooter) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return multierr.Combine(
		s.loader.SetPulseDuration(ctx, s.pulse),
		s.centre.applyGains(ctx),
		s.outer.applyGains(ctx),
	)
}

// SetRange updates both velocity targets for a planar distance to the
// target. Distances inside the calibration table set the in-range flag;
// outside it the flag clears and the distance clamps to the nearest bound,
// so targets never extrapolate beyond calibration.
func (s *Shooter) SetRange(distanceM float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets.InRange = s.cal.InRange(distanceM)
	s.targets.CentreRPS, s.targets.OuterRPS = s.cal.TargetsAt(s.cal.Clamp(distanceM))
}

// SetTargets overrides both velocity targets directly, bypassing the
// calibration table. The in-range flag is left as is.
func (s *Shooter) SetTargets(centreRPS, outerRPS float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets.CentreRPS = centreRPS
	s.targets.OuterRPS = outerRPS
}

// Targets returns the current target state.
func (s *Shooter) Targets() TargetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets
}

// Fire latches a shot to be taken on the next Execute. A latched request
// cannot be withdrawn; latching again before the pulse issues is a no-op.
func (s *Shooter) Fire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequencer.requestFire()
}

// Execute runs one control cycle: read the supply voltage, command both
// wheels with the latest targets and feedforward, then tick the fire
// sequencer. A failed voltage read disables feedforward for the cycle
// rather than skipping it; the wheels still receive their setpoints.
func (s *Shooter) Execute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	busVolts := s.readBusVoltage(ctx)
	err := multierr.Combine(
		s.centre.update(ctx, s.targets.CentreRPS, busVolts),
		s.outer.update(ctx, s.targets.OuterRPS, busVolts),
	)
	return multierr.Append(err, s.sequencer.tick(ctx))
}

// readBusVoltage returns the measured supply voltage, or 0 when the reading
// fails or is implausible so the feedforward term drops out for the cycle.
// Warnings are emitted once per failure streak, not per cycle.
func (s *Shooter) readBusVoltage(ctx context.Context) float64 {
	volts, err := s.supply.Voltage(ctx)
	if err != nil {
		if s.voltageOK {
			s.logger.Warnw("supply voltage read failed; feedforward disabled", "error", err)
		}
		s.voltageOK = false
		return 0
	}
	if volts <= 0 || !isFinite(volts) {
		if s.voltageOK {
			s.logger.Warnw("implausible supply voltage; feedforward disabled", "volts", volts)
		}
		s.voltageOK = false
		return 0
	}
	s.voltageOK = true
	return volts
}

// IsInRange reports whether the last ranged distance was within the
// calibration table, false if it had to be clamped.
func (s *Shooter) IsInRange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targets.InRange
}

// IsAtSpeed reports whether both wheels track their targets within the
// velocity tolerance.
func (s *Shooter) IsAtSpeed(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atSpeedLocked(ctx)
}

func (s *Shooter) atSpeedLocked(ctx context.Context) (bool, error) {
	ok, err := s.centre.atSpeed(ctx, s.targets.CentreRPS, s.tolerance)
	if err != nil || !ok {
		return false, err
	}
	return s.outer.atSpeed(ctx, s.targets.OuterRPS, s.tolerance)
}

// IsFiring reports whether the loading piston is mid-pulse.
func (s *Shooter) IsFiring(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequencer.pulsing(ctx)
}

// IsReady reports whether a shot can be taken now: ranged within the table,
// both wheels at speed, and no pulse in progress.
func (s *Shooter) IsReady(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.targets.InRange {
		return false, nil
	}
	atSpeed, err := s.atSpeedLocked(ctx)
	if err != nil || !atSpeed {
		return false, err
	}
	pulsing, err := s.sequencer.pulsing(ctx)
	if err != nil {
		return false, err
	}
	return !pulsing, nil
}

// CentreVelocity returns the centre wheel's measured velocity in rev/s.
func (s *Shooter) CentreVelocity(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.centre.velocity(ctx)
}

// OuterVelocity returns the outer wheel's measured velocity in rev/s.
func (s *Shooter) OuterVelocity(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outer.velocity(ctx)
}

// Status gathers a consistent snapshot of targets, measurements, and the
// readiness predicates derived from those same measurements.
func (s *Shooter) Status(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	centreVel, err := s.centre.velocity(ctx)
	if err != nil {
		return Status{}, err
	}
	outerVel, err := s.outer.velocity(ctx)
	if err != nil {
		return Status{}, err
	}
	pulsing, err := s.sequencer.pulsing(ctx)
	if err != nil {
		return Status{}, err
	}
	status := Status{
		CentreTargetRPS:   s.targets.CentreRPS,
		OuterTargetRPS:    s.targets.OuterRPS,
		CentreVelocityRPS: centreVel,
		OuterVelocityRPS:  outerVel,
		InRange:           s.targets.InRange,
		AtSpeed: withinTolerance(s.targets.CentreRPS, centreVel, s.tolerance) &&
			withinTolerance(s.targets.OuterRPS, outerVel, s.tolerance),
		Firing: pulsing,
	}
	status.Ready = status.InRange && status.AtSpeed && !status.Firing
	return status, nil
}

// OnEnable commands both drives to a safe stop before control resumes.
func (s *Shooter) OnEnable(ctx context.Context) error {
	return s.stopDrives(ctx)
}

// OnDisable stops both drives.
func (s *Shooter) OnDisable(ctx context.Context) error {
	return s.stopDrives(ctx)
}

// Close stops the drives.
func (s *Shooter) Close(ctx context.Context) error {
	return s.stopDrives(ctx)
}

func (s *Shooter) stopDrives(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return multierr.Combine(s.centre.stop(ctx), s.outer.stop(ctx))
}
