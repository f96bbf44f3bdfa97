// Package shooter implements the targeting and velocity-control core of a
// dual-flywheel launcher.
//
// A distance to the target is mapped through a calibration table to a pair
// of flywheel velocity targets. Each control cycle the targets are sent to
// the drives together with a voltage-normalized feedforward bias, and a
// one-shot sequencer injects a projectile once the operator has requested a
// shot. Readiness combines range validity, velocity tracking on both wheels,
// and the injection piston's state.
package shooter

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// CalibrationSample ties one measured distance to the flywheel velocities
// that scored from it.
type CalibrationSample struct {
	DistanceM float64 `json:"distance_m"`
	CentreRPS float64 `json:"centre_rps"`
	OuterRPS  float64 `json:"outer_rps"`
}

// Calibration is an immutable distance-to-velocity lookup table. Targets
// between samples are linearly interpolated; distances outside the table
// take the boundary sample's values.
type Calibration struct {
	samples []CalibrationSample
	centre  interp.PiecewiseLinear
	outer   interp.PiecewiseLinear
}

// NewCalibration validates the samples and fits the interpolators. The
// table must hold at least two samples, in strictly increasing distance
// order, with finite non-negative velocities.
func NewCalibration(samples []CalibrationSample) (*Calibration, error) {
	if len(samples) < 2 {
		return nil, errors.Errorf("calibration table needs at least 2 samples, got %d", len(samples))
	}
	distances := make([]float64, len(samples))
	centreRPS := make([]float64, len(samples))
	outerRPS := make([]float64, len(samples))
	for i, s := range samples {
		if !isFinite(s.DistanceM) || !isFinite(s.CentreRPS) || !isFinite(s.OuterRPS) {
			return nil, errors.Errorf("calibration sample %d is not finite: %+v", i, s)
		}
		if i > 0 && s.DistanceM <= samples[i-1].DistanceM {
			return nil, errors.Errorf(
				"calibration distances must be strictly increasing: sample %d (%v m) does not follow %v m",
				i, s.DistanceM, samples[i-1].DistanceM)
		}
		if s.CentreRPS < 0 || s.OuterRPS < 0 {
			return nil, errors.Errorf("calibration velocities must be non-negative: sample %d is %+v", i, s)
		}
		distances[i] = s.DistanceM
		centreRPS[i] = s.CentreRPS
		outerRPS[i] = s.OuterRPS
	}

	c := &Calibration{samples: append([]CalibrationSample{}, samples...)}
	if err := c.centre.Fit(distances, centreRPS); err != nil {
		return nil, errors.Wrap(err, "fitting centre calibration")
	}
	if err := c.outer.Fit(distances, outerRPS); err != nil {
		return nil, errors.Wrap(err, "fitting outer calibration")
	}
	return c, nil
}

// MinDistance returns the closest calibrated distance.
func (c *Calibration) MinDistance() float64 {
	return c.samples[0].DistanceM
}

// MaxDistance returns the farthest calibrated distance.
func (c *Calibration) MaxDistance() float64 {
	return c.samples[len(c.samples)-1].DistanceM
}

// InRange reports whether the distance lies within the calibrated bounds,
// inclusive at both ends.
func (c *Calibration) InRange(distanceM float64) bool {
	return distanceM >= c.MinDistance() && distanceM <= c.MaxDistance()
}

// Clamp limits a distance to the calibrated bounds.
func (c *Calibration) Clamp(distanceM float64) float64 {
	return math.Min(c.MaxDistance(), math.Max(distanceM, c.MinDistance()))
}

// TargetsAt returns the interpolated centre and outer velocity targets in
// revolutions per second. Outside the table bounds the boundary sample's
// values are returned; targets never extrapolate beyond calibration.
func (c *Calibration) TargetsAt(distanceM float64) (centreRPS, outerRPS float64) {
	return c.centre.Predict(distanceM), c.outer.Predict(distanceM)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
