package shooter

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

// velocityController pairs one flywheel drive with its control constants.
// The drive runs velocity feedback on its own controller; each cycle we hand
// it the target setpoint and a voltage-normalized feedforward bias.
type velocityController struct {
	name  string
	drive flywheel.Drive
	ff    Feedforward
	gains flywheel.Gains
}

// applyGains pushes the configured feedback gains down to the drive.
func (vc *velocityController) applyGains(ctx context.Context) error {
	return errors.Wrapf(vc.drive.SetVelocityGains(ctx, vc.gains), "configuring %s flywheel", vc.name)
}

// update commands the drive with the target and the feedforward duty for the
// measured bus voltage. The setpoint passes through unscaled; native unit
// conversion is the drive's concern.
func (vc *velocityController) update(ctx context.Context, targetRPS, busVolts float64) error {
	duty := vc.ff.DutyCycle(targetRPS, busVolts)
	return errors.Wrapf(vc.drive.SetVelocity(ctx, targetRPS, duty), "commanding %s flywheel", vc.name)
}

func (vc *velocityController) velocity(ctx context.Context) (float64, error) {
	return vc.drive.Velocity(ctx)
}

func (vc *velocityController) atSpeed(ctx context.Context, targetRPS, tolerance float64) (bool, error) {
	measured, err := vc.drive.Velocity(ctx)
	if err != nil {
		return false, err
	}
	return withinTolerance(targetRPS, measured, tolerance), nil
}

func (vc *velocityController) stop(ctx context.Context) error {
	return errors.Wrapf(vc.drive.Stop(ctx), "stopping %s flywheel", vc.name)
}

// withinTolerance reports whether measured tracks target within the given
// fraction of the target magnitude. The boundary is accepted, so a zero
// target is only tracked by an exactly zero measurement.
func withinTolerance(targetRPS, measuredRPS, tolerance float64) bool {
	return math.Abs(targetRPS-measuredRPS) <= math.Abs(targetRPS)*tolerance
}
