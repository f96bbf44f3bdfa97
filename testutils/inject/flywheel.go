package inject

import (
	"context"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

// Flywheel is an injected flywheel drive.
type Flywheel struct {
	flywheel.Drive
	SetVelocityFunc      func(ctx context.Context, setpointRPS, feedforwardPct float64) error
	VelocityFunc         func(ctx context.Context) (float64, error)
	SetVelocityGainsFunc func(ctx context.Context, gains flywheel.Gains) error
	StopFunc             func(ctx context.Context) error
}

func (f *Flywheel) SetVelocity(ctx context.Context, setpointRPS, feedforwardPct float64) error {
	if f.SetVelocityFunc == nil {
		return f.Drive.SetVelocity(ctx, setpointRPS, feedforwardPct)
	}
	return f.SetVelocityFunc(ctx, setpointRPS, feedforwardPct)
}

func (f *Flywheel) Velocity(ctx context.Context) (float64, error) {
	if f.VelocityFunc == nil {
		return f.Drive.Velocity(ctx)
	}
	return f.VelocityFunc(ctx)
}

func (f *Flywheel) SetVelocityGains(ctx context.Context, gains flywheel.Gains) error {
	if f.SetVelocityGainsFunc == nil {
		return f.Drive.SetVelocityGains(ctx, gains)
	}
	return f.SetVelocityGainsFunc(ctx, gains)
}

func (f *Flywheel) Stop(ctx context.Context) error {
	if f.StopFunc == nil {
		return f.Drive.Stop(ctx)
	}
	return f.StopFunc(ctx)
}
