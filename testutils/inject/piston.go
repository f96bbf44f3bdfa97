package inject

import (
	"context"
	"time"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/piston"
)

// Piston is an injected piston.
type Piston struct {
	piston.Piston
	SetPulseDurationFunc func(ctx context.Context, d time.Duration) error
	StartPulseFunc       func(ctx context.Context) error
	IsPulsingFunc        func(ctx context.Context) (bool, error)
}

func (p *Piston) SetPulseDuration(ctx context.Context, d time.Duration) error {
	if p.SetPulseDurationFunc == nil {
		return p.Piston.SetPulseDuration(ctx, d)
	}
	return p.SetPulseDurationFunc(ctx, d)
}

func (p *Piston) StartPulse(ctx context.Context) error {
	if p.StartPulseFunc == nil {
		return p.Piston.StartPulse(ctx)
	}
	return p.StartPulseFunc(ctx)
}

func (p *Piston) IsPulsing(ctx context.Context) (bool, error) {
	if p.IsPulsingFunc == nil {
		return p.Piston.IsPulsing(ctx)
	}
	return p.IsPulsingFunc(ctx)
}
