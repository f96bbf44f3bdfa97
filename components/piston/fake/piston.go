// Package fake implements a simulated pulse piston.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/piston"
)

const defaultPulseDuration = 500 * time.Millisecond

var _ piston.Piston = &Piston{}

// Piston simulates a timed pneumatic pulse against the injected clock.
// StartPulse while a pulse is active re-arms the deadline.
type Piston struct {
	name   string
	logger golog.Logger
	clk    clock.Clock

	mu       sync.Mutex
	duration time.Duration
	deadline time.Time
	pulses   int
}

// New returns a retracted simulated piston with the default pulse duration.
func New(name string, clk clock.Clock, logger golog.Logger) *Piston {
	return &Piston{name: name, logger: logger, clk: clk, duration: defaultPulseDuration}
}

// SetPulseDuration configures the length of subsequent pulses.
func (p *Piston) SetPulseDuration(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return errors.Errorf("pulse duration must be positive, got %v", d)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = d
	return nil
}

// StartPulse extends the piston until the configured duration elapses.
func (p *Piston) StartPulse(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deadline = p.clk.Now().Add(p.duration)
	p.pulses++
	p.logger.Debugw("piston pulse started", "name", p.name, "duration", p.duration)
	return nil
}

// IsPulsing reports whether the piston is currently extended.
func (p *Piston) IsPulsing(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clk.Now().Before(p.deadline), nil
}

// Pulses returns how many pulses have been started.
func (p *Piston) Pulses() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pulses
}
