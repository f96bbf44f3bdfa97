package shooter

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

// RangeSource supplies the latest measured planar distance to the target,
// typically from a vision pipeline or odometry.
type RangeSource interface {
	Distance(ctx context.Context) (float64, error)
}

// Loop runs a Shooter at a fixed period in the background, polling an
// optional range source before each cycle.
type Loop struct {
	shooter *Shooter
	source  RangeSource
	period  time.Duration
	clock   clock.Clock
	logger  golog.Logger

	mu                      sync.Mutex
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// NewLoop prepares a control loop for the shooter. source may be nil when
// ranging is driven externally (for example from the operator console). A
// nil clk uses the wall clock.
func NewLoop(shooter *Shooter, source RangeSource, period time.Duration, clk clock.Clock, logger golog.Logger) *Loop {
	if period <= 0 {
		period = time.Duration(float64(time.Second) / defaultLoopFrequencyHz)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Loop{
		shooter: shooter,
		source:  source,
		period:  period,
		clock:   clk,
		logger:  logger,
	}
}

// Start begins the periodic cycle. Starting an already running loop does
// nothing.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.activeBackgroundWorkers.Add(1)
	utils.ManagedGo(func() {
		l.run(cancelCtx)
	}, l.activeBackgroundWorkers.Done)
	l.logger.Infow("shooter control loop started", "period", l.period)
}

// Stop halts the cycle and waits for the worker to exit. Stopping a stopped
// loop does nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	l.activeBackgroundWorkers.Wait()
	l.logger.Info("shooter control loop stopped")
}

func (l *Loop) run(ctx context.Context) {
	ticker := l.clock.Ticker(l.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		l.cycle(ctx)
	}
}

// cycle ranges from the source when one is wired, then runs one control
// cycle. A ranging failure is a normal mode (no target visible) and leaves
// the previous targets in force.
func (l *Loop) cycle(ctx context.Context) {
	if l.source != nil {
		distance, err := l.source.Distance(ctx)
		if err != nil {
			l.logger.Debugw("no range measurement", "error", err)
		} else {
			l.shooter.SetRange(distance)
		}
	}
	if err := l.shooter.Execute(ctx); err != nil {
		l.logger.Errorw("shooter cycle failed", "error", err)
	}
}
