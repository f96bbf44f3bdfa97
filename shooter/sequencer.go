package shooter

import (
	"context"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/piston"
)

type fireState int

const (
	fireIdle fireState = iota
	firePulsePending
)

// fireSequencer turns a latched fire request into exactly one loading pulse.
// A request cannot be withdrawn: once latched it is issued on the next tick.
type fireSequencer struct {
	loader piston.Piston
	state  fireState
}

// requestFire latches a pending shot. Latching while one is already pending
// changes nothing.
func (fs *fireSequencer) requestFire() {
	fs.state = firePulsePending
}

// tick issues the pulse for a pending request and returns to idle. The state
// clears before the actuator is commanded, so at most one pulse is started
// per request even if the command fails.
func (fs *fireSequencer) tick(ctx context.Context) error {
	if fs.state != firePulsePending {
		return nil
	}
	fs.state = fireIdle
	return fs.loader.StartPulse(ctx)
}

func (fs *fireSequencer) pulsing(ctx context.Context) (bool, error) {
	return fs.loader.IsPulsing(ctx)
}
