package shooter

import (
	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

// Feedforward is a static-plus-velocity motor feedforward model. KS is the
// voltage needed to overcome static friction and KV the volts per rev/s of
// sustained speed.
type Feedforward struct {
	KS float64 `json:"ks"`
	KV float64 `json:"kv"`
}

// Volts returns the open-loop voltage expected to hold the given velocity.
// A zero velocity contributes no static term, so the result is exactly 0.
func (f Feedforward) Volts(rps float64) float64 {
	return f.KS*flywheel.Sign(rps) + f.KV*rps
}

// DutyCycle normalizes Volts by the measured bus voltage so the bias tracks
// battery sag. A zero, negative, or non-finite bus voltage yields 0 rather
// than an unbounded or NaN duty.
func (f Feedforward) DutyCycle(rps, busVolts float64) float64 {
	if busVolts <= 0 || !isFinite(busVolts) {
		return 0
	}
	return f.Volts(rps) / busVolts
}
