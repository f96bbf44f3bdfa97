// Package powersensor defines supply-voltage sensing for the robot's power
// bus.
package powersensor

import "context"

// A PowerSensor reports the instantaneous supply voltage. Feedforward terms
// computed in volts are normalized by this reading before being handed to a
// drive as a duty-cycle bias.
type PowerSensor interface {
	// Voltage returns the measured bus voltage in volts.
	Voltage(ctx context.Context) (float64, error)
}
