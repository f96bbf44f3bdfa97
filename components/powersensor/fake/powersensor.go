// Package fake implements a settable supply-voltage sensor.
package fake

import (
	"context"
	"sync"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/powersensor"
)

const defaultVoltage = 12.0

var _ powersensor.PowerSensor = &PowerSensor{}

// PowerSensor reports a settable bus voltage, defaulting to a nominal 12 V
// battery.
type PowerSensor struct {
	mu    sync.Mutex
	volts float64
}

// New returns a sensor reading the nominal battery voltage.
func New() *PowerSensor {
	return &PowerSensor{volts: defaultVoltage}
}

// Voltage returns the configured bus voltage.
func (s *PowerSensor) Voltage(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volts, nil
}

// SetVoltage changes the reported bus voltage.
func (s *PowerSensor) SetVoltage(volts float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volts = volts
}
