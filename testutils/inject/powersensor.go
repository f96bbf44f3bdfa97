package inject

import (
	"context"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/powersensor"
)

// PowerSensor is an injected power sensor.
type PowerSensor struct {
	powersensor.PowerSensor
	VoltageFunc func(ctx context.Context) (float64, error)
}

func (s *PowerSensor) Voltage(ctx context.Context) (float64, error) {
	if s.VoltageFunc == nil {
		return s.PowerSensor.Voltage(ctx)
	}
	return s.VoltageFunc(ctx)
}
