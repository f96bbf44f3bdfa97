package shooter

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestFeedforwardVolts(t *testing.T) {
	ff := Feedforward{KS: 0.158, KV: 0.11}

	test.That(t, ff.Volts(0), test.ShouldEqual, 0)
	test.That(t, ff.Volts(100), test.ShouldEqual, 0.158+0.11*100)
	test.That(t, ff.Volts(-100), test.ShouldEqual, -0.158-0.11*100)
}

func TestFeedforwardDutyCycle(t *testing.T) {
	ff := Feedforward{KS: 0.158, KV: 0.11}

	duty12 := ff.DutyCycle(880, 12)
	test.That(t, duty12, test.ShouldEqual, (0.158+0.11*880)/12)

	// Doubling the bus voltage halves the duty.
	duty24 := ff.DutyCycle(880, 24)
	test.That(t, duty24, test.ShouldEqual, duty12/2)

	// Zero target means zero bias regardless of voltage.
	test.That(t, ff.DutyCycle(0, 12), test.ShouldEqual, 0)
}

func TestFeedforwardVoltageGuard(t *testing.T) {
	ff := Feedforward{KS: 0.187, KV: 0.11}

	test.That(t, ff.DutyCycle(5000, 0), test.ShouldEqual, 0)
	test.That(t, ff.DutyCycle(5000, -12), test.ShouldEqual, 0)
	test.That(t, ff.DutyCycle(5000, math.NaN()), test.ShouldEqual, 0)
	test.That(t, ff.DutyCycle(5000, math.Inf(1)), test.ShouldEqual, 0)
	test.That(t, ff.DutyCycle(5000, math.Inf(-1)), test.ShouldEqual, 0)
}
