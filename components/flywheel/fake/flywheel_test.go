package fake

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

func TestSpinUp(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	f := New(Config{Name: "centre", SpinUpTau: 100 * time.Millisecond}, mock, golog.NewTestLogger(t))

	v, err := f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 0)

	test.That(t, f.SetVelocity(ctx, 100, 0.2), test.ShouldBeNil)
	test.That(t, f.Setpoint(), test.ShouldEqual, 100)
	test.That(t, f.Feedforward(), test.ShouldEqual, 0.2)

	// One time constant reaches ~63% of the step.
	mock.Add(100 * time.Millisecond)
	v, err = f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 63.21, 0.01)

	// After many time constants the wheel is at speed.
	mock.Add(2 * time.Second)
	v, err = f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 100, 1e-6)
}

func TestStopCoastsDown(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	f := New(Config{SpinUpTau: 100 * time.Millisecond}, mock, golog.NewTestLogger(t))

	test.That(t, f.SetVelocity(ctx, 50, 0), test.ShouldBeNil)
	mock.Add(time.Second)
	test.That(t, f.Stop(ctx), test.ShouldBeNil)
	test.That(t, f.Setpoint(), test.ShouldEqual, 0)
	test.That(t, f.Feedforward(), test.ShouldEqual, 0)

	mock.Add(2 * time.Second)
	v, err := f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 0, 1e-6)
}

func TestNativeUnits(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	f := New(Config{}, mock, golog.NewTestLogger(t))

	// 100 rps * 2048 ticks/rev * 0.1 s window = 20480 ticks per window.
	test.That(t, f.SetVelocity(ctx, 100, 0), test.ShouldBeNil)
	mock.Add(time.Minute)
	test.That(t, f.NativeVelocity(), test.ShouldAlmostEqual, 20480, 1e-6)

	v, err := f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 100, 1e-9)
}

func TestInverted(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	f := New(Config{Inverted: true}, mock, golog.NewTestLogger(t))

	test.That(t, f.SetVelocity(ctx, 80, 0), test.ShouldBeNil)
	mock.Add(time.Minute)

	// The caller's view stays positive; the physical sensor runs backwards.
	v, err := f.Velocity(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldAlmostEqual, 80, 1e-6)
	test.That(t, f.NativeVelocity(), test.ShouldBeLessThan, 0)
}

func TestGainsRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := New(Config{}, clock.NewMock(), golog.NewTestLogger(t))

	g := flywheel.Gains{P: 0.0042}
	test.That(t, f.SetVelocityGains(ctx, g), test.ShouldBeNil)
	test.That(t, f.VelocityGains(), test.ShouldResemble, g)
}
