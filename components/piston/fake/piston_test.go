package fake

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestPulseLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	p := New("loader", mock, golog.NewTestLogger(t))
	test.That(t, p.SetPulseDuration(ctx, 500*time.Millisecond), test.ShouldBeNil)

	pulsing, err := p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeFalse)

	test.That(t, p.StartPulse(ctx), test.ShouldBeNil)
	pulsing, err = p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeTrue)

	mock.Add(499 * time.Millisecond)
	pulsing, err = p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeTrue)

	mock.Add(time.Millisecond)
	pulsing, err = p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeFalse)

	test.That(t, p.Pulses(), test.ShouldEqual, 1)
}

func TestRestartWhilePulsing(t *testing.T) {
	ctx := context.Background()
	mock := clock.NewMock()
	p := New("loader", mock, golog.NewTestLogger(t))
	test.That(t, p.SetPulseDuration(ctx, 100*time.Millisecond), test.ShouldBeNil)

	test.That(t, p.StartPulse(ctx), test.ShouldBeNil)
	mock.Add(80 * time.Millisecond)
	test.That(t, p.StartPulse(ctx), test.ShouldBeNil)

	// The second pulse re-armed the deadline.
	mock.Add(80 * time.Millisecond)
	pulsing, err := p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeTrue)

	mock.Add(20 * time.Millisecond)
	pulsing, err = p.IsPulsing(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pulsing, test.ShouldBeFalse)
}

func TestInvalidDuration(t *testing.T) {
	ctx := context.Background()
	p := New("loader", clock.NewMock(), golog.NewTestLogger(t))
	err := p.SetPulseDuration(ctx, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be positive")
}
