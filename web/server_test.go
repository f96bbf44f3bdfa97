package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/ArthurAllshire/pyinfiniterecharge/shooter"
	"github.com/ArthurAllshire/pyinfiniterecharge/testutils/inject"
	"github.com/ArthurAllshire/pyinfiniterecharge/web"
)

type consoleRig struct {
	server  *web.Server
	shooter *shooter.Shooter

	centreVel float64
	outerVel  float64
	pulsing   bool
	pulses    int
}

func newConsoleRig(t *testing.T) *consoleRig {
	t.Helper()
	r := &consoleRig{}
	wheel := func(vel *float64) *inject.Flywheel {
		return &inject.Flywheel{
			SetVelocityFunc: func(ctx context.Context, setpointRPS, feedforwardPct float64) error { return nil },
			VelocityFunc:    func(ctx context.Context) (float64, error) { return *vel, nil },
		}
	}
	loader := &inject.Piston{
		StartPulseFunc: func(ctx context.Context) error {
			r.pulses++
			return nil
		},
		IsPulsingFunc: func(ctx context.Context) (bool, error) { return r.pulsing, nil },
	}
	supply := &inject.PowerSensor{
		VoltageFunc: func(ctx context.Context) (float64, error) { return 12, nil },
	}
	logger := golog.NewTestLogger(t)
	s, err := shooter.NewShooter(shooter.DefaultConfig(), wheel(&r.centreVel), wheel(&r.outerVel), loader, supply, logger)
	test.That(t, err, test.ShouldBeNil)
	r.shooter = s
	r.server = web.NewServer(s, logger)
	return r
}

func TestStatusEndpoint(t *testing.T) {
	r := newConsoleRig(t)
	r.shooter.SetRange(8)
	r.centreVel = 1120
	r.outerVel = 5000

	rec := httptest.NewRecorder()
	r.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, rec.Header().Get("Content-Type"), test.ShouldEqual, "application/json")

	var status shooter.Status
	test.That(t, json.NewDecoder(rec.Body).Decode(&status), test.ShouldBeNil)
	test.That(t, status.CentreTargetRPS, test.ShouldEqual, 1120)
	test.That(t, status.OuterTargetRPS, test.ShouldEqual, 5000)
	test.That(t, status.InRange, test.ShouldBeTrue)
	test.That(t, status.AtSpeed, test.ShouldBeTrue)
	test.That(t, status.Ready, test.ShouldBeTrue)
}

func TestFireEndpoint(t *testing.T) {
	r := newConsoleRig(t)

	rec := httptest.NewRecorder()
	r.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fire", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusAccepted)

	test.That(t, r.shooter.Execute(context.Background()), test.ShouldBeNil)
	test.That(t, r.pulses, test.ShouldEqual, 1)
}

func TestTargetsEndpoint(t *testing.T) {
	r := newConsoleRig(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/targets", strings.NewReader(`{"centre_rps": 900, "outer_rps": 4500}`))
	r.server.ServeHTTP(rec, req)
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)

	var targets shooter.TargetState
	test.That(t, json.NewDecoder(rec.Body).Decode(&targets), test.ShouldBeNil)
	test.That(t, targets.CentreRPS, test.ShouldEqual, 900)
	test.That(t, targets.OuterRPS, test.ShouldEqual, 4500)
	test.That(t, r.shooter.Targets(), test.ShouldResemble, targets)
}

func TestTargetsEndpointBadBody(t *testing.T) {
	r := newConsoleRig(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/targets", strings.NewReader(`{"centre_rps": `))
	r.server.ServeHTTP(rec, req)
	test.That(t, rec.Code, test.ShouldEqual, http.StatusBadRequest)
}

func TestRangeEndpoint(t *testing.T) {
	r := newConsoleRig(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/range", strings.NewReader(`{"distance_m": 7.5}`))
	r.server.ServeHTTP(rec, req)
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)

	targets := r.shooter.Targets()
	test.That(t, targets.CentreRPS, test.ShouldEqual, 1000)
	test.That(t, targets.OuterRPS, test.ShouldEqual, 5000)
	test.That(t, targets.InRange, test.ShouldBeTrue)

	// Out of table range still responds OK but reports the clamp.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/range", strings.NewReader(`{"distance_m": 20}`))
	r.server.ServeHTTP(rec, req)
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)
	targets = r.shooter.Targets()
	test.That(t, targets.CentreRPS, test.ShouldEqual, 2400)
	test.That(t, targets.InRange, test.ShouldBeFalse)
}
