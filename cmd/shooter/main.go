// Package main runs the dual-flywheel shooter control loop against simulated
// hardware and serves the operator console.
package main

import (
	"context"
	"flag"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	flywheelfake "github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel/fake"
	pistonfake "github.com/ArthurAllshire/pyinfiniterecharge/components/piston/fake"
	powerfake "github.com/ArthurAllshire/pyinfiniterecharge/components/powersensor/fake"
	"github.com/ArthurAllshire/pyinfiniterecharge/shooter"
	"github.com/ArthurAllshire/pyinfiniterecharge/web"
)

var (
	configFile = flag.String("config", "", "shooter config file (defaults to the built-in constants)")
	port       = flag.Int("port", 8080, "operator console port")
	distance   = flag.Float64("distance", 0, "fixed simulated range in meters (0 leaves ranging to the console)")
)

var logger = golog.NewDevelopmentLogger("shooter")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	flag.Parse()

	cfg := shooter.DefaultConfig()
	if *configFile != "" {
		cfg, err = shooter.ReadConfig(*configFile)
		if err != nil {
			return err
		}
	}

	clk := clock.New()
	centre := flywheelfake.New(flywheelfake.Config{Name: "centre"}, clk, logger)
	outer := flywheelfake.New(flywheelfake.Config{Name: "outer", Inverted: true}, clk, logger)
	loader := pistonfake.New("loader", clk, logger)
	supply := powerfake.New()

	s, err := shooter.NewShooter(cfg, centre, outer, loader, supply, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close(context.Background()))
	}()
	if err := s.Setup(ctx); err != nil {
		return err
	}
	if err := s.OnEnable(ctx); err != nil {
		return err
	}

	var source shooter.RangeSource
	if *distance > 0 {
		source = fixedRange(*distance)
	}
	loop := shooter.NewLoop(s, source, cfg.LoopPeriod(), clk, logger)
	loop.Start()
	defer loop.Stop()

	return web.RunServer(ctx, *port, s, logger)
}

// fixedRange simulates a stationary robot at a known distance.
type fixedRange float64

func (f fixedRange) Distance(ctx context.Context) (float64, error) {
	return float64(f), nil
}
