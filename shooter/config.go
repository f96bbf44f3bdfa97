package shooter

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/ArthurAllshire/pyinfiniterecharge/components/flywheel"
)

const (
	defaultVelocityTolerance = 0.05
	defaultPulseDurationMs   = 500
	defaultLoopFrequencyHz   = 50.0
)

// WheelConfig holds the control constants for one flywheel.
type WheelConfig struct {
	Gains       flywheel.Gains `json:"gains"`
	Feedforward Feedforward    `json:"feedforward"`
}

// Validate ensures all parts of the config are valid.
func (config *WheelConfig) Validate(path string) error {
	if config.Gains.P < 0 || config.Gains.I < 0 || config.Gains.D < 0 {
		return utils.NewConfigValidationError(path, errors.New("gains cannot be negative"))
	}
	if !isFinite(config.Feedforward.KS) || !isFinite(config.Feedforward.KV) {
		return utils.NewConfigValidationError(path, errors.New("feedforward constants must be finite"))
	}
	return nil
}

// Config describes a dual-flywheel shooter: its calibration table, per-wheel
// control constants, and cycle timing.
type Config struct {
	Calibration       []CalibrationSample `json:"calibration"`
	Centre            WheelConfig         `json:"centre"`
	Outer             WheelConfig         `json:"outer"`
	VelocityTolerance float64             `json:"velocity_tolerance,omitempty"`
	PulseDurationMs   int                 `json:"pulse_duration_ms,omitempty"`
	LoopFrequencyHz   float64             `json:"loop_frequency_hz,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	if len(config.Calibration) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "calibration")
	}
	if _, err := NewCalibration(config.Calibration); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if err := config.Centre.Validate(path + ".centre"); err != nil {
		return err
	}
	if err := config.Outer.Validate(path + ".outer"); err != nil {
		return err
	}
	if config.VelocityTolerance < 0 {
		return utils.NewConfigValidationError(path, errors.New("velocity_tolerance cannot be negative"))
	}
	if config.PulseDurationMs < 0 {
		return utils.NewConfigValidationError(path, errors.New("pulse_duration_ms cannot be negative"))
	}
	if config.LoopFrequencyHz < 0 {
		return utils.NewConfigValidationError(path, errors.New("loop_frequency_hz cannot be negative"))
	}
	return nil
}

// Tolerance returns the velocity tolerance as a fraction of the target,
// defaulting to 0.05.
func (config *Config) Tolerance() float64 {
	if config.VelocityTolerance == 0 {
		return defaultVelocityTolerance
	}
	return config.VelocityTolerance
}

// PulseDuration returns how long the loading piston extends per shot,
// defaulting to 500ms.
func (config *Config) PulseDuration() time.Duration {
	if config.PulseDurationMs == 0 {
		return defaultPulseDurationMs * time.Millisecond
	}
	return time.Duration(config.PulseDurationMs) * time.Millisecond
}

// LoopPeriod returns the control cycle period, defaulting to 50Hz.
func (config *Config) LoopPeriod() time.Duration {
	freq := config.LoopFrequencyHz
	if freq == 0 {
		freq = defaultLoopFrequencyHz
	}
	return time.Duration(float64(time.Second) / freq)
}

// ReadConfig loads and validates a shooter configuration from a JSON file.
func ReadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading shooter config")
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "parsing shooter config %q", filePath)
	}
	if err := config.Validate(filePath); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns the constants tuned on the competition robot.
func DefaultConfig() *Config {
	return &Config{
		// TODO: replace the 0 m placeholder row with measured close-range samples.
		Calibration: []CalibrationSample{
			{DistanceM: 0, CentreRPS: 0, OuterRPS: 5000},
			{DistanceM: 7, CentreRPS: 880, OuterRPS: 5000},
			{DistanceM: 8, CentreRPS: 1120, OuterRPS: 5000},
			{DistanceM: 9, CentreRPS: 1500, OuterRPS: 5000},
			{DistanceM: 10, CentreRPS: 2150, OuterRPS: 5000},
			{DistanceM: 11, CentreRPS: 2400, OuterRPS: 5000},
		},
		Centre: WheelConfig{
			Gains:       flywheel.Gains{P: 0.0042},
			Feedforward: Feedforward{KS: 0.158, KV: 0.11},
		},
		Outer: WheelConfig{
			Gains:       flywheel.Gains{P: 0.00394},
			Feedforward: Feedforward{KS: 0.187, KV: 0.11},
		},
	}
}
