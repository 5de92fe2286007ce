package analyzer

import (
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
)

// ReadParams tune one fixed-area number reader.
type ReadParams struct {
	ErrThreshold float64 `mapstructure:"err_threshold"`
	// BinThreshold <= 0 selects Otsu.
	BinThreshold int `mapstructure:"bin_threshold"`
}

// LevelParams tune the level icon reader.
type LevelParams struct {
	ErrThreshold float64           `mapstructure:"err_threshold"`
	BinThreshold int               `mapstructure:"bin_threshold"`
	Size         region.SizeFilter `mapstructure:"size"`
	ColorGate    bool              `mapstructure:"color_gate"`
}

// PruneParams decide when a rarely seen hero is forgotten.
type PruneParams struct {
	InactiveTimeout int64 `mapstructure:"inactive_timeout_ms"`
	MinAppearances  int   `mapstructure:"min_appearances"`
}

// JoystickParams tune the joystick thumb search.
type JoystickParams struct {
	BinThreshold int `mapstructure:"bin_threshold"`
	MinDiameter  int `mapstructure:"min_diameter"`
	MaxDiameter  int `mapstructure:"max_diameter"`
}

// Params holds every tunable of an Analyzer.
type Params struct {
	Cooldown ReadParams     `mapstructure:"cooldown"`
	Money    ReadParams     `mapstructure:"money"`
	Level    LevelParams    `mapstructure:"level"`
	Prune    PruneParams    `mapstructure:"prune"`
	Tracker  tracker.Params `mapstructure:"tracker"`
	Joystick JoystickParams `mapstructure:"joystick"`
}

// DefaultParams returns the values tuned for 1280x720 captures.
func DefaultParams() Params {
	return Params{
		Cooldown: ReadParams{ErrThreshold: 0.3, BinThreshold: 150},
		Money:    ReadParams{ErrThreshold: 0.99, BinThreshold: 210},
		Level: LevelParams{
			ErrThreshold: 0.3,
			BinThreshold: 180,
			Size:         LEVEL_SIZE,
			ColorGate:    true,
		},
		Prune:   PruneParams{InactiveTimeout: 1000, MinAppearances: 5},
		Tracker: tracker.DefaultParams(),
		Joystick: JoystickParams{
			BinThreshold: 0,
			MinDiameter:  JOYSTICK_MIN_DIAMETER,
			MaxDiameter:  JOYSTICK_MAX_DIAMETER,
		},
	}
}
