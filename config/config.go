// Package config loads the analyzer configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/analyzer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GAMEVIDEO_SERVER_ADDR.
const EnvPrefix = "GAMEVIDEO"

// SourceConfig selects where frames come from.
type SourceConfig struct {
	Dir string `mapstructure:"dir"`
	// Start and End bound the processed file indexes, End <= 0 meaning the last file.
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
	// Screen captures the live desktop instead of reading Dir.
	Screen     bool `mapstructure:"screen"`
	IntervalMs int  `mapstructure:"interval_ms"`
}

// OutputConfig selects the sinks. Empty values disable a sink.
type OutputConfig struct {
	JSONLPath string `mapstructure:"jsonl_path"`
	MySQLDSN  string `mapstructure:"mysql_dsn"`
	DebugDir  string `mapstructure:"debug_dir"`
}

// ServerConfig configures the query API. An empty Addr disables it.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the whole configuration.
type Config struct {
	SamplesDir string          `mapstructure:"samples_dir"`
	MaskPath   string          `mapstructure:"mask_path"`
	LogLevel   string          `mapstructure:"log_level"`
	Analyzer   analyzer.Params `mapstructure:"analyzer"`
	Source     SourceConfig    `mapstructure:"source"`
	Output     OutputConfig    `mapstructure:"output"`
	Server     ServerConfig    `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	p := analyzer.DefaultParams()

	v.SetDefault("samples_dir", "")
	v.SetDefault("mask_path", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("analyzer.cooldown.err_threshold", p.Cooldown.ErrThreshold)
	v.SetDefault("analyzer.cooldown.bin_threshold", p.Cooldown.BinThreshold)
	v.SetDefault("analyzer.money.err_threshold", p.Money.ErrThreshold)
	v.SetDefault("analyzer.money.bin_threshold", p.Money.BinThreshold)
	v.SetDefault("analyzer.level.err_threshold", p.Level.ErrThreshold)
	v.SetDefault("analyzer.level.bin_threshold", p.Level.BinThreshold)
	v.SetDefault("analyzer.level.size.height_min", p.Level.Size.HeightMin)
	v.SetDefault("analyzer.level.size.height_max", p.Level.Size.HeightMax)
	v.SetDefault("analyzer.level.size.width_min", p.Level.Size.WidthMin)
	v.SetDefault("analyzer.level.size.width_max", p.Level.Size.WidthMax)
	v.SetDefault("analyzer.level.color_gate", p.Level.ColorGate)
	v.SetDefault("analyzer.prune.inactive_timeout_ms", p.Prune.InactiveTimeout)
	v.SetDefault("analyzer.prune.min_appearances", p.Prune.MinAppearances)
	v.SetDefault("analyzer.tracker.match_distance", p.Tracker.MatchDistance)
	v.SetDefault("analyzer.tracker.match_timeout_ms", p.Tracker.MatchTimeout)
	v.SetDefault("analyzer.joystick.bin_threshold", p.Joystick.BinThreshold)
	v.SetDefault("analyzer.joystick.min_diameter", p.Joystick.MinDiameter)
	v.SetDefault("analyzer.joystick.max_diameter", p.Joystick.MaxDiameter)

	v.SetDefault("source.dir", "")
	v.SetDefault("source.start", 0)
	v.SetDefault("source.end", 0)
	v.SetDefault("source.screen", false)
	v.SetDefault("source.interval_ms", 100)

	v.SetDefault("output.jsonl_path", "")
	v.SetDefault("output.mysql_dsn", "")
	v.SetDefault("output.debug_dir", "")

	v.SetDefault("server.addr", "")
}

// Load reads path, or config.yaml from the working directory or ./config when path is empty.
// A missing config.yaml is not an error when path is empty; defaults then apply.
// GAMEVIDEO_* environment variables override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		log.Info().Msg("no config.yaml found, using defaults")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}
