// Package config provides configuration loading and validation for quadfold.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidTPS          = errors.New("ticks per second must be positive")
	ErrInvalidShapeTime    = errors.New("time for shape must be positive")
	ErrInvalidMaxDepth     = errors.New("max depth must be between 1 and 8")
	ErrInvalidDifficulty   = errors.New("difficulty must not be negative")
	ErrInvalidWindow       = errors.New("window size must be positive")
	ErrInvalidLogLevel     = errors.New("unknown log level")
	ErrInvalidLogFormat    = errors.New("unknown log format")
	ErrInvalidApproachPath = errors.New("start position must be behind the player")
	ErrInvalidWinPause     = errors.New("win pause must not be negative")
	ErrInvalidAnimation    = errors.New("animation durations must not be negative")
	ErrInvalidBreathe      = errors.New("breathe speed must not be negative")
)

// Default configuration values.
const (
	defaultTPS               = 60
	defaultTimeForShape      = 10 * time.Second
	defaultWinPause          = 300 * time.Millisecond
	defaultStartPos          = -3000.0
	defaultPlayerZ           = 0.0
	defaultInitialDifficulty = 1
	defaultDifficultyStep    = 2
	defaultMaxDepth          = 4
	defaultBreatheSpeed      = 0.02
	defaultWinDuration       = 600 * time.Millisecond
	defaultFadeDuration      = 3 * time.Second
	defaultWindowWidth       = 1280
	defaultWindowHeight      = 720
	defaultSquareSize        = 360.0
	maxDepthLimit            = 8
)

// Config holds all configuration for quadfold.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Window  WindowConfig  `mapstructure:"window"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig holds the gameplay constants the session treats as read-only.
type GameConfig struct {
	// TPS is the fixed physics tick rate.
	TPS int `mapstructure:"tps"`
	// TimeForShape is how long a target square takes to reach the player.
	TimeForShape time.Duration `mapstructure:"time_for_shape"`
	// WinPause is the gap between a won round and the next target.
	WinPause time.Duration `mapstructure:"win_pause"`
	// StartPos and PlayerZ bound the approach path of a target square.
	StartPos float64 `mapstructure:"start_pos"`
	PlayerZ  float64 `mapstructure:"player_z"`

	InitialDifficulty int `mapstructure:"initial_difficulty"`
	DifficultyStep    int `mapstructure:"difficulty_step"`
	// MaxDepth bounds both generated shapes and player splits.
	MaxDepth int `mapstructure:"max_depth"`

	BreatheSpeed float64       `mapstructure:"breathe_speed"`
	WinDuration  time.Duration `mapstructure:"win_duration"`
	FadeDuration time.Duration `mapstructure:"fade_duration"`
}

// WindowConfig holds renderer settings.
type WindowConfig struct {
	Title      string  `mapstructure:"title"`
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	SquareSize float64 `mapstructure:"square_size"`
	ShowFPS    bool    `mapstructure:"show_fps"`
	Debug      bool    `mapstructure:"debug"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Step returns the duration of one physics tick.
func (g GameConfig) Step() time.Duration {
	return time.Second / time.Duration(g.TPS)
}

// Ticks converts a duration to a whole number of physics ticks.
func (g GameConfig) Ticks(d time.Duration) int {
	return int(d / g.Step())
}

// Seconds returns the length of one physics tick in seconds, the unit tweens
// advance in.
func (g GameConfig) Seconds() float32 {
	return float32(g.Step().Seconds())
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not unmarshal: %v", err))
	}
	return &cfg
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("quadfold")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("QUADFOLD")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Game defaults.
	viperCfg.SetDefault("game.tps", defaultTPS)
	viperCfg.SetDefault("game.time_for_shape", defaultTimeForShape)
	viperCfg.SetDefault("game.win_pause", defaultWinPause)
	viperCfg.SetDefault("game.start_pos", defaultStartPos)
	viperCfg.SetDefault("game.player_z", defaultPlayerZ)
	viperCfg.SetDefault("game.initial_difficulty", defaultInitialDifficulty)
	viperCfg.SetDefault("game.difficulty_step", defaultDifficultyStep)
	viperCfg.SetDefault("game.max_depth", defaultMaxDepth)
	viperCfg.SetDefault("game.breathe_speed", defaultBreatheSpeed)
	viperCfg.SetDefault("game.win_duration", defaultWinDuration)
	viperCfg.SetDefault("game.fade_duration", defaultFadeDuration)

	// Window defaults.
	viperCfg.SetDefault("window.title", "quadfold")
	viperCfg.SetDefault("window.width", defaultWindowWidth)
	viperCfg.SetDefault("window.height", defaultWindowHeight)
	viperCfg.SetDefault("window.square_size", defaultSquareSize)
	viperCfg.SetDefault("window.show_fps", false)
	viperCfg.SetDefault("window.debug", false)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
}

// Validate checks the configuration for values the game cannot run with.
func Validate(config *Config) error {
	g := config.Game
	if g.TPS <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTPS, g.TPS)
	}

	if g.TimeForShape <= 0 || g.Ticks(g.TimeForShape) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidShapeTime, g.TimeForShape)
	}

	if g.WinPause < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWinPause, g.WinPause)
	}

	if g.WinDuration < 0 || g.FadeDuration < 0 {
		return fmt.Errorf("%w: win %s fade %s", ErrInvalidAnimation, g.WinDuration, g.FadeDuration)
	}

	if g.BreatheSpeed < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidBreathe, g.BreatheSpeed)
	}

	if g.MaxDepth < 1 || g.MaxDepth > maxDepthLimit {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDepth, g.MaxDepth)
	}

	if g.InitialDifficulty < 0 || g.DifficultyStep < 0 {
		return fmt.Errorf("%w: initial %d step %d", ErrInvalidDifficulty, g.InitialDifficulty, g.DifficultyStep)
	}

	if g.StartPos >= g.PlayerZ {
		return fmt.Errorf("%w: start %v player %v", ErrInvalidApproachPath, g.StartPos, g.PlayerZ)
	}

	if config.Window.Width <= 0 || config.Window.Height <= 0 || config.Window.SquareSize <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, config.Window.Width, config.Window.Height)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
