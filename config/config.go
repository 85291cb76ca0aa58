// Package config resolves node settings from flags, FOGCHESS_* environment
// variables and defaults, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOGCHESS"

// Keys double as flag names.
const (
	KeyDataDir     = "datadir"
	KeyLogLevel    = "log-level"
	KeyMoveTimeout = "move-timeout"
	KeyCacheSize   = "cache-size"
	KeyMetricsFile = "metrics-file"
)

type Config struct {
	DataDir     string        `mapstructure:"datadir"`
	LogLevel    string        `mapstructure:"log-level"`
	MoveTimeout time.Duration `mapstructure:"move-timeout"`
	CacheSize   int           `mapstructure:"cache-size"`
	MetricsFile string        `mapstructure:"metrics-file"`
}

// LedgerDir is where the shared ledger lives.
func (c Config) LedgerDir() string { return filepath.Join(c.DataDir, "ledger") }

// PrivateDir is where sealed user states live.
func (c Config) PrivateDir() string { return filepath.Join(c.DataDir, "private") }

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DataDir:     "./fogchess-data",
		LogLevel:    zerolog.InfoLevel.String(),
		MoveTimeout: 7 * 24 * time.Hour,
		CacheSize:   1024,
	}
}

// RegisterFlags adds one flag per setting to fs and binds them to v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := Defaults()
	fs.String(KeyDataDir, d.DataDir, "directory holding the ledger and private state")
	fs.String(KeyLogLevel, d.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.Duration(KeyMoveTimeout, d.MoveTimeout, "idle time after which the waiting player may claim the game")
	fs.Int(KeyCacheSize, d.CacheSize, "number of ledger entries kept in the read cache")
	fs.String(KeyMetricsFile, d.MetricsFile, "if set, write Prometheus metrics to this file on exit")
	return v.BindPFlags(fs)
}

// NewViper returns a viper instance reading FOGCHESS_* variables, with
// dashes in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyMoveTimeout, d.MoveTimeout)
	v.SetDefault(KeyCacheSize, d.CacheSize)
	v.SetDefault(KeyMetricsFile, d.MetricsFile)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%s must not be empty", KeyDataDir)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}
	if c.MoveTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyMoveTimeout, c.MoveTimeout)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyCacheSize, c.CacheSize)
	}
	return nil
}

// Logger returns a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
