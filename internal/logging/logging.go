// Package logging configures the process-wide zerolog logger used by the
// formstate CLI. Defaults depend on the profile and can be overridden through
// FORMSTATE_LOG_* environment variables.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read by ApplyEnv.
const (
	// EnvLogLevel sets the minimum level, e.g. "debug" or "warn".
	EnvLogLevel = "FORMSTATE_LOG_LEVEL"
	// EnvLogTimestamp toggles timestamps on each line.
	EnvLogTimestamp = "FORMSTATE_LOG_TIMESTAMP"
	// EnvLogNoColor disables ANSI colours in console output.
	EnvLogNoColor = "FORMSTATE_LOG_NOCOLOR"
)

// Profile selects the default logger settings.
type Profile int

const (
	// ProfileRuntime logs warnings and above with timestamps and colour.
	ProfileRuntime Profile = iota
	// ProfileTest logs debug output without timestamps or colour.
	ProfileTest
)

// Config holds the resolved logger settings.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

// DefaultConfig returns the settings for profile before env overrides.
func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.WarnLevel, Timestamp: true}
	}
}

// Configure builds a console logger writing to out, installs it as the
// global zerolog logger and returns it.
func Configure(profile Profile, out io.Writer, app string) zerolog.Logger {
	cfg := DefaultConfig(profile)
	ApplyEnv(&cfg, os.Getenv)
	return New(cfg, out, app)
}

// New builds a logger from cfg without touching the environment.
func New(cfg Config, out io.Writer, app string) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	if !cfg.Timestamp {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(writer).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	logger := ctx.Logger()
	log.Logger = logger
	return logger
}

// ApplyEnv overrides cfg with values read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name onto a zerolog level. The second result is
// false for empty or unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
