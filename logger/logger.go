package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for the exporter
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig returns production defaults
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// New creates a logger from cfg. An unknown level is an error.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zlog zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console":
		zlog = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	case "", "json":
		zlog = zerolog.New(output)
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	zlog = zlog.Level(level).With().Timestamp().Logger()
	return &Logger{zlog: zlog}, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel maps a level string to a zerolog level
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// With creates a child logger with additional fields
func (l *Logger) With() *Context {
	return &Context{ctx: l.zlog.With()}
}

// Context wraps zerolog.Context for field chaining
type Context struct {
	ctx zerolog.Context
}

// Str adds a string field to the child logger
func (c *Context) Str(key, val string) *Context {
	c.ctx = c.ctx.Str(key, val)
	return c
}

// Logger returns the child logger
func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.ctx.Logger()}
}

func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// DebugWith logs msg at debug level with extra fields
func (l *Logger) DebugWith(msg string, fields map[string]interface{}) {
	l.zlog.Debug().Fields(fields).Msg(msg)
}

// WarnWith logs msg at warn level with extra fields
func (l *Logger) WarnWith(msg string, fields map[string]interface{}) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

// ErrorWith logs err at error level with extra fields
func (l *Logger) ErrorWith(msg string, err error, fields map[string]interface{}) {
	l.zlog.Error().Err(err).Fields(fields).Msg(msg)
}
