// Package logger provides the module's structured logging setup.
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level is the zerolog level type, re-exported so callers don't need to
// import zerolog directly just to set a level.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config controls the global logger's level, format and destination.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig returns console-formatted, info-level logging to stdout.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init configures the global logger. Only the first call takes effect.
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing it with defaults on first
// use if Init was never called.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

type ctxKey string

const runIDKey ctxKey = "run_id"

// WithRunID attaches a scheduling run id to ctx for downstream logging.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithContext derives a logger carrying whatever run id ctx holds.
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()
	if runID, ok := ctx.Value(runIDKey).(string); ok {
		l = l.With().Str("run_id", runID).Logger()
	}
	return &l
}

func Debug() *zerolog.Event { return Get().Debug() }
func Info() *zerolog.Event  { return Get().Info() }
func Warn() *zerolog.Event  { return Get().Warn() }
func Error() *zerolog.Event { return Get().Error() }
func Fatal() *zerolog.Event { return Get().Fatal() }

// WithError returns an error-level event carrying err.
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// WithField returns a logger with one additional structured field.
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// SchedulerLogger carries a component="scheduler" field across the
// driver and SA refiner's progress and violation logging.
type SchedulerLogger struct {
	base *zerolog.Logger
}

// Scheduler returns a SchedulerLogger bound to the global logger.
func Scheduler() *SchedulerLogger {
	l := Get().With().Str("component", "scheduler").Logger()
	return &SchedulerLogger{base: &l}
}

// StartRun logs the beginning of a scheduling run.
func (l *SchedulerLogger) StartRun(runID string, students, tasks, groups int) {
	l.base.Info().
		Str("run_id", runID).
		Int("students", students).
		Int("tasks", tasks).
		Int("groups", groups).
		Msg("starting schedule run")
}

// RestartProgress logs one multi-restart iteration's outcome.
func (l *SchedulerLogger) RestartProgress(attempt, maxAttempts, coverage int, variance float64) {
	l.base.Info().
		Int("attempt", attempt).
		Int("max_attempts", maxAttempts).
		Int("coverage", coverage).
		Float64("variance", variance).
		Msg("restart attempt complete")
}

// ConstraintViolation logs a violation or refinement event surfaced
// during scheduling, tagged by kind.
func (l *SchedulerLogger) ConstraintViolation(kind, details string) {
	l.base.Warn().
		Str("kind", kind).
		Str("details", details).
		Msg("constraint event")
}

// RunComplete logs the end of a scheduling run.
func (l *SchedulerLogger) RunComplete(runID string, attempts, coverage int) {
	l.base.Info().
		Str("run_id", runID).
		Int("attempts", attempts).
		Int("coverage", coverage).
		Msg("schedule run complete")
}
