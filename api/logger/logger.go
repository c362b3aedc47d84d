package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName tags every entry this process writes.
const ServiceName = "dev-connect"

// Logger is the process-wide logger set by Init.
var Logger *zap.Logger

// Options picks the encoding and verbosity. Production logs JSON at info, everything else logs
// colored console output at debug. Level overrides either default.
type Options struct {
	Env         string
	Level       string
	OutputPaths []string
}

// Init builds the process-wide logger and installs it as zap's global.
func Init(opts Options) error {
	log, err := New(opts)
	if err != nil {
		return err
	}
	Logger = log
	zap.ReplaceGlobals(Logger)
	return nil
}

// New builds a logger whose entries all carry the service name and environment.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": ServiceName,
		"env":     opts.Env,
	}
	return config.Build()
}

// Sync flushes buffered entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the process-wide logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if Logger == nil {
		return zap.NewNop()
	}
	return Logger
}

// Named returns the process-wide logger scoped to one component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}
