package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ZapConfig defines the zap backend configuration
type ZapConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
	Output io.Writer
	Caller bool
}

// DefaultZapConfig returns the configuration used by the binaries
func DefaultZapConfig() ZapConfig {
	return ZapConfig{
		Level:  "info",
		Format: FormatConsole,
		Output: os.Stdout,
	}
}

// ZapBackend owns a zap logger and exposes it as LogFuncs for NewLogger
type ZapBackend struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewZapBackend creates a zap backend; an unknown level is an error
func NewZapBackend(config ZapConfig) (*ZapBackend, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch config.Format {
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case FormatConsole, "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format: %s", config.Format)
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(output)), level)

	opts := []zap.Option{}
	if config.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	zapLogger := zap.New(core, opts...)
	return &ZapBackend{
		logger: zapLogger,
		sugar:  zapLogger.Sugar(),
	}, nil
}

// LogFuncs routes every level to the sugared zap logger
func (z *ZapBackend) LogFuncs() LogFuncs {
	return LogFuncs{
		Debugf: z.sugar.Debugf,
		Infof:  z.sugar.Infof,
		Warnf:  z.sugar.Warnf,
		Errorf: z.sugar.Errorf,
	}
}

// Sync flushes any buffered log entries
func (z *ZapBackend) Sync() error {
	return z.logger.Sync()
}

// ParseLevel maps a configuration level name to a zap level; empty means info
func ParseLevel(levelStr string) (zapcore.Level, error) {
	if levelStr == "" {
		return zap.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return zap.InfoLevel, fmt.Errorf("invalid log level: %s", levelStr)
	}
	return level, nil
}
