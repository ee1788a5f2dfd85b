package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig defines the zap backend configuration
type ZapConfig struct {
	Level      string            // "debug", "info", "warn", "error"
	Format     string            // "json", "console"
	Output     string            // "stdout", "stderr", file path (appended to)
	Caller     bool              // Include caller information
	Stacktrace bool              // Include stacktrace on errors
	Fields     map[string]string // Static fields attached to every entry
}

// DefaultZapConfig returns the configuration used for the tool's own log file
func DefaultZapConfig(output string) ZapConfig {
	return ZapConfig{
		Level:  "info",
		Format: "console",
		Output: output,
	}
}

// ZapBackend owns a zap logger and the file it writes to, if any
type ZapBackend struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	close  func()
}

// NewZapBackend creates a zap backend from configuration
func NewZapBackend(config ZapConfig) (*ZapBackend, error) {
	level, err := getLevelFromString(config.Level)
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
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	closeFunc := func() {}
	var writeSyncer zapcore.WriteSyncer
	switch config.Output {
	case "stdout", "":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stdout))
	case "stderr":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	default:
		// zap.Open in v1.20 parses Windows drive letters as URL schemes
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log output %s: %w", config.Output, err)
		}
		writeSyncer = zapcore.Lock(zapcore.AddSync(file))
		closeFunc = func() { file.Close() }
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)

	opts := []zap.Option{}
	if config.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(3))
	}
	if config.Stacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLogger := zap.New(core, opts...)
	for key, value := range config.Fields {
		zapLogger = zapLogger.With(zap.String(key, value))
	}

	return &ZapBackend{
		logger: zapLogger,
		sugar:  zapLogger.Sugar(),
		close:  closeFunc,
	}, nil
}

// LogFuncs exposes the backend to NewLogger
func (z *ZapBackend) LogFuncs() LogFuncs {
	return LogFuncs{
		Debugf: z.sugar.Debugf,
		Infof:  z.sugar.Infof,
		Warnf:  z.sugar.Warnf,
		Errorf: z.sugar.Errorf,
	}
}

// Sync flushes buffered entries
func (z *ZapBackend) Sync() error {
	return z.logger.Sync()
}

// Close flushes and releases the output file
func (z *ZapBackend) Close() error {
	err := z.logger.Sync()
	z.close()
	return err
}

// zap v1.20 has no zapcore.ParseLevel
func getLevelFromString(levelStr string) (zapcore.Level, error) {
	switch levelStr {
	case "debug":
		return zap.DebugLevel, nil
	case "info", "":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("invalid log level: %s", levelStr)
	}
}
