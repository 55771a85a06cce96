package logging

import (
	"fmt"
	"path/filepath"

	"browsemate/cli/internal/xdg"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileName is the diagnostic log written under the XDG state directory.
const LogFileName = "browsemate.log"

// Options controls where diagnostics go.
type Options struct {
	// Level is a zap level name ("debug", "info", ...). Empty means info.
	Level string
	// Verbose mirrors every line, at debug level, to stderr.
	Verbose bool
	// Path overrides the log file location. Empty means the XDG state dir.
	Path string
}

// New builds the process logger. Each run is tagged with a fresh run_id so
// lines from concurrent invocations can be told apart. The returned func
// flushes buffered entries and must be called before exit.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	p := opts.Path
	if p == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, nil, err
		}
		p = filepath.Join(dir, LogFileName)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{p}
	cfg.ErrorOutputPaths = []string{p}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Verbose {
		cfg.OutputPaths = append(cfg.OutputPaths, "stderr")
	}

	logger, err := cfg.Build(zap.Fields(zap.String("run_id", uuid.NewString())))
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// MaskedError is a zap field carrying err with secrets scrubbed.
func MaskedError(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", Mask(err.Error()))
}
