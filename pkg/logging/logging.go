// Package logging provides deskctl's structured, rotating-file logger.
// Every component logs through this package so capture sessions and
// replay runs end up in one place regardless of platform.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultDirPerms is used when creating the log directory.
const DefaultDirPerms = 0o750

var (
	globalLogger *zap.Logger
	logFile      *lumberjack.Logger
	mu           sync.Mutex
)

// Config controls Init's behaviour.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// FilePath is the log file destination. Empty uses a platform default
	// under the user's home directory.
	FilePath string
	// Structured selects JSON file output instead of console-formatted
	// text; console output is always human-readable.
	Structured bool
	// DisableFile skips file logging entirely (console only).
	DisableFile bool
	// MaxSizeMB, MaxBackups, MaxAgeDays configure lumberjack rotation.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init configures the global logger. Safe to call again to reconfigure;
// any previously open log file is closed first.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			return err
		}
		logFile = nil
	}

	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var consoleEncCfg, fileEncCfg zapcore.EncoderConfig
	if cfg.Structured {
		consoleEncCfg = zap.NewProductionEncoderConfig()
		fileEncCfg = zap.NewProductionEncoderConfig()
	} else {
		consoleEncCfg = zap.NewDevelopmentEncoderConfig()
		fileEncCfg = zap.NewDevelopmentEncoderConfig()
	}
	consoleEncCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	fileEncCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), level),
	}

	if !cfg.DisableFile {
		path := cfg.FilePath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".deskctl", "logs", "deskctl.log")
		}

		if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
			return err
		}

		logFile = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    orDefault(cfg.MaxSizeMB, 20),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}

		var fileEncoder zapcore.Encoder
		if cfg.Structured {
			fileEncoder = zapcore.NewJSONEncoder(fileEncCfg)
		} else {
			fileEncoder = zapcore.NewConsoleEncoder(fileEncCfg)
		}
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), level))
	}

	core := zapcore.NewTee(cores...)
	globalLogger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Get returns the global logger, lazily falling back to a development
// logger (console only) if Init was never called.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger, _ = zap.NewDevelopment()
	}
	return globalLogger
}

// Reset clears the global logger so the next Get() falls back again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = nil
}

// Sync flushes buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Close flushes and releases the log file. Ignores the common sync
// errors that occur when stderr is a non-syncable terminal.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		if err := globalLogger.Sync(); err != nil {
			if !strings.Contains(err.Error(), "invalid argument") &&
				!strings.Contains(err.Error(), "inappropriate ioctl for device") {
				return err
			}
		}
		globalLogger = nil
	}

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			return err
		}
		logFile = nil
	}

	return nil
}

// Debug logs a debug-level message with optional structured fields.
func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }

// Info logs an info-level message with optional structured fields.
func Info(msg string, fields ...zap.Field) { Get().Info(msg, fields...) }

// Warn logs a warning-level message with optional structured fields.
func Warn(msg string, fields ...zap.Field) { Get().Warn(msg, fields...) }

// Error logs an error-level message with optional structured fields.
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// With returns a child logger carrying the given fields on every entry,
// e.g. logging.With(zap.String("component", "capture")).
func With(fields ...zap.Field) *zap.Logger { return Get().With(fields...) }
