package utils

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a centralized logging mechanism for patchninja
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance (singleton pattern)
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(zapcore.Lock(os.Stderr))
	})
	return defaultLogger
}

// NewLogger creates a console logger that writes to the given sink at warn level
func NewLogger(sink zapcore.WriteSyncer) *Logger {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), sink, level)
	return &Logger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

// SetVerbose switches between debug and warn level
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.level.SetLevel(zap.DebugLevel)
	} else {
		l.level.SetLevel(zap.WarnLevel)
	}
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Close flushes buffered entries
func (l *Logger) Close() error {
	return l.sugar.Sync()
}

// Convenience functions for the default logger
func Warning(format string, args ...interface{}) {
	GetLogger().Warning(format, args...)
}

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

func SetVerbose(verbose bool) {
	GetLogger().SetVerbose(verbose)
}
