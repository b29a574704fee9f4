package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a prefixed logger. Every service package creates its own with
// logger.New("NAME") so lines can be traced back to the component.
type Logger struct {
	prefix string
	zap    *zap.Logger
	sugar  *zap.SugaredLogger
}

var (
	prefixColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
)

var base = newBase()

func newBase() *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	level := zap.InfoLevel
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(core)
}

// New returns a logger whose lines are tagged with prefix.
func New(prefix string) *Logger {
	z := base.Named(prefix)
	return &Logger{
		prefix: prefix,
		zap:    z,
		sugar:  z.Sugar(),
	}
}

// Zap exposes the structured logger for callers that log typed fields.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func (l *Logger) tag() string {
	return prefixColor("[" + l.prefix + "]")
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof("%s %s", l.tag(), fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf("%s %s", l.tag(), fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf("%s %s", l.tag(), fmt.Sprintf(format, args...))
}

func (l *Logger) Success(format string, args ...interface{}) {
	l.sugar.Infof("%s %s", l.tag(), successColor(fmt.Sprintf(format, args...)))
}

// Error logs and returns an error so call sites can write
// `return log.Error("failed to load fields", err)`.
//
// When msg has formatting verbs it is treated as a format string; otherwise a
// trailing error argument is wrapped under msg.
func (l *Logger) Error(msg string, args ...interface{}) error {
	var err error
	switch {
	case strings.Contains(msg, "%"):
		err = fmt.Errorf(msg, args...)
	case len(args) > 0:
		if cause, ok := args[len(args)-1].(error); ok && cause != nil {
			err = fmt.Errorf("%s: %w", msg, cause)
		} else {
			err = fmt.Errorf("%s: %v", msg, args)
		}
	default:
		err = errors.New(msg)
	}

	l.sugar.Errorf("%s %s", l.tag(), err.Error())
	return err
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}
