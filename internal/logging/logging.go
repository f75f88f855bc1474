// Package logging wires up the logrus logger used throughout the server,
// with optional file rotation via lumberjack.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arpith99/doip-uds-server/internal/config"
)

// Logger adapts a *logrus.Logger to the Debug/Debugf/.../Errorf duck
// interface both the doip and uds packages log through.
type Logger struct {
	*logrus.Logger
}

// New builds a Logger from a LoggerConfig: level, optional file rotation,
// and whether to also write to stderr.
func New(cfg config.LoggerConfig) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var writers []io.Writer
	if cfg.Console || cfg.FilePath == "" {
		writers = append(writers, os.Stderr)
	}
	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxOr(cfg.MaxSizeMB, 100),
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}

	return &Logger{Logger: l}
}

func maxOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
