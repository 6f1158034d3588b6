package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"notes-app/internal/config"
)

// Init настраивает стандартный логгер logrus по секции logger конфига.
// Неизвестный уровень заменяется на info.
func Init(cfg *config.ConfigLogger) *logrus.Logger {
	return Configure(logrus.StandardLogger(), cfg, os.Stderr)
}

// Configure настраивает переданный логгер
func Configure(l *logrus.Logger, cfg *config.ConfigLogger, out io.Writer) *logrus.Logger {
	level := logrus.InfoLevel
	format := "text"
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
		if cfg.Format != "" {
			format = strings.ToLower(cfg.Format)
		}
	}

	l.SetOutput(out)
	l.SetLevel(level)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return l
}

// Discard возвращает логгер, который ничего не пишет
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
