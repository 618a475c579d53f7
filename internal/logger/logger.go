// Package logger provides the leveled application logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

const module = "allied-parts"

var logger = logging.MustGetLogger(module)

func init() {
	InitLogger(os.Stderr, logging.INFO)
}

// InitLogger sends log output to w at the given level.
func InitLogger(w io.Writer, level logging.Level) {
	backend := logging.NewLogBackend(w, "", 0)
	formatter := logging.MustStringFormatter(`%{time:2006/01/02 15:04:05} %{level:.4s} - %{message}`)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(level, module)
	logger.SetBackend(leveled)
}

// ParseLevel converts a level name such as "debug" or "WARNING".
// Unknown names fall back to INFO.
func ParseLevel(name string) logging.Level {
	level, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return logging.INFO
	}
	return level
}

func Debug(args ...interface{}) {
	logger.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Info(args ...interface{}) {
	logger.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Warning(args ...interface{}) {
	logger.Warning(args...)
}

func Warningf(format string, args ...interface{}) {
	logger.Warningf(format, args...)
}

func Error(args ...interface{}) {
	logger.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
