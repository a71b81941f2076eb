// Package debug provides logging for the plugin's control and UI threads.
// Nothing in this package may be called from the audio thread.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Environment variables read at startup.
const (
	EnvDebug  = "AMPFX_DEBUG"
	EnvLogDir = "AMPFX_LOG_DIR"
)

// LogFileName is the file created by NewFileLogger.
const LogFileName = "ampfx.log"

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(EnvDebug))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger writing to stderr.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// LogDir returns the directory plugin logs go to: $AMPFX_LOG_DIR, or
// ~/tmp when unset.
func LogDir() (string, error) {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve log directory: %w", err)
	}
	return filepath.Join(home, "tmp"), nil
}

// NewFileLogger creates a logger appending to dir/ampfx.log. A host has no
// console to show a plugin's stderr, so this is what plugins log to.
// The returned closer closes the file.
func NewFileLogger(dir string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := GetLogger()
	l.SetOutput(file)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	return l, file, nil
}

// LogPanic records a recovered panic value.
func LogPanic(l logrus.FieldLogger, operation string, r interface{}) {
	l.WithFields(logrus.Fields{
		"operation": operation,
		"panic":     fmt.Sprint(r),
	}).Error("recovered panic")
}
