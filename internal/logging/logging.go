// Package logging provides the shared logrus logger used across the
// application. Packages obtain it once at init time; cmd/root replaces it
// with the configured instance before any command runs.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	logger = logrus.New()
)

// GetLogger returns the shared logger instance.
func GetLogger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the shared logger. Nil is ignored so callers can pass
// through an unconfigured optional logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
