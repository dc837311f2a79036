package wasmhost

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Phonebooth/duckling/errors"
)

var errOutOfRange = errors.InvalidInput(errors.PhaseHost, "guest pointer/length out of range")

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the wasmhost package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the wasmhost package's logger.
// This must be called before any host registrations.
func SetLogger(l *zap.Logger) {
	logger = l
}
