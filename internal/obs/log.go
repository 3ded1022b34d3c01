package obs

import (
	"go.uber.org/zap"
)

// NewLogger builds the shared structured logger. Falls back to the no-op
// logger when construction fails so callers never hold a nil logger.
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
