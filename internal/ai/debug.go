package ai

import "sync/atomic"

// debugLoggingEnabled gates debug logs on the per-tick hot path.
// Checking an atomic is cheaper than asking slog for the level on every
// agent tick. Set via EnableDebugLogging() from the configured log level.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables per-tick debug logging.
// Call it during initialization, after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if per-tick debug logging is enabled.
// Guard hot-path debug logs with it:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("agent state changed", "objectID", id, "to", state)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
