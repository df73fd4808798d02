package scopedlog

import "github.com/rs/zerolog"

// Logger is the generic logging handle shared by category loggers and
// scoped loggers. Code holding a Logger cannot tell the two apart.
type Logger interface {
	// Log emits one entry. formatter renders state and err into the message;
	// a nil formatter falls back to fmt.Sprint(state).
	Log(level zerolog.Level, eventID EventID, state any, err error, formatter Formatter)
	// BeginScope opens a logging scope that decorates every entry until the
	// returned release func is called. Release is idempotent. Scopes belong
	// to the Logger instance, not the calling goroutine: every goroutine
	// logging through the same instance sees them.
	BeginScope(state any) func()
	IsEnabled(level zerolog.Level) bool
}

// LoggerFactory creates Loggers bound to a log category.
type LoggerFactory interface {
	CreateLogger(category Category) Logger
}

// EventLogger provides the structured event API of Service.
// For new code, prefer the typed field methods over printf-style messages.
type EventLogger interface {
	TraceWith() LogEvent
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	FatalWith() LogEvent

	// With creates a child logger with pre-populated fields.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}
