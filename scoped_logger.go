package scopedlog

import (
	"github.com/rs/zerolog"

	"github.com/Station-Manager/scopedlog/identity"
)

// ScopedLogger wraps a Logger so that every Log call runs inside a scope
// carrying the owning session's identity. BeginScope and IsEnabled pass
// straight through. Scopes are shared by everything holding the same
// ScopedLogger, so do not share one across request goroutines; ask the
// factory for a logger per goroutine instead.
type ScopedLogger struct {
	logger   Logger
	identity identity.Descriptor
	scope    Scope
}

var _ Logger = (*ScopedLogger)(nil)

// NewScopedLogger wraps logger with the identity d.
func NewScopedLogger(logger Logger, d identity.Descriptor) *ScopedLogger {
	return &ScopedLogger{logger: logger, identity: d, scope: identityScope(d)}
}

func identityScope(d identity.Descriptor) Scope {
	var userID any
	if id, ok := d.UserID(); ok {
		userID = id
	}
	return Scope{
		Template: identityScopeTemplate,
		Fields: []Field{
			{Key: UsernameFieldName, Value: d.DisplayName()},
			{Key: UserIDFieldName, Value: userID},
		},
	}
}

// Log emits one entry inside the identity scope. The scope is released even
// when the underlying logger panics.
func (l *ScopedLogger) Log(level zerolog.Level, eventID EventID, state any, err error, formatter Formatter) {
	release := l.logger.BeginScope(l.scope)
	defer release()
	l.logger.Log(level, eventID, state, err, formatter)
}

// BeginScope opens a scope on the wrapped logger.
func (l *ScopedLogger) BeginScope(state any) func() {
	return l.logger.BeginScope(state)
}

// IsEnabled reports whether the wrapped logger emits level.
func (l *ScopedLogger) IsEnabled(level zerolog.Level) bool {
	return l.logger.IsEnabled(level)
}

// Identity returns the descriptor attached to every entry.
func (l *ScopedLogger) Identity() identity.Descriptor {
	return l.identity
}

func (l *ScopedLogger) Debug(msg string) {
	l.Log(zerolog.DebugLevel, EventID{}, msg, nil, MessageFormatter)
}

func (l *ScopedLogger) Info(msg string) {
	l.Log(zerolog.InfoLevel, EventID{}, msg, nil, MessageFormatter)
}

func (l *ScopedLogger) Warn(msg string) {
	l.Log(zerolog.WarnLevel, EventID{}, msg, nil, MessageFormatter)
}

func (l *ScopedLogger) Error(err error, msg string) {
	l.Log(zerolog.ErrorLevel, EventID{}, msg, err, MessageFormatter)
}
