package scopedlog

import (
	"time"

	"github.com/rs/zerolog"
)

// LogContext provides a fluent interface for building a context logger with pre-populated fields.
// Fields added through LogContext will be included in all subsequent log messages.
type LogContext interface {
	Str(key, val string) LogContext
	Int(key string, val int) LogContext
	Bool(key string, val bool) LogContext
	Err(err error) LogContext
	Interface(key string, val any) LogContext
	// Logger creates and returns the new context logger
	Logger() EventLogger
}

// LogEvent provides a fluent interface for structured logging with type-safe field methods.
// It wraps zerolog.Event to provide a clean API for adding typed fields to log entries.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Bool(key string, val bool) LogEvent
	Time(key string, val time.Time) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Interface(key string, val any) LogEvent
	Msg(msg string)
	Msgf(format string, v ...any)
	Send()
}

// logEvent implements LogEvent by wrapping zerolog.Event. done, when set, is
// called exactly once after the event has been written.
type logEvent struct {
	event *zerolog.Event
	done  func()
}

func newLogEvent(e *zerolog.Event) LogEvent {
	return &logEvent{event: e}
}

func newTrackedLogEvent(e *zerolog.Event, done func()) LogEvent {
	if e == nil {
		// nothing will ever be sent, release the tracking slot now
		if done != nil {
			done()
		}
		return &logEvent{}
	}
	return &logEvent{event: e, done: done}
}

func (e *logEvent) Str(key, val string) LogEvent {
	if e.event != nil {
		e.event.Str(key, val)
	}
	return e
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	if e.event != nil {
		e.event.Strs(key, vals)
	}
	return e
}

func (e *logEvent) Int(key string, val int) LogEvent {
	if e.event != nil {
		e.event.Int(key, val)
	}
	return e
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	if e.event != nil {
		e.event.Int64(key, val)
	}
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	if e.event != nil {
		e.event.Bool(key, val)
	}
	return e
}

func (e *logEvent) Time(key string, val time.Time) LogEvent {
	if e.event != nil {
		e.event.Time(key, val)
	}
	return e
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	if e.event != nil {
		e.event.Dur(key, val)
	}
	return e
}

func (e *logEvent) Err(err error) LogEvent {
	return e.AnErr(zerolog.ErrorFieldName, err)
}

// AnErr adds err under key together with its cause chain:
// key_chain, key_root, key_history, key_ops and key_root_op.
func (e *logEvent) AnErr(key string, err error) LogEvent {
	if e.event == nil {
		return e
	}
	e.event.AnErr(key, err)
	if err == nil {
		return e
	}
	chain, ops, root, rootOp := buildErrorChain(err)
	if len(chain) > 0 {
		e.event.Strs(key+"_chain", chain)
		e.event.Str(key+"_root", root)
		e.event.Str(key+"_history", joinChain(chain))
		e.event.Strs(key+"_ops", ops)
		if rootOp != emptyString {
			e.event.Str(key+"_root_op", rootOp)
		}
	}
	return e
}

func (e *logEvent) Interface(key string, val any) LogEvent {
	if e.event != nil {
		e.event.Interface(key, val)
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	defer e.finish()
	if e.event != nil {
		e.event.Msg(msg)
	}
}

func (e *logEvent) Msgf(format string, v ...any) {
	defer e.finish()
	if e.event != nil {
		e.event.Msgf(format, v...)
	}
}

func (e *logEvent) Send() {
	defer e.finish()
	if e.event != nil {
		e.event.Send()
	}
}

func (e *logEvent) finish() {
	if e.done != nil {
		done := e.done
		e.done = nil
		done()
	}
}

// logContext implements LogContext by wrapping zerolog.Context
type logContext struct {
	context zerolog.Context
	service *Service
}

func (c *logContext) Str(key, val string) LogContext {
	c.context = c.context.Str(key, val)
	return c
}

func (c *logContext) Int(key string, val int) LogContext {
	c.context = c.context.Int(key, val)
	return c
}

func (c *logContext) Bool(key string, val bool) LogContext {
	c.context = c.context.Bool(key, val)
	return c
}

func (c *logContext) Err(err error) LogContext {
	c.context = c.context.Err(err)
	return c
}

func (c *logContext) Interface(key string, val any) LogContext {
	c.context = c.context.Interface(key, val)
	return c
}

func (c *logContext) Logger() EventLogger {
	logger := c.context.Logger()
	return &contextLogger{logger: &logger, parent: c.service}
}

// contextLogger is a child logger with extra fields. Lifecycle and
// in-flight tracking stay with the parent Service.
type contextLogger struct {
	logger *zerolog.Logger
	parent *Service
}

func (cl *contextLogger) TraceWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.TraceLevel)
}

func (cl *contextLogger) DebugWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.DebugLevel)
}

func (cl *contextLogger) InfoWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.InfoLevel)
}

func (cl *contextLogger) WarnWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.WarnLevel)
}

func (cl *contextLogger) ErrorWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.ErrorLevel)
}

func (cl *contextLogger) FatalWith() LogEvent {
	return cl.parent.buildEvent(cl.logger, zerolog.FatalLevel)
}

func (cl *contextLogger) With() LogContext {
	if cl.logger == nil || cl.parent == nil || !cl.parent.isInitialized.Load() {
		return &noopLogContext{}
	}
	return &logContext{context: cl.logger.With(), service: cl.parent}
}

// noopLogContext is a no-op implementation of LogContext
type noopLogContext struct{}

func (n *noopLogContext) Str(string, string) LogContext    { return n }
func (n *noopLogContext) Int(string, int) LogContext       { return n }
func (n *noopLogContext) Bool(string, bool) LogContext     { return n }
func (n *noopLogContext) Err(error) LogContext             { return n }
func (n *noopLogContext) Interface(string, any) LogContext { return n }
func (n *noopLogContext) Logger() EventLogger              { return &noopLogger{} }

// noopLogger is a no-op implementation of EventLogger
type noopLogger struct{}

func (n *noopLogger) TraceWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) DebugWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) InfoWith() LogEvent  { return newLogEvent(nil) }
func (n *noopLogger) WarnWith() LogEvent  { return newLogEvent(nil) }
func (n *noopLogger) ErrorWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) FatalWith() LogEvent { return newLogEvent(nil) }
func (n *noopLogger) With() LogContext    { return &noopLogContext{} }
