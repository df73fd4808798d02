package scopedlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Service is the zerolog-backed sink. It serves the structured event API
// directly and creates category loggers for scoped logging.
type Service struct {
	WorkingDir string
	Config     *Config
	// Output is an optional extra writer that receives every entry.
	Output io.Writer

	config        Config
	logger        atomic.Pointer[zerolog.Logger]
	isInitialized atomic.Bool
	activeOps     atomic.Int32
	wg            sync.WaitGroup
	mu            sync.RWMutex
	fileWriter    *lumberjack.Logger
}

// NewService returns an uninitialized Service for cfg.
func NewService(workingDir string, cfg *Config) *Service {
	return &Service{WorkingDir: workingDir, Config: cfg}
}

// Initialize validates the config and builds the logger. Calling it again
// after success is a no-op.
func (s *Service) Initialize() error {
	const op errors.Op = "scopedlog.Service.Initialize"
	if s == nil {
		return errors.New(op).Msg(errMsgNilService)
	}
	if s.Config == nil {
		return errors.New(op).Msg(errMsgAppCfgNotSet)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isInitialized.Load() {
		return nil
	}

	if err := validateConfig(s.Config); err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	s.config = *s.Config

	level, err := parseLevel(s.config.Level)
	if err != nil {
		return errors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}

	if s.config.FileLogging {
		dir := filepath.Join(s.WorkingDir, s.config.RelLogFileDir)
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(op).Err(err).Msg("Failed to create logs directory.")
		}
	}

	writers := s.initializeWriters()
	if len(writers) == 0 {
		return errors.New(op).Msg(errMsgNoChannels)
	}

	var out io.Writer = writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level)
	if s.config.WithTimestamp {
		logger = logger.With().Timestamp().Logger()
	}
	if s.config.SkipFrameCount > 0 {
		logger = logger.With().CallerWithSkipFrameCount(s.config.SkipFrameCount).Logger()
	}

	s.logger.Store(&logger)
	s.isInitialized.Store(true)
	return nil
}

// Close stops accepting new events, waits up to ShutdownTimeoutMS for
// in-flight events and closes the log file. It is safe to call Close
// multiple times.
func (s *Service) Close() error {
	const op errors.Op = "scopedlog.Service.Close"
	if s == nil {
		return nil
	}

	s.mu.Lock()
	if !s.isInitialized.Load() {
		s.mu.Unlock()
		return nil
	}
	s.isInitialized.Store(false)
	s.mu.Unlock()

	timeout := time.Duration(s.config.ShutdownTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutMS * time.Millisecond
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		if s.config.ShutdownTimeoutWarning {
			_, _ = fmt.Fprintf(os.Stderr, "scopedlog: close timed out with %d active operations\n", s.activeOps.Load())
		}
	}

	if s.fileWriter != nil {
		if err := s.fileWriter.Close(); err != nil {
			return errors.New(op).Err(err).Msg("Failed to close log file.")
		}
	}
	return nil
}

// ActiveOperations returns the number of events opened but not yet sent.
func (s *Service) ActiveOperations() int32 {
	return s.activeOps.Load()
}

// IsEnabled reports whether an entry at level would be written.
func (s *Service) IsEnabled(level zerolog.Level) bool {
	if s == nil || !s.isInitialized.Load() {
		return false
	}
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return false
	}
	logger := s.logger.Load()
	if logger == nil {
		return false
	}
	return level >= logger.GetLevel() && level >= zerolog.GlobalLevel()
}

// Hook installs zerolog hooks on the current logger.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	for s.isInitialized.Load() {
		current := s.logger.Load()
		if current == nil {
			return
		}
		hooked := current.Hook(hooks...)
		if s.logger.CompareAndSwap(current, &hooked) {
			return
		}
	}
}

// CreateLogger returns a Logger for category that writes through s. Each
// call returns a new logger with its own scope stack; share one only
// between goroutines that should see each other's scopes.
func (s *Service) CreateLogger(category Category) Logger {
	return newCategoryLogger(s, category)
}

func (s *Service) TraceWith() LogEvent { return s.buildEvent(nil, zerolog.TraceLevel) }
func (s *Service) DebugWith() LogEvent { return s.buildEvent(nil, zerolog.DebugLevel) }

// InfoWith returns a LogEvent for structured Info-level logging.
// Example: logger.InfoWith().Str("user_id", id).Int("count", 5).Msg("User processed")
func (s *Service) InfoWith() LogEvent { return s.buildEvent(nil, zerolog.InfoLevel) }
func (s *Service) WarnWith() LogEvent { return s.buildEvent(nil, zerolog.WarnLevel) }

// ErrorWith returns a LogEvent for structured Error-level logging.
// Example: logger.ErrorWith().Err(err).Str("operation", "database").Msg("Query failed")
func (s *Service) ErrorWith() LogEvent { return s.buildEvent(nil, zerolog.ErrorLevel) }

// FatalWith returns a LogEvent for structured Fatal-level logging.
// The program will exit after the log is written.
func (s *Service) FatalWith() LogEvent { return s.buildEvent(nil, zerolog.FatalLevel) }

// With returns a LogContext for creating a child logger with pre-populated fields.
func (s *Service) With() LogContext {
	if s == nil || !s.isInitialized.Load() {
		return &noopLogContext{}
	}
	logger := s.logger.Load()
	if logger == nil {
		return &noopLogContext{}
	}
	return &logContext{context: logger.With(), service: s}
}

// buildEvent opens a tracked event at level on logger, or on the service
// logger when logger is nil. The event holds a slot in the in-flight
// counter until it is sent so Close can wait for it. Disabled levels and
// closed services yield a no-op event.
func (s *Service) buildEvent(logger *zerolog.Logger, level zerolog.Level) LogEvent {
	if s == nil || !s.isInitialized.Load() || level == zerolog.NoLevel {
		return newLogEvent(nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Close flips the flag under the write lock, so after this check no Add
	// can race with its Wait.
	if !s.isInitialized.Load() {
		return newLogEvent(nil)
	}
	if logger == nil {
		logger = s.logger.Load()
		if logger == nil {
			return newLogEvent(nil)
		}
	}
	if logger.GetLevel() > level {
		return newLogEvent(nil)
	}

	s.activeOps.Add(1)
	s.wg.Add(1)
	return newTrackedLogEvent(zerologEvent(logger, level), s.release)
}

func (s *Service) release() {
	s.activeOps.Sub(1)
	s.wg.Done()
}
