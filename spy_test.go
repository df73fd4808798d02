package scopedlog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/Station-Manager/scopedlog/identity"
)

// spyEmission is one Log call seen by spyLogger together with the scopes
// open at the time.
type spyEmission struct {
	level    zerolog.Level
	eventID  EventID
	message  string
	err      error
	category Category
	scopes   []any
}

// spyLogger records push/pop balance and emissions. Setting panicOnLog makes
// Log panic after recording.
type spyLogger struct {
	category   Category
	panicOnLog any
	disabled   bool

	mu        sync.Mutex
	open      []any
	pushes    int
	pops      int
	emissions []spyEmission
}

func (s *spyLogger) Log(level zerolog.Level, eventID EventID, state any, err error, formatter Formatter) {
	msg := MessageFormatter(state, err)
	if formatter != nil {
		msg = formatter(state, err)
	}
	s.mu.Lock()
	scopes := append([]any(nil), s.open...)
	s.emissions = append(s.emissions, spyEmission{
		level: level, eventID: eventID, message: msg, err: err, category: s.category, scopes: scopes,
	})
	s.mu.Unlock()
	if s.panicOnLog != nil {
		panic(s.panicOnLog)
	}
}

func (s *spyLogger) BeginScope(state any) func() {
	s.mu.Lock()
	s.open = append(s.open, state)
	s.pushes++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.open = s.open[:len(s.open)-1]
			s.pops++
		})
	}
}

func (s *spyLogger) IsEnabled(zerolog.Level) bool {
	return !s.disabled
}

func (s *spyLogger) balance() (pushes, pops, open int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes, s.pops, len(s.open)
}

func (s *spyLogger) recorded() []spyEmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spyEmission(nil), s.emissions...)
}

// spyFactory hands out spyLoggers and remembers them.
type spyFactory struct {
	mu      sync.Mutex
	loggers []*spyLogger
}

func (f *spyFactory) CreateLogger(category Category) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &spyLogger{category: category}
	f.loggers = append(f.loggers, l)
	return l
}

func (f *spyFactory) created() []*spyLogger {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*spyLogger(nil), f.loggers...)
}

// countingResolver counts calls and optionally blocks until released.
type countingResolver struct {
	calls     atomic.Int32
	principal *identity.Principal
	err       error
	gate      chan struct{}

	mu sync.Mutex
}

func (r *countingResolver) Resolve(ctx context.Context) (*identity.Principal, error) {
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.principal, r.err
}

func (r *countingResolver) set(p *identity.Principal, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.principal, r.err = p, err
}

func alicePrincipal() *identity.Principal {
	return &identity.Principal{
		AuthenticationType: "Cookies",
		Claims: []identity.Claim{
			{Type: identity.ClaimTypeNameIdentifier, Value: "u42"},
			{Type: identity.ClaimTypeName, Value: "alice"},
		},
	}
}
