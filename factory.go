package scopedlog

import (
	"context"

	"github.com/Station-Manager/errors"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"github.com/Station-Manager/scopedlog/identity"
)

// ScopedLoggerFactory hands out ScopedLoggers for one owning scope (a
// session, connection or request). The identity is resolved on first use
// and cached for the lifetime of the factory; later changes to the
// principal, such as a renamed display name, are not observed. A user id
// cannot change within a scope, so the stale name still identifies the
// actor.
type ScopedLoggerFactory struct {
	loggers  LoggerFactory
	resolver Resolver
	scopeID  string
	diag     EventLogger

	group    singleflight.Group
	identity atomic.Pointer[identity.Descriptor]
}

// FactoryOption customizes factory construction.
type FactoryOption func(*ScopedLoggerFactory)

// WithScopeID sets the id reported in diagnostics and errors. A random
// UUID is used otherwise.
func WithScopeID(id string) FactoryOption {
	return func(f *ScopedLoggerFactory) {
		if id != emptyString {
			f.scopeID = id
		}
	}
}

// WithDiagnostics makes the factory report identity resolution on logger.
func WithDiagnostics(logger EventLogger) FactoryOption {
	return func(f *ScopedLoggerFactory) {
		if logger != nil {
			f.diag = logger
		}
	}
}

// NewScopedLoggerFactory creates the factory for one owning scope.
func NewScopedLoggerFactory(loggers LoggerFactory, resolver Resolver, opts ...FactoryOption) (*ScopedLoggerFactory, error) {
	const op errors.Op = "scopedlog.NewScopedLoggerFactory"
	if loggers == nil {
		return nil, errors.New(op).Msg(errMsgNilLoggerFactory)
	}
	if resolver == nil {
		return nil, errors.New(op).Msg(errMsgNilResolver)
	}

	f := &ScopedLoggerFactory{
		loggers:  loggers,
		resolver: resolver,
		diag:     &noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.scopeID == emptyString {
		f.scopeID = uuid.NewString()
	}
	return f, nil
}

// ScopeID identifies the owning scope in diagnostics and errors.
func (f *ScopedLoggerFactory) ScopeID() string {
	return f.scopeID
}

// GetLogger returns a new ScopedLogger for category. The first call resolves
// the identity; concurrent first calls share that single resolution. A
// failed resolution returns an error matching ErrIdentityUnavailable and
// leaves nothing cached, so the next call retries.
func (f *ScopedLoggerFactory) GetLogger(ctx context.Context, category Category) (*ScopedLogger, error) {
	d, err := f.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return NewScopedLogger(f.loggers.CreateLogger(category), d), nil
}

// GetLoggerFor is GetLogger with the category taken from v's type.
func (f *ScopedLoggerFactory) GetLoggerFor(ctx context.Context, v any) (*ScopedLogger, error) {
	return f.GetLogger(ctx, CategoryFor(v))
}

// Identity returns the cached descriptor, resolving it first if needed.
// Concurrent first callers share one resolution, which is not cancelled
// when a caller gives up; each caller still returns as soon as its own ctx
// is done. A resolver panic is re-raised in every caller waiting on it.
func (f *ScopedLoggerFactory) Identity(ctx context.Context) (identity.Descriptor, error) {
	if d := f.identity.Load(); d != nil {
		return *d, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(identityFlightKey, func() (any, error) {
		return f.resolve(shared)
	})

	select {
	case res := <-ch:
		if p, ok := res.Val.(resolverPanic); ok {
			panic(p.value)
		}
		if res.Err != nil {
			return identity.Descriptor{}, res.Err
		}
		return res.Val.(identity.Descriptor), nil
	case <-ctx.Done():
		return identity.Descriptor{}, identityUnavailable(f.scopeID, ctx.Err())
	}
}

// resolverPanic carries a recovered resolver panic out of the flight.
// singleflight.DoChan would otherwise crash the process.
type resolverPanic struct {
	value any
}

func (f *ScopedLoggerFactory) resolve(ctx context.Context) (v any, err error) {
	// a flight that finished between the load in Identity and DoChan already stored it
	if d := f.identity.Load(); d != nil {
		return *d, nil
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = resolverPanic{value: r}, nil
		}
	}()

	p, err := f.resolver.Resolve(ctx)
	if err != nil {
		err = identityUnavailable(f.scopeID, err)
		f.diag.ErrorWith().Err(err).Str("scope_id", f.scopeID).Msg("Identity resolution failed.")
		return nil, err
	}

	d := identity.Describe(p)
	f.identity.Store(&d)
	userID, _ := d.UserID()
	f.diag.DebugWith().
		Str("scope_id", f.scopeID).
		Str(UsernameFieldName, d.DisplayName()).
		Str(UserIDFieldName, userID).
		Bool("anonymous", d.IsAnonymous()).
		Msg("Identity resolved.")
	return d, nil
}

// GetLogger returns a ScopedLogger whose category is bound to T.
func GetLogger[T any](ctx context.Context, f *ScopedLoggerFactory) (*ScopedLogger, error) {
	return f.GetLogger(ctx, CategoryOf[T]())
}
