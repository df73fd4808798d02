package scopedlog

import (
	"context"

	"github.com/Station-Manager/errors"

	"github.com/Station-Manager/scopedlog/identity"
)

// Component is the initialization hook for UI components and session
// handlers that need the current principal and a scoped logger. Embed it
// and call Initialize once from the host's init callback.
type Component struct {
	principal *identity.Principal
	logger    *ScopedLogger
	host      *HostContext
}

// Initialize resolves the principal with auth and obtains a logger whose
// category is the dynamic type of self, so an embedding type logs under its
// own name.
func (c *Component) Initialize(ctx context.Context, self any, factory *ScopedLoggerFactory, auth Resolver, host *HostContext) error {
	const op errors.Op = "scopedlog.Component.Initialize"
	if factory == nil {
		return errors.New(op).Msg(errMsgNilLoggerFactory)
	}
	if auth == nil {
		return errors.New(op).Msg(errMsgNilResolver)
	}

	c.host = host

	p, err := auth.Resolve(ctx)
	if err != nil {
		return identityUnavailable(factory.ScopeID(), err)
	}
	c.principal = p

	if self == nil {
		self = c
	}
	logger, err := factory.GetLoggerFor(ctx, self)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// Principal is the logged in actor, anonymous until Initialize succeeds.
func (c *Component) Principal() *identity.Principal {
	if c.principal == nil {
		return identity.Anonymous()
	}
	return c.principal
}

// Logger is nil until Initialize succeeds.
func (c *Component) Logger() *ScopedLogger {
	return c.logger
}

// IsPreRender is true during the first render pass. Only call it from the
// initialization path.
func (c *Component) IsPreRender() bool {
	return c.host.IsPreRender()
}

// RequestUserAgent is only available during the pre-render pass.
func (c *Component) RequestUserAgent() string {
	return c.host.RequestUserAgent()
}
