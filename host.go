package scopedlog

import (
	"context"
	"net/http"
)

// HostContext is what the hosting layer knows about the current render
// pass. Request headers exist only during the first (pre-render) pass.
type HostContext struct {
	preRender bool
	header    http.Header
}

// NewHostContext returns the first-pass context for r.
func NewHostContext(r *http.Request) *HostContext {
	if r == nil {
		return &HostContext{}
	}
	return &HostContext{preRender: true, header: r.Header.Clone()}
}

// Detach returns the context for later passes, which have no request.
func (h *HostContext) Detach() *HostContext {
	return &HostContext{}
}

// IsPreRender reports whether this is the first pass. Only meaningful
// during initialization.
func (h *HostContext) IsPreRender() bool {
	return h != nil && h.preRender
}

// RequestUserAgent returns the client's User-Agent during the first pass
// and "" otherwise.
func (h *HostContext) RequestUserAgent() string {
	if !h.IsPreRender() {
		return emptyString
	}
	return h.header.Get("User-Agent")
}

type sessionKey struct{}

type session struct {
	factory *ScopedLoggerFactory
	host    *HostContext
}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

// FactoryFromContext returns the factory installed by SessionMiddleware.
func FactoryFromContext(ctx context.Context) (*ScopedLoggerFactory, bool) {
	s := sessionFrom(ctx)
	if s == nil || s.factory == nil {
		return nil, false
	}
	return s.factory, true
}

// HostFromContext returns the host context installed by SessionMiddleware.
func HostFromContext(ctx context.Context) (*HostContext, bool) {
	s := sessionFrom(ctx)
	if s == nil || s.host == nil {
		return nil, false
	}
	return s.host, true
}
