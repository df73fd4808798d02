package scopedlog

import "net/http"

// RequestIDHeader names the header whose value becomes the scope id.
const RequestIDHeader = "X-Request-Id"

// SessionMiddleware makes each request an owning scope. It installs a
// ScopedLoggerFactory that resolves the principal with authn on first use,
// plus the first-pass HostContext.
func SessionMiddleware(loggers LoggerFactory, authn Authenticator, opts ...FactoryOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			factoryOpts := append([]FactoryOption{WithScopeID(r.Header.Get(RequestIDHeader))}, opts...)
			factory, err := NewScopedLoggerFactory(loggers, RequestResolver(r, authn), factoryOpts...)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			ctx := withSession(r.Context(), &session{factory: factory, host: NewHostContext(r)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
