package scopedlog

import (
	"context"
	stderrs "errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Station-Manager/scopedlog/identity"
)

// Resolver yields the principal of the current actor. A resolver may be
// expensive or stateful; ScopedLoggerFactory calls it at most once per
// successful resolution.
type Resolver interface {
	Resolve(ctx context.Context) (*identity.Principal, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (*identity.Principal, error)

func (f ResolverFunc) Resolve(ctx context.Context) (*identity.Principal, error) {
	return f(ctx)
}

var errNoSession = stderrs.New("no principal in context")

// ContextResolver resolves the principal stored with identity.WithPrincipal.
// Calling it outside a session context fails with ErrIdentityUnavailable.
type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) (*identity.Principal, error) {
	p, ok := identity.FromContext(ctx)
	if !ok {
		return nil, &IdentityUnavailableError{Cause: errNoSession}
	}
	return p, nil
}

// StaticResolver always yields the same principal.
func StaticResolver(p *identity.Principal) Resolver {
	return ResolverFunc(func(context.Context) (*identity.Principal, error) {
		return p, nil
	})
}

// Authenticator extracts the principal of an HTTP request.
type Authenticator func(r *http.Request) (*identity.Principal, error)

const bearerScheme = "Bearer"

// BearerAuthenticator validates an "Authorization: Bearer" JWT with keyfunc.
// Requests without the header are anonymous. A malformed or invalid token
// is an error, not an anonymous actor.
func BearerAuthenticator(keyfunc jwt.Keyfunc, opts ...jwt.ParserOption) Authenticator {
	return func(r *http.Request) (*identity.Principal, error) {
		header := r.Header.Get("Authorization")
		if header == emptyString {
			return identity.Anonymous(), nil
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, bearerScheme) || strings.TrimSpace(token) == emptyString {
			return nil, &IdentityUnavailableError{Cause: stderrs.New("malformed authorization header")}
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, keyfunc, opts...); err != nil {
			return nil, &IdentityUnavailableError{Cause: err}
		}
		return identity.FromJWTClaims(claims, bearerScheme), nil
	}
}

// RequestResolver binds authn to a single request.
func RequestResolver(r *http.Request, authn Authenticator) Resolver {
	return ResolverFunc(func(context.Context) (*identity.Principal, error) {
		return authn(r)
	})
}
