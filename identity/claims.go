package identity

import (
	"strings"

	"github.com/samber/lo"
)

const (
	// AnonymousName is the display name used for an actor with no name claim.
	AnonymousName = "Anonymous"

	ClaimTypeNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	ClaimTypeName           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"

	nameIdentifierMarker = "nameidentifier"
	shortNameClaim       = "name"
)

// Claim prefixes reserved for the authentication framework. Claims carrying
// them are hidden from application code.
var frameworkClaimPrefixes = []string{"http", "AspNet"}

// Claim is a single type/value pair issued by the authentication subsystem.
type Claim struct {
	Type  string
	Value string
}

// Principal is the actor yielded by the authentication subsystem. An empty
// AuthenticationType means the actor is not authenticated.
type Principal struct {
	AuthenticationType string
	Claims             []Claim
}

// Anonymous returns a new unauthenticated principal with no claims.
func Anonymous() *Principal {
	return &Principal{}
}

// IsAnonymous reports whether p carries no authenticated principal.
func IsAnonymous(p *Principal) bool {
	return p == nil || p.AuthenticationType == ""
}

// UserID returns the value of the first name-identifier claim.
func UserID(p *Principal) (string, bool) {
	if p == nil {
		return "", false
	}
	c, ok := lo.Find(p.Claims, func(c Claim) bool {
		return strings.Contains(c.Type, nameIdentifierMarker)
	})
	if !ok {
		return "", false
	}
	return c.Value, true
}

// Name returns the value of the first name claim.
func Name(p *Principal) (string, bool) {
	if p == nil {
		return "", false
	}
	c, ok := lo.Find(p.Claims, func(c Claim) bool {
		return c.Type == ClaimTypeName || c.Type == shortNameClaim
	})
	if !ok {
		return "", false
	}
	return c.Value, true
}

// DisplayName returns the principal's name, or AnonymousName when absent.
func DisplayName(p *Principal) string {
	if name, ok := Name(p); ok {
		return name
	}
	return AnonymousName
}

// AppClaims returns the claims that do not belong to the authentication
// framework. Prefix matching is case-sensitive.
func AppClaims(p *Principal) []Claim {
	if p == nil {
		return []Claim{}
	}
	return lo.Filter(p.Claims, func(c Claim, _ int) bool {
		return !lo.SomeBy(frameworkClaimPrefixes, func(prefix string) bool {
			return strings.HasPrefix(c.Type, prefix)
		})
	})
}
