package identity

// Descriptor is the resolved identity attached to log entries. It is a
// value type with unexported fields and cannot be modified once built.
type Descriptor struct {
	userID        string
	hasUserID     bool
	displayName   string
	authenticated bool
}

// Describe extracts the descriptor for p. A nil principal describes the
// anonymous actor.
func Describe(p *Principal) Descriptor {
	id, ok := UserID(p)
	return Descriptor{
		userID:        id,
		hasUserID:     ok,
		displayName:   DisplayName(p),
		authenticated: !IsAnonymous(p),
	}
}

// NewDescriptor builds a descriptor directly. An empty displayName falls
// back to AnonymousName. A descriptor with a user id is authenticated.
func NewDescriptor(userID string, hasUserID bool, displayName string) Descriptor {
	if displayName == "" {
		displayName = AnonymousName
	}
	if !hasUserID {
		userID = ""
	}
	return Descriptor{userID: userID, hasUserID: hasUserID, displayName: displayName, authenticated: hasUserID}
}

// UserID returns the name-identifier claim, if the principal had one.
func (d Descriptor) UserID() (string, bool) {
	return d.userID, d.hasUserID
}

// DisplayName never returns an empty string.
func (d Descriptor) DisplayName() string {
	if d.displayName == "" {
		return AnonymousName
	}
	return d.displayName
}

// IsAnonymous reports whether the described principal was unauthenticated.
// An authenticated principal may still lack a user id.
func (d Descriptor) IsAnonymous() bool {
	return !d.authenticated
}
