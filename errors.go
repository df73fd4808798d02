package scopedlog

import (
	stderrs "errors"
)

// ErrIdentityUnavailable is matched by every error returned when the
// authentication subsystem could not produce a principal.
var ErrIdentityUnavailable = stderrs.New(errMsgIdentityUnavailable)

// IdentityUnavailableError reports a failed identity resolution for the
// owning scope ScopeID. Nothing is cached when it is returned.
type IdentityUnavailableError struct {
	ScopeID string
	Cause   error
}

func (e *IdentityUnavailableError) Error() string {
	if e.Cause == nil {
		return errMsgIdentityUnavailable
	}
	return errMsgIdentityUnavailable + ": " + e.Cause.Error()
}

func (e *IdentityUnavailableError) Unwrap() error {
	return e.Cause
}

func (e *IdentityUnavailableError) Is(target error) bool {
	return target == ErrIdentityUnavailable
}

// identityUnavailable wraps cause for scopeID. An IdentityUnavailableError
// returned by a resolver is kept, with its ScopeID filled in when empty.
func identityUnavailable(scopeID string, cause error) error {
	var existing *IdentityUnavailableError
	if stderrs.As(cause, &existing) && existing.ScopeID != emptyString {
		return cause
	}
	if e, ok := cause.(*IdentityUnavailableError); ok {
		return &IdentityUnavailableError{ScopeID: scopeID, Cause: e.Cause}
	}
	return &IdentityUnavailableError{ScopeID: scopeID, Cause: cause}
}
