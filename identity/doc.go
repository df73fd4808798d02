// Package identity holds the principal model consumed by scoped loggers and
// the pure helpers that extract log-relevant fields from it: user id,
// display name, anonymous detection and application (non-framework) claims.
//
// None of the helpers fail. Missing claims yield "not found" and a nil
// principal is treated as anonymous.
package identity
