package auth

import "errors"

// Session is the authenticated-identity value for the current user.
// A nil *Session means unauthenticated; that is a valid state, not an
// error. Exactly one session value is live at a time.
type Session struct {
	UID   string // stable unique user identifier
	Email string // optional
}

// SameUser reports whether two session values refer to the same user
// identity. Both nil counts as same (still signed out).
func SameUser(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UID == b.UID
}

// Identity-operation errors, classified the way the provider reports
// them. The HTTP layer maps these to user-facing responses; nothing
// in the core branches on their text.
var (
	ErrInvalidCredential      = errors.New("auth: invalid credentials")
	ErrEmailAlreadyRegistered = errors.New("auth: email already registered")
	ErrMalformedEmail         = errors.New("auth: malformed email address")
	ErrWeakCredential         = errors.New("auth: password too weak")
	ErrNoSession              = errors.New("auth: no active session")
)
