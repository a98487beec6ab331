package provider

import (
	"context"

	"ghibli-service/internal/auth"
)

// Provider is the identity service the coordinator authenticates
// against. Implementations deliver the current session to every new
// subscriber immediately, then again after each change, in order.
// Callbacks must be quick and must not call back into the provider.
type Provider interface {
	// Subscribe registers a session-change callback and returns the
	// function that cancels it. After unsubscribe returns, the
	// callback is never invoked again.
	Subscribe(fn func(*auth.Session)) (unsubscribe func())

	// SignIn authenticates an existing user and makes it the current
	// session. Failure leaves the current session unchanged.
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)

	// SignUp registers a new user and makes it the current session.
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)

	// SignOut clears the current session.
	SignOut(ctx context.Context) error
}
