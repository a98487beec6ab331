package oauth

import (
	"context"
	"fmt"
)

// Identity is the normalized external authentication identity returned
// by an OAuth provider. Facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // verified email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
}

// Provider is the contract every external OAuth provider implements.
// Implementations return identity facts only; user resolution and
// session management happen elsewhere.
type Provider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL. State and PKCE
	// parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider
	// credentials and returns a normalized identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*Identity, error)
}

// Registry holds the configured OAuth providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers. Names must be unique.
func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider by name or an error if not registered.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// Empty reports whether no provider is configured.
func (r *Registry) Empty() bool {
	return len(r.providers) == 0
}
