package resolver

import (
	"context"
	"errors"
	"time"

	"ghibli-service/internal/auth/oauth"
	"ghibli-service/internal/docstore"

	"github.com/google/uuid"
)

// Resolver determines which internal user an external OAuth identity
// belongs to. It is the only place where identity-to-user mapping
// logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *oauth.Identity) (userID string, err error)
}

// DocResolver maps identities through the document store: one mapping
// document per (provider, provider_user_id) at
// identities/{provider}/users/{provider_user_id}. Point reads and
// writes only.
type DocResolver struct {
	store docstore.Store
}

func NewDocResolver(store docstore.Store) *DocResolver {
	return &DocResolver{store: store}
}

func (r *DocResolver) Resolve(ctx context.Context, identity *oauth.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("resolver: identity is nil")
	}

	path, err := docstore.Path("identities", identity.Provider, "users", identity.ProviderUserID)
	if err != nil {
		return "", err
	}

	doc, err := r.store.Get(ctx, path)
	if err == nil {
		if uid, ok := doc.Fields["user_id"].(string); ok && uid != "" {
			return uid, nil
		}
		return "", errors.New("resolver: identity mapping missing user_id")
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return "", err
	}

	// First sign-in through this provider: mint a new user.
	uid := uuid.NewString()

	if err := r.store.Set(ctx, path, map[string]any{
		"user_id":    uid,
		"email":      identity.Email,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return "", err
	}

	return uid, nil
}
