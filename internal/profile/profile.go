package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ghibli-service/internal/docstore"
)

// Profile is the per-user document at profiles/{uid}.
type Profile struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	SignInCount  int    `json:"sign_in_count"`
	CreatedAt    string `json:"created_at"`
	LastSignInAt string `json:"last_sign_in_at"`
}

var ErrNotFound = errors.New("profile: not found")

// Service manages profile documents. Creation happens on sign-up;
// sign-in stamps last_sign_in_at and bumps the counter.
type Service struct {
	store docstore.Store
	now   func() time.Time
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, uid, email, username string) error {
	path, err := docstore.Path("profiles", uid)
	if err != nil {
		return err
	}

	now := s.now().UTC().Format(time.RFC3339)

	return s.store.Set(ctx, path, map[string]any{
		"email":           email,
		"username":        username,
		"sign_in_count":   0,
		"created_at":      now,
		"last_sign_in_at": now,
	})
}

// RecordSignIn increments sign_in_count and stamps last_sign_in_at.
// The profile is merge-created so accounts that predate profile
// documents still get one.
func (s *Service) RecordSignIn(ctx context.Context, uid, email string) error {
	path, err := docstore.Path("profiles", uid)
	if err != nil {
		return err
	}

	count := 0
	doc, err := s.store.Get(ctx, path)
	if err == nil {
		count = intField(doc.Fields, "sign_in_count")
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("profile: read %s: %w", uid, err)
	}

	return s.store.Merge(ctx, path, map[string]any{
		"email":           email,
		"sign_in_count":   count + 1,
		"last_sign_in_at": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) Get(ctx context.Context, uid string) (Profile, error) {
	path, err := docstore.Path("profiles", uid)
	if err != nil {
		return Profile{}, err
	}

	doc, err := s.store.Get(ctx, path)
	if errors.Is(err, docstore.ErrNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("profile: read %s: %w", uid, err)
	}

	p := Profile{
		UID:         uid,
		SignInCount: intField(doc.Fields, "sign_in_count"),
	}
	p.Email, _ = doc.Fields["email"].(string)
	p.Username, _ = doc.Fields["username"].(string)
	p.CreatedAt, _ = doc.Fields["created_at"].(string)
	p.LastSignInAt, _ = doc.Fields["last_sign_in_at"].(string)
	return p, nil
}

// intField tolerates the numeric types the store implementations
// round-trip: int from memory, float64 from jsonb.
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
