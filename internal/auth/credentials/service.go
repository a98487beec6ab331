package credentials

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"sync"

	"ghibli-service/internal/auth"
	"ghibli-service/internal/docstore"
	"ghibli-service/internal/logger"

	"github.com/google/uuid"
)

// Passwords shorter than this are rejected as weak.
const minPasswordLength = 6

// Service is the document-store-backed identity provider. Credential
// records live at credentials/{email}; the current session is held in
// memory and every change is pushed to subscribers in order.
type Service struct {
	store docstore.Store

	// notifyMu serializes session changes with their fan-out so every
	// subscriber sees transitions in the same order.
	notifyMu sync.Mutex

	mu      sync.Mutex
	current *auth.Session
	subs    map[int]func(*auth.Session)
	nextSub int
}

func NewService(store docstore.Store) *Service {
	return &Service{
		store: store,
		subs:  make(map[int]func(*auth.Session)),
	}
}

// Subscribe registers a session-change callback. The current session
// is delivered before Subscribe returns, which is what latches the
// tracker's loading flag.
func (s *Service) Subscribe(fn func(*auth.Session)) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, auth.ErrWeakCredential
	}

	path := credentialPath(email)

	_, err = s.store.Get(ctx, path)
	if err == nil {
		return nil, auth.ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}

	hash, version, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	uid := uuid.NewString()

	if err := s.store.Set(ctx, path, map[string]any{
		"user_id":       uid,
		"password_hash": hash,
		"hash_version":  version,
	}); err != nil {
		return nil, err
	}

	sess := &auth.Session{UID: uid, Email: email}
	s.establish(sess)

	logger.Info("user registered", map[string]any{"user_id": uid})
	return sess, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, credentialPath(email))
	if errors.Is(err, docstore.ErrNotFound) {
		// hide whether the account exists
		return nil, auth.ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}

	uid, _ := doc.Fields["user_id"].(string)
	hash, _ := doc.Fields["password_hash"].(string)
	if uid == "" || hash == "" {
		return nil, auth.ErrInvalidCredential
	}

	if err := verifyPassword(hash, password); err != nil {
		return nil, auth.ErrInvalidCredential
	}

	sess := &auth.Session{UID: uid, Email: email}
	s.establish(sess)

	return sess, nil
}

func (s *Service) SignOut(_ context.Context) error {
	s.establish(nil)
	return nil
}

// Adopt makes an externally resolved identity (an OAuth sign-in) the
// current session and notifies subscribers, exactly as a credential
// sign-in would.
func (s *Service) Adopt(sess *auth.Session) {
	s.establish(sess)
}

func (s *Service) establish(sess *auth.Session) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = sess
	fns := make([]func(*auth.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", auth.ErrMalformedEmail
	}
	return email, nil
}

func credentialPath(email string) string {
	// Escape so the address can never smuggle a path separator.
	return "credentials/" + url.PathEscape(email)
}
