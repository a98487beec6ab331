package favorites

import (
	"context"
	"sync"
	"time"

	"ghibli-service/internal/auth"
	"ghibli-service/internal/catalog"
	"ghibli-service/internal/docstore"
	"ghibli-service/internal/logger"
)

// Synchronizer keeps a local projection of the signed-in user's
// favorite-film set. The document store is the source of truth; the
// in-memory id set is a cache of it, refreshed wholesale on every
// session change and mutated locally only after a remote write has
// confirmed.
//
// Every session transition bumps a generation counter and cancels the
// in-flight reload. A reload (or mutation) result is applied only if
// the generation at completion still matches the one captured at
// request time; results of superseded requests are discarded.
type Synchronizer struct {
	store docstore.Store

	mu      sync.Mutex
	uid     string
	ids     map[string]struct{}
	loading bool
	gen     uint64
	cancel  context.CancelFunc

	refreshEvery time.Duration
	stopRefresh  chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithRefreshInterval enables periodic full reloads so favorites
// written from another device eventually converge. Zero keeps the
// default: reload only on session change.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.refreshEvery = d }
}

func New(store docstore.Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:       store,
		ids:         make(map[string]struct{}),
		stopRefresh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.refreshEvery > 0 {
		s.wg.Add(1)
		go s.refreshLoop()
	}
	return s
}

// HandleSessionChange is wired as a tracker observer. Same-user
// notifications (token refresh) are ignored; any identity change
// discards the current set and, for a present session, starts a fresh
// full reload.
func (s *Synchronizer) HandleSessionChange(sess *auth.Session) {
	s.mu.Lock()

	newUID := ""
	if sess != nil {
		newUID = sess.UID
	}
	if newUID == s.uid {
		s.mu.Unlock()
		return
	}

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.uid = newUID
	s.ids = make(map[string]struct{})

	if newUID == "" {
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.loading = true
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.reload(ctx, newUID, gen)
	}()
}

func (s *Synchronizer) reload(ctx context.Context, uid string, gen uint64) {
	docs, err := s.store.List(ctx, "profiles/"+uid+"/favoriteFilms")

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer session transition superseded this reload.
		return
	}

	s.loading = false
	s.ids = make(map[string]struct{})

	if err != nil {
		logger.Error("favorites reload failed", map[string]any{
			"user_id": uid,
			"error":   err.Error(),
		})
		return
	}

	for _, doc := range docs {
		s.ids[doc.ID] = struct{}{}
	}
}

// IsFavorite answers from the local cache; no I/O. It may be stale
// while a remote mutation is in flight.
func (s *Synchronizer) IsFavorite(filmID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[filmID]
	return ok
}

// IDs returns a snapshot of the favorite film ids.
func (s *Synchronizer) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// Loading reports whether a reload or mutation is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Add persists a favorite entry for the current user, then inserts the
// film id locally. Adding a film that is already a favorite is a no-op
// with no remote write.
func (s *Synchronizer) Add(ctx context.Context, film catalog.Film) error {
	s.mu.Lock()
	if s.uid == "" {
		s.mu.Unlock()
		return auth.ErrNoSession
	}
	if _, ok := s.ids[film.ID]; ok {
		s.mu.Unlock()
		return nil
	}
	uid := s.uid
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	path, err := docstore.Path("profiles", uid, "favoriteFilms", film.ID)
	if err != nil {
		s.settleMutation(gen, "", false)
		return err
	}

	err = s.store.Set(ctx, path, map[string]any{
		"title":        film.Title,
		"image":        film.Image,
		"release_date": film.ReleaseDate,
		"added_at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.settleMutation(gen, "", false)
		return err
	}

	s.settleMutation(gen, film.ID, true)
	return nil
}

// Remove deletes the favorite entry, then drops the film id locally.
// Removing a film that is not a favorite is a no-op with no remote
// delete.
func (s *Synchronizer) Remove(ctx context.Context, filmID string) error {
	s.mu.Lock()
	if s.uid == "" {
		s.mu.Unlock()
		return auth.ErrNoSession
	}
	if _, ok := s.ids[filmID]; !ok {
		s.mu.Unlock()
		return nil
	}
	uid := s.uid
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	path, err := docstore.Path("profiles", uid, "favoriteFilms", filmID)
	if err != nil {
		s.settleMutation(gen, "", false)
		return err
	}

	if err := s.store.Delete(ctx, path); err != nil {
		s.settleMutation(gen, "", false)
		return err
	}

	s.settleMutation(gen, filmID, false)
	return nil
}

// settleMutation clears the loading flag and applies the local set
// change, unless the session generation moved on while the remote
// operation was in flight.
func (s *Synchronizer) settleMutation(gen uint64, filmID string, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}

	s.loading = false
	if filmID == "" {
		return
	}
	if add {
		s.ids[filmID] = struct{}{}
	} else {
		delete(s.ids, filmID)
	}
}

// Refresh forces a full reload of the current user's favorites. No-op
// when signed out.
func (s *Synchronizer) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.uid == "" {
		s.mu.Unlock()
		return
	}
	uid := s.uid
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	s.reload(ctx, uid, gen)
}

func (s *Synchronizer) refreshLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh(context.Background())
		case <-s.stopRefresh:
			return
		}
	}
}

// Close cancels any in-flight reload and stops the refresh loop.
func (s *Synchronizer) Close() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
		close(s.stopRefresh)
	})
	s.wg.Wait()
}
