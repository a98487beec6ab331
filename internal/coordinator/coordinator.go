package coordinator

import (
	"context"

	"ghibli-service/internal/auth"
	"ghibli-service/internal/auth/provider"
	"ghibli-service/internal/catalog"
	"ghibli-service/internal/favorites"
)

// Coordinator is the single shared state object presentation
// collaborators consume: the auth state tracker, the one-shot catalog
// loader, and the favorites synchronizer, wired together. The session
// value gates favorites; the catalog is independent of auth.
//
// Lifecycle is explicit: construct, Init once, Close on teardown. No
// package-level singleton.
type Coordinator struct {
	provider  provider.Provider
	tracker   *auth.Tracker
	loader    *catalog.Loader
	favorites *favorites.Synchronizer
}

// New wires the three sub-machines. A nil identity provider degrades
// the coordinator to unauthenticated-only mode: auth loading reports
// false, the session stays absent, and favorites never touch the
// store.
func New(p provider.Provider, loader *catalog.Loader, favs *favorites.Synchronizer) *Coordinator {
	var sub auth.Subscriber
	if p != nil {
		sub = p
	}

	tracker := auth.NewTracker(sub)
	tracker.Observe(favs.HandleSessionChange)

	return &Coordinator{
		provider:  p,
		tracker:   tracker,
		loader:    loader,
		favorites: favs,
	}
}

// Init starts the catalog load and the provider subscription. The
// catalog fetches race each other; auth state arrives on its own
// stream.
func (c *Coordinator) Init(ctx context.Context) {
	c.loader.Start(ctx)
	c.tracker.Start()
}

// Close tears the coordinator down: unsubscribes from the provider and
// cancels any in-flight favorites work.
func (c *Coordinator) Close() {
	c.tracker.Close()
	c.favorites.Close()
}

// --- auth state ---

func (c *Coordinator) Session() *auth.Session { return c.tracker.Session() }
func (c *Coordinator) AuthLoading() bool      { return c.tracker.Loading() }

func (c *Coordinator) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if c.provider == nil {
		return nil, auth.ErrNoSession
	}
	return c.provider.SignIn(ctx, email, password)
}

func (c *Coordinator) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	if c.provider == nil {
		return nil, auth.ErrNoSession
	}
	return c.provider.SignUp(ctx, email, password)
}

func (c *Coordinator) SignOut(ctx context.Context) error {
	if c.provider == nil {
		return nil
	}
	return c.provider.SignOut(ctx)
}

// SessionAdopter is implemented by providers that can accept an
// externally resolved identity (OAuth sign-in) as the current session.
type SessionAdopter interface {
	Adopt(*auth.Session)
}

// AdoptSession hands an externally authenticated session to the
// provider, which notifies the tracker like any other sign-in. Ignored
// in degraded mode.
func (c *Coordinator) AdoptSession(sess *auth.Session) {
	if a, ok := c.provider.(SessionAdopter); ok {
		a.Adopt(sess)
	}
}

// --- catalog ---

func (c *Coordinator) Films() catalog.Collection[catalog.Film]         { return c.loader.Films() }
func (c *Coordinator) People() catalog.Collection[catalog.Person]      { return c.loader.People() }
func (c *Coordinator) Locations() catalog.Collection[catalog.Location] { return c.loader.Locations() }

func (c *Coordinator) Film(id string) (catalog.Film, bool) { return c.loader.Film(id) }

// --- favorites ---

func (c *Coordinator) FavoriteIDs() []string         { return c.favorites.IDs() }
func (c *Coordinator) FavoritesLoading() bool        { return c.favorites.Loading() }
func (c *Coordinator) IsFavorite(filmID string) bool { return c.favorites.IsFavorite(filmID) }

func (c *Coordinator) AddFavorite(ctx context.Context, film catalog.Film) error {
	return c.favorites.Add(ctx, film)
}

func (c *Coordinator) RemoveFavorite(ctx context.Context, filmID string) error {
	return c.favorites.Remove(ctx, filmID)
}

func (c *Coordinator) RefreshFavorites(ctx context.Context) {
	c.favorites.Refresh(ctx)
}
