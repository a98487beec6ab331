package catalog

import (
	"context"
	"sync"
	"time"

	"ghibli-service/internal/logger"
)

// Loader performs the one-shot concurrent load of the three catalog
// collections. Each collection settles independently: a failed fetch
// leaves the other two untouched. There is no refresh; the catalog is
// small and effectively static for the life of the process.
type Loader struct {
	client   *Client
	attempts int

	once sync.Once

	mu        sync.RWMutex
	films     collectionState[Film]
	people    collectionState[Person]
	locations collectionState[Location]
}

type collectionState[T any] struct {
	items   []T
	loading bool
	err     string
}

// Collection is the snapshot handed to consumers: items in server
// order, a loading flag, and the error message of a failed fetch
// (empty when none).
type Collection[T any] struct {
	Items   []T
	Loading bool
	Err     string
}

func NewLoader(client *Client, attempts int) *Loader {
	if attempts < 1 {
		attempts = 1
	}
	return &Loader{
		client:    client,
		attempts:  attempts,
		films:     collectionState[Film]{loading: true},
		people:    collectionState[Person]{loading: true},
		locations: collectionState[Location]{loading: true},
	}
}

// Start fires the three fetches concurrently. Subsequent calls are
// no-ops; the load happens once per process.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.loadFilms(ctx)
		go l.loadPeople(ctx)
		go l.loadLocations(ctx)
	})
}

func (l *Loader) loadFilms(ctx context.Context) {
	items, err := retry(ctx, l.attempts, l.client.Films)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.films = settle("films", items, err)
}

func (l *Loader) loadPeople(ctx context.Context) {
	items, err := retry(ctx, l.attempts, l.client.People)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.people = settle("people", items, err)
}

func (l *Loader) loadLocations(ctx context.Context) {
	items, err := retry(ctx, l.attempts, l.client.Locations)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locations = settle("locations", items, err)
}

func settle[T any](name string, items []T, err error) collectionState[T] {
	if err != nil {
		logger.Error("catalog collection failed to load", map[string]any{
			"collection": name,
			"error":      err.Error(),
		})
		return collectionState[T]{items: nil, err: err.Error()}
	}

	logger.Info("catalog collection loaded", map[string]any{
		"collection": name,
		"count":      len(items),
	})
	return collectionState[T]{items: items}
}

func retry[T any](ctx context.Context, attempts int, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(i) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		items, err := fetch(ctx)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (l *Loader) Films() Collection[Film] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Collection[Film]{Items: l.films.items, Loading: l.films.loading, Err: l.films.err}
}

func (l *Loader) People() Collection[Person] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Collection[Person]{Items: l.people.items, Loading: l.people.loading, Err: l.people.err}
}

func (l *Loader) Locations() Collection[Location] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Collection[Location]{Items: l.locations.items, Loading: l.locations.loading, Err: l.locations.err}
}

// Film returns the loaded film with the given id, if any.
func (l *Loader) Film(id string) (Film, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, f := range l.films.items {
		if f.ID == id {
			return f, true
		}
	}
	return Film{}, false
}
