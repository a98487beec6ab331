package auth

import (
	"sync"

	"ghibli-service/internal/logger"
)

// Subscriber is the narrow slice of the identity provider the tracker
// needs: the change-notification stream.
type Subscriber interface {
	Subscribe(fn func(*Session)) (unsubscribe func())
}

// Tracker owns the provider subscription and exposes the single
// current-session value plus the auth-loading flag.
//
// Loading starts true and latches false on the first notification,
// whatever its value; it never goes back to true. Registered observers
// run serially on the tracker's goroutine, in notification order, so
// downstream state machines see session transitions one at a time.
type Tracker struct {
	provider Subscriber

	mu      sync.RWMutex
	session *Session
	loading bool

	observers []func(*Session)

	ch    chan *Session
	unsub func()
	done  chan struct{}
	wg    sync.WaitGroup
	start sync.Once
	stop  sync.Once
}

// NewTracker builds a tracker for the given provider. A nil provider
// is the degraded mode: Start marks the tracker ready immediately and
// the session stays absent for the life of the process.
func NewTracker(p Subscriber) *Tracker {
	return &Tracker{
		provider: p,
		loading:  true,
		ch:       make(chan *Session, 16),
		done:     make(chan struct{}),
	}
}

// Observe registers a session-change observer. Must be called before
// Start.
func (t *Tracker) Observe(fn func(*Session)) {
	t.observers = append(t.observers, fn)
}

// Start subscribes to the provider and begins consuming notifications.
func (t *Tracker) Start() {
	t.start.Do(func() {
		if t.provider == nil {
			logger.Warn("identity provider unavailable, running unauthenticated-only", nil)
			t.mu.Lock()
			t.loading = false
			t.mu.Unlock()
			return
		}

		t.wg.Add(1)
		go t.run()

		t.unsub = t.provider.Subscribe(func(s *Session) {
			select {
			case t.ch <- s:
			case <-t.done:
			}
		})
	})
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for {
		select {
		case s := <-t.ch:
			t.apply(s)
		case <-t.done:
			return
		}
	}
}

func (t *Tracker) apply(s *Session) {
	t.mu.Lock()
	first := t.loading
	t.session = s
	t.loading = false
	t.mu.Unlock()

	if first {
		logger.Info("initial auth state observed", map[string]any{
			"signed_in": s != nil,
		})
	}

	for _, fn := range t.observers {
		fn(s)
	}
}

// Session returns the current session value, nil when unauthenticated.
func (t *Tracker) Session() *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

// Loading reports whether the first provider notification is still
// outstanding.
func (t *Tracker) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

// Close unsubscribes from the provider and stops the tracker. No
// observer runs after Close returns.
func (t *Tracker) Close() {
	t.stop.Do(func() {
		if t.unsub != nil {
			t.unsub()
		}
		close(t.done)
		t.wg.Wait()
	})
}
