package productview

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
)

type RegistryDependencies struct {
	Catalog   domproduct.Catalog
	Cart      CartService
	Notifiers func(session string) Notifier
	Logger    zerolog.Logger
}

// Registry hands out one View per session and retires idle ones.
type Registry struct {
	deps RegistryDependencies
	idle time.Duration
	now  func() time.Time

	mu    sync.Mutex
	views map[string]*View
}

func NewRegistry(deps RegistryDependencies, idle time.Duration) *Registry {
	return &Registry{
		deps:  deps,
		idle:  idle,
		now:   time.Now,
		views: make(map[string]*View),
	}
}

// Get returns the session's View, creating it on first use. The View is
// built outside the registry lock because New reads the cart from the store.
func (r *Registry) Get(ctx context.Context, session string) *View {
	r.mu.Lock()
	v, ok := r.views[session]
	r.mu.Unlock()
	if ok {
		return v
	}

	created := New(ctx, session, Dependencies{
		Catalog:  r.deps.Catalog,
		Cart:     r.deps.Cart,
		Notifier: r.deps.Notifiers(session),
		Logger:   r.deps.Logger,
	})
	created.now = r.now
	created.lastSeen = r.now()

	r.mu.Lock()
	v, ok = r.views[session]
	if !ok {
		r.views[session] = created
	}
	r.mu.Unlock()

	if ok {
		// lost the race to a concurrent Get for the same session
		created.Close()
		return v
	}
	return created
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes views not used for longer than the idle timeout and returns
// how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []string
	for session, v := range r.views {
		if v.LastSeen().Before(cutoff) {
			stale = append(stale, session)
			delete(r.views, session)
			v.Close()
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		r.deps.Cart.Forget(session)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.deps.Logger.Debug().Int("views", n).Msg("swept idle product views")
			}
		}
	}
}
