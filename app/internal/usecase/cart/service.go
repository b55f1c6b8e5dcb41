package cart

import (
	"context"
	"sync"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
)

type CartStore interface {
	domcart.Store
}

// Listener receives every new cart of the session it subscribed to. It is
// called while that session's cart is locked and must not change the same
// session's cart.
type Listener = func(items []domcart.Item)

type Option func(*Service)

// WithMergeDuplicates makes Add increase the quantity of an existing entry
// for the same product instead of appending a second entry.
func WithMergeDuplicates(merge bool) Option {
	return func(s *Service) {
		s.merge = merge
	}
}

// Service owns the shared carts. Each session's cart is loaded from the
// store on first access and written back as a whole after every mutation.
// Store I/O runs under a per-session lock, so a slow store only delays the
// session it is serving.
type Service struct {
	store CartStore
	merge bool

	mu      sync.Mutex
	carts   map[string][]domcart.Item
	subs    map[string]map[int]Listener
	locks   map[string]*sessionLock
	nextSub int
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(store CartStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		carts: make(map[string][]domcart.Item),
		subs:  make(map[string]map[int]Listener),
		locks: make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, session string) ([]domcart.Item, error) {
	unlock := s.lock(session)
	defer unlock()

	items, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return domcart.Clone(items), nil
}

func (s *Service) Set(ctx context.Context, session string, items []domcart.Item) error {
	for _, item := range items {
		if err := validateItem(item); err != nil {
			return err
		}
	}

	unlock := s.lock(session)
	defer unlock()
	return s.replace(ctx, session, domcart.Clone(items))
}

func (s *Service) Add(ctx context.Context, session string, item domcart.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	unlock := s.lock(session)
	defer unlock()

	items, err := s.load(ctx, session)
	if err != nil {
		return err
	}
	return s.replace(ctx, session, domcart.Append(items, item, s.merge))
}

func (s *Service) Remove(ctx context.Context, session string, productID string) error {
	unlock := s.lock(session)
	defer unlock()

	items, err := s.load(ctx, session)
	if err != nil {
		return err
	}
	return s.replace(ctx, session, domcart.Without(items, productID))
}

// Subscribe registers fn for cart changes of session. The returned func
// cancels the subscription.
func (s *Service) Subscribe(session string, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	if s.subs[session] == nil {
		s.subs[session] = make(map[int]Listener)
	}
	s.subs[session][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[session], id)
			if len(s.subs[session]) == 0 {
				delete(s.subs, session)
			}
		})
	}
}

// Forget drops the in-memory copy of a session's cart. The stored value is
// kept and reloaded on next access.
func (s *Service) Forget(session string) {
	unlock := s.lock(session)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs[session]) == 0 {
		delete(s.carts, session)
	}
}

// lock serialises work on one session's cart. The entry is dropped once no
// caller holds or waits for it.
func (s *Service) lock(session string) func() {
	s.mu.Lock()
	l := s.locks[session]
	if l == nil {
		l = &sessionLock{}
		s.locks[session] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, session)
		}
		s.mu.Unlock()
	}
}

// load expects the session lock to be held.
func (s *Service) load(ctx context.Context, session string) ([]domcart.Item, error) {
	s.mu.Lock()
	items, ok := s.carts[session]
	s.mu.Unlock()
	if ok {
		return items, nil
	}

	items, err := s.store.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domcart.Item{}
	}
	s.mu.Lock()
	s.carts[session] = items
	s.mu.Unlock()
	return items, nil
}

// replace persists first so the in-memory cart never runs ahead of the
// store. It expects the session lock to be held.
func (s *Service) replace(ctx context.Context, session string, items []domcart.Item) error {
	if err := s.store.Save(ctx, session, items); err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[session] = items
	listeners := make([]Listener, 0, len(s.subs[session]))
	for _, fn := range s.subs[session] {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(domcart.Clone(items))
	}
	return nil
}

func validateItem(item domcart.Item) error {
	if item.ID == "" {
		return domcart.ErrInvalidItem
	}
	if item.Quantity < 1 {
		return domcart.ErrInvalidQuantity
	}
	return nil
}
