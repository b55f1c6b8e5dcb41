package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	domcategory "github.com/deep1161/djMART/app/internal/domain/category"
	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
)

type mockCartStore struct {
	mu        sync.Mutex
	saved     map[string][]byte
	loadCalls int
	loadErr   error
	saveErr   error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{saved: make(map[string][]byte)}
}

func (m *mockCartStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return domcart.Unmarshal(m.saved[session])
}

func (m *mockCartStore) Save(ctx context.Context, session string, items []domcart.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := domcart.Marshal(items)
	if err != nil {
		return err
	}
	m.saved[session] = data
	return nil
}

func (m *mockCartStore) raw(session string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.saved[session])
}

func item(id string, quantity int64) domcart.Item {
	return domcart.Item{
		Product: domproduct.Product{
			ID:       id,
			Name:     "Product " + id,
			Price:    100,
			Category: domcategory.Category{ID: "c1", Name: "Books"},
		},
		Quantity: quantity,
	}
}

func TestGet_LoadsOnceFromStore(t *testing.T) {
	store := newMockCartStore()
	data, err := domcart.Marshal([]domcart.Item{item("p1", 2)})
	require.NoError(t, err)
	store.saved["s1"] = data

	svc := NewService(store)

	items, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, []domcart.Item{item("p1", 2)}, items)

	_, err = svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, 1, store.loadCalls)
}

func TestGet_StoreError(t *testing.T) {
	store := newMockCartStore()
	store.loadErr = errors.New("store down")
	svc := NewService(store)

	_, err := svc.Get(context.Background(), "s1")
	require.ErrorIs(t, err, store.loadErr)
}

func TestAdd_AppendsAndPersists(t *testing.T) {
	store := newMockCartStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "s1", item("p1", 2)))

	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].Quantity)

	want, err := domcart.Marshal(items)
	require.NoError(t, err)
	require.Equal(t, string(want), store.raw("s1"))
}

func TestAdd_DuplicatePolicy(t *testing.T) {
	tests := []struct {
		name      string
		merge     bool
		wantLen   int
		wantFirst int64
	}{
		{name: "duplicates allowed", merge: false, wantLen: 2, wantFirst: 2},
		{name: "quantities merged", merge: true, wantLen: 1, wantFirst: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockCartStore(), WithMergeDuplicates(tt.merge))
			ctx := context.Background()

			require.NoError(t, svc.Add(ctx, "s1", item("p1", 2)))
			require.NoError(t, svc.Add(ctx, "s1", item("p1", 3)))

			items, err := svc.Get(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, items, tt.wantLen)
			require.Equal(t, tt.wantFirst, items[0].Quantity)
		})
	}
}

func TestAdd_InvalidItem(t *testing.T) {
	tests := []struct {
		name    string
		item    domcart.Item
		wantErr error
	}{
		{name: "Zero quantity", item: item("p1", 0), wantErr: domcart.ErrInvalidQuantity},
		{name: "Negative quantity", item: item("p1", -1), wantErr: domcart.ErrInvalidQuantity},
		{name: "No product", item: domcart.Item{Quantity: 1}, wantErr: domcart.ErrInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockCartStore()
			svc := NewService(store)

			err := svc.Add(context.Background(), "s1", tt.item)

			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, store.raw("s1"))
		})
	}
}

func TestAdd_SaveFailureKeepsPreviousCart(t *testing.T) {
	store := newMockCartStore()
	svc := NewService(store)
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, "s1", item("p1", 1)))

	store.saveErr = errors.New("disk full")
	err := svc.Add(ctx, "s1", item("p2", 1))
	require.ErrorIs(t, err, store.saveErr)

	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "p1", items[0].ID)
}

func TestRemove_FiltersAllMatches(t *testing.T) {
	store := newMockCartStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "s1", []domcart.Item{item("p1", 1), item("p2", 4), item("p1", 2)}))
	require.NoError(t, svc.Remove(ctx, "s1", "p1"))

	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []domcart.Item{item("p2", 4)}, items)

	require.NoError(t, svc.Remove(ctx, "s1", "p2"))
	require.Equal(t, "[]", store.raw("s1"))
}

func TestSet_RejectsInvalidItems(t *testing.T) {
	svc := NewService(newMockCartStore())

	err := svc.Set(context.Background(), "s1", []domcart.Item{item("p1", 1), item("p2", 0)})
	require.ErrorIs(t, err, domcart.ErrInvalidQuantity)
}

func TestGet_ReturnsCopy(t *testing.T) {
	svc := NewService(newMockCartStore())
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, "s1", item("p1", 1)))

	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	items[0].Quantity = 99

	again, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), again[0].Quantity)
}

func TestSubscribe(t *testing.T) {
	svc := NewService(newMockCartStore())
	ctx := context.Background()

	var got [][]domcart.Item
	cancel := svc.Subscribe("s1", func(items []domcart.Item) {
		got = append(got, items)
	})
	otherCalls := 0
	svc.Subscribe("s2", func(items []domcart.Item) { otherCalls++ })

	require.NoError(t, svc.Add(ctx, "s1", item("p1", 2)))
	require.NoError(t, svc.Remove(ctx, "s1", "p1"))

	require.Len(t, got, 2)
	require.Len(t, got[0], 1)
	require.Empty(t, got[1])
	require.Zero(t, otherCalls)

	cancel()
	cancel()
	require.NoError(t, svc.Add(ctx, "s1", item("p1", 1)))
	require.Len(t, got, 2)
}

func TestForget_ReloadsFromStore(t *testing.T) {
	store := newMockCartStore()
	svc := NewService(store)
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, "s1", item("p1", 1)))

	svc.Forget("s1")
	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 2, store.loadCalls)
}

// gatedStore blocks loads of one session until released.
type gatedStore struct {
	*mockCartStore
	gated   string
	started chan struct{}
	release chan struct{}
}

func (g *gatedStore) Load(ctx context.Context, session string) ([]domcart.Item, error) {
	if session == g.gated {
		close(g.started)
		<-g.release
	}
	return g.mockCartStore.Load(ctx, session)
}

func TestGet_SlowSessionDoesNotBlockOthers(t *testing.T) {
	store := &gatedStore{
		mockCartStore: newMockCartStore(),
		gated:         "slow",
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	svc := NewService(store)
	ctx := context.Background()

	slowDone := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "slow")
		slowDone <- err
	}()
	<-store.started

	fastDone := make(chan error, 1)
	go func() {
		fastDone <- svc.Add(ctx, "fast", item("p1", 1))
	}()

	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("session fast waited for the store load of session slow")
	}

	close(store.release)
	require.NoError(t, <-slowDone)
}

func TestAdd_ConcurrentSameSession(t *testing.T) {
	svc := NewService(newMockCartStore())
	ctx := context.Background()

	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- svc.Add(ctx, "s1", item(fmt.Sprintf("p%d", i), 1))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 20)
	require.Empty(t, svc.locks)
}
