package productview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/infra/notify"
)

var ErrRelatedNotFound = errors.New("related product not found")

type CartService interface {
	Get(ctx context.Context, session string) ([]domcart.Item, error)
	Add(ctx context.Context, session string, item domcart.Item) error
	Remove(ctx context.Context, session string, productID string) error
	Subscribe(session string, fn func(items []domcart.Item)) func()
	Forget(session string)
}

type Notifier interface {
	Success(msg string)
}

type Navigator interface {
	Navigate(path string)
}

// Page is what the product detail template renders.
type Page struct {
	Slug       string
	Product    domproduct.Product
	HasProduct bool
	Related    []domproduct.Product
	Quantity   int64
	ShowRemove bool
	CartCount  int
}

// View holds the state of one session's product detail page. Fetches are
// tagged with a request token; a completion whose token is no longer the
// latest is dropped.
//
// The mutex is never held across a catalog or cart call.
type View struct {
	session  string
	catalog  domproduct.Catalog
	cart     CartService
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	mu           sync.Mutex
	slug         string
	product      domproduct.Product
	related      []domproduct.Product
	items        []domcart.Item
	itemsPushed  bool
	quantity     int64
	productToken uint64
	relatedToken uint64
	lastSeen     time.Time
	unsubscribe  func()
}

type Dependencies struct {
	Catalog  domproduct.Catalog
	Cart     CartService
	Notifier Notifier
	Logger   zerolog.Logger
}

func New(ctx context.Context, session string, deps Dependencies) *View {
	v := &View{
		session:  session,
		catalog:  deps.Catalog,
		cart:     deps.Cart,
		notifier: deps.Notifier,
		logger:   deps.Logger.With().Str("session", session).Logger(),
		now:      time.Now,
		related:  []domproduct.Product{},
		items:    []domcart.Item{},
		quantity: 1,
	}
	v.lastSeen = v.now()

	v.unsubscribe = v.cart.Subscribe(session, v.setItems)
	items, err := v.cart.Get(ctx, session)
	if err != nil {
		v.logger.Error().Err(err).Msg("load cart")
	} else {
		v.seedItems(items)
	}
	return v
}

func (v *View) setItems(items []domcart.Item) {
	v.mu.Lock()
	v.items = items
	v.itemsPushed = true
	v.mu.Unlock()
}

// seedItems keeps a pushed cart if one arrived while the initial Get ran.
func (v *View) seedItems(items []domcart.Item) {
	v.mu.Lock()
	if !v.itemsPushed {
		v.items = items
	}
	v.mu.Unlock()
}

// Load fetches the product for slug and then its related products.
// Failures are logged and leave the state untouched.
func (v *View) Load(ctx context.Context, slug string) LoadResult {
	v.mu.Lock()
	v.productToken++
	token := v.productToken
	v.lastSeen = v.now()
	v.mu.Unlock()

	p, err := v.catalog.GetProduct(ctx, slug)
	if err != nil {
		v.logger.Error().Err(err).Str("slug", slug).Msg("get product")
		return LoadResult{Product: failed(err), Related: Result{Outcome: Skipped}}
	}

	v.mu.Lock()
	if token != v.productToken {
		v.mu.Unlock()
		v.logger.Debug().Str("slug", slug).Msg("discarding superseded product response")
		return LoadResult{Product: Result{Outcome: Superseded}, Related: Result{Outcome: Skipped}}
	}
	if slug != v.slug {
		v.quantity = 1
	}
	v.slug = slug
	v.product = *p
	v.mu.Unlock()

	return LoadResult{
		Product: succeeded(),
		Related: v.LoadRelated(ctx, p.ID, p.Category.ID),
	}
}

// Ensure loads slug unless it is already the current product.
func (v *View) Ensure(ctx context.Context, slug string) LoadResult {
	v.mu.Lock()
	current := v.slug == slug && !v.product.IsZero()
	v.mu.Unlock()
	if current {
		return LoadResult{Product: Result{Outcome: Skipped}, Related: Result{Outcome: Skipped}}
	}
	return v.Load(ctx, slug)
}

func (v *View) LoadRelated(ctx context.Context, productID, categoryID string) Result {
	v.mu.Lock()
	v.relatedToken++
	token := v.relatedToken
	v.mu.Unlock()

	products, err := v.catalog.RelatedProducts(ctx, productID, categoryID)
	if err != nil {
		v.logger.Error().Err(err).Str("product_id", productID).Str("category_id", categoryID).Msg("get related products")
		return failed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.relatedToken {
		return Result{Outcome: Superseded}
	}
	if products == nil {
		products = []domproduct.Product{}
	}
	v.related = products
	return succeeded()
}

// AddToCart adds the current product with the current quantity.
func (v *View) AddToCart(ctx context.Context) Result {
	v.mu.Lock()
	p, quantity := v.product, v.quantity
	v.lastSeen = v.now()
	v.mu.Unlock()

	if p.IsZero() {
		v.logger.Error().Err(domproduct.ErrNoProduct).Msg("add to cart")
		return failed(domproduct.ErrNoProduct)
	}
	return v.add(ctx, domcart.Item{Product: p, Quantity: quantity})
}

// AddRelatedToCart adds the related product with id productID, quantity 1.
func (v *View) AddRelatedToCart(ctx context.Context, productID string) Result {
	v.mu.Lock()
	var (
		p     domproduct.Product
		found bool
	)
	for _, r := range v.related {
		if r.ID == productID {
			p, found = r, true
			break
		}
	}
	v.lastSeen = v.now()
	v.mu.Unlock()

	if !found {
		v.logger.Error().Err(ErrRelatedNotFound).Str("product_id", productID).Msg("add related to cart")
		return failed(ErrRelatedNotFound)
	}
	return v.add(ctx, domcart.Item{Product: p, Quantity: 1})
}

func (v *View) add(ctx context.Context, item domcart.Item) Result {
	if err := v.cart.Add(ctx, v.session, item); err != nil {
		v.logger.Error().Err(err).Str("product_id", item.ID).Msg("add to cart")
		return failed(err)
	}
	v.notifier.Success(notify.MsgItemAdded)
	return succeeded()
}

// RemoveFromCart drops every cart entry of the current product.
func (v *View) RemoveFromCart(ctx context.Context) Result {
	v.mu.Lock()
	p := v.product
	v.lastSeen = v.now()
	v.mu.Unlock()

	if p.IsZero() {
		v.logger.Error().Err(domproduct.ErrNoProduct).Msg("remove from cart")
		return failed(domproduct.ErrNoProduct)
	}
	if err := v.cart.Remove(ctx, v.session, p.ID); err != nil {
		v.logger.Error().Err(err).Str("product_id", p.ID).Msg("remove from cart")
		return failed(err)
	}
	v.notifier.Success(notify.MsgItemRemoved)
	return succeeded()
}

func (v *View) Increment() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.quantity++
	v.lastSeen = v.now()
	return v.quantity
}

// Decrement never goes below 1.
func (v *View) Decrement() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.quantity > 1 {
		v.quantity--
	}
	v.lastSeen = v.now()
	return v.quantity
}

func (v *View) MoreDetails(nav Navigator, slug string) {
	nav.Navigate(domproduct.DetailPath(slug))
}

func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()

	related := make([]domproduct.Product, len(v.related))
	copy(related, v.related)
	return Page{
		Slug:       v.slug,
		Product:    v.product,
		HasProduct: !v.product.IsZero(),
		Related:    related,
		Quantity:   v.quantity,
		ShowRemove: domcart.Contains(v.items, v.product.ID),
		CartCount:  len(v.items),
	}
}

func (v *View) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Close stops following the session's cart.
func (v *View) Close() {
	v.unsubscribe()
}
