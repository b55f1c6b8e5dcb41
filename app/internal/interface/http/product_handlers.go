package http

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/usecase/productview"
)

// redirectNavigator answers the current request with a 303 to the target
// page.
type redirectNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirectNavigator) Navigate(path string) {
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

func (a *API) view(r *http.Request) *productview.View {
	return a.views.Get(r.Context(), getSession(r.Context()))
}

func (a *API) handleProductPage(w http.ResponseWriter, r *http.Request) {
	session := getSession(r.Context())
	slug := getSlug(r.Context())
	v := a.views.Get(r.Context(), session)

	v.Load(r.Context(), slug)

	page := v.Page()
	if page.Slug != slug {
		// nothing loaded for this slug; render the empty state rather than
		// another product
		page = productview.Page{Slug: slug, Related: []domproduct.Product{}, Quantity: 1, CartCount: page.CartCount}
	}

	if err := a.pages.product(w, page, a.flash.Drain(session)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render product page")
	}
}

// mutate runs fn against the session's view for the current slug and
// redirects back to the product page. fn is skipped when the view does not
// hold that slug's product, so an action never lands on another product.
func (a *API) mutate(w http.ResponseWriter, r *http.Request, fn func(v *productview.View)) {
	slug := getSlug(r.Context())
	v := a.view(r)
	res := v.Ensure(r.Context(), slug)
	if page := v.Page(); res.Product.Outcome == productview.Failed || page.Slug != slug || !page.HasProduct {
		hlog.FromRequest(r).Warn().
			Str("slug", slug).
			Str("outcome", res.Product.Outcome.String()).
			Msg("product not loaded, action skipped")
	} else {
		fn(v)
	}
	redirectNavigator{w: w, r: r}.Navigate(domproduct.DetailPath(slug))
}

func (a *API) handleIncrement(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, func(v *productview.View) {
		v.Increment()
	})
}

func (a *API) handleDecrement(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, func(v *productview.View) {
		v.Decrement()
	})
}

func (a *API) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, func(v *productview.View) {
		v.AddToCart(r.Context())
	})
}

func (a *API) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, func(v *productview.View) {
		v.RemoveFromCart(r.Context())
	})
}

func (a *API) handleAddRelatedToCart(w http.ResponseWriter, r *http.Request) {
	id, err := a.pathParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	a.mutate(w, r, func(v *productview.View) {
		v.AddRelatedToCart(r.Context(), id)
	})
}

func (a *API) handleMoreDetails(w http.ResponseWriter, r *http.Request) {
	relatedSlug, err := a.pathParam(r, "relatedSlug")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	a.view(r).MoreDetails(redirectNavigator{w: w, r: r}, relatedSlug)
}

func (a *API) handleProductPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := a.pathParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	body, contentType, err := a.photos.Photo(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("product_id", id).Msg("fetch product photo")
		handleDomainError(w, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("copy product photo")
	}
}
