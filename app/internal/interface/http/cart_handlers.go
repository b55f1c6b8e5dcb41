package http

import (
	"net/http"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
)

// handleGetCart returns the session cart exactly as it is persisted.
func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	items, err := a.cartSvc.Get(r.Context(), getSession(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	data, err := domcart.Marshal(items)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
