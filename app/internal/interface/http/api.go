package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	domcart "github.com/deep1161/djMART/app/internal/domain/cart"
	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/errx"
	"github.com/deep1161/djMART/app/internal/format"
	"github.com/deep1161/djMART/app/internal/infra/security"
	"github.com/deep1161/djMART/app/internal/usecase/productview"
)

type CartReader interface {
	Get(ctx context.Context, session string) ([]domcart.Item, error)
}

type PhotoSource interface {
	Photo(ctx context.Context, productID string) (io.ReadCloser, string, error)
}

type FlashQueue interface {
	Drain(session string) []string
}

type API struct {
	views         *productview.Registry
	cartSvc       CartReader
	photos        PhotoSource
	flash         FlashQueue
	sessionSvc    *security.SessionService
	prices        *format.PriceFormatter
	logger        zerolog.Logger
	secureCookies bool
	validator     *validator.Validate
	pages         *pageRenderer
}

type Dependencies struct {
	Views          *productview.Registry
	CartService    CartReader
	Photos         PhotoSource
	Flash          FlashQueue
	SessionService *security.SessionService
	Prices         *format.PriceFormatter
	Logger         zerolog.Logger
	SecureCookies  bool
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	return &API{
		views:         deps.Views,
		cartSvc:       deps.CartService,
		photos:        deps.Photos,
		flash:         deps.Flash,
		sessionSvc:    deps.SessionService,
		prices:        deps.Prices,
		logger:        deps.Logger,
		secureCookies: deps.SecureCookies,
		validator:     validate,
		pages:         newPageRenderer(deps.Prices),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(a.logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data", "application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/v1/product/product-photo/{id}", a.handleProductPhoto)

	r.Group(func(sr chi.Router) {
		sr.Use(a.sessionMiddleware)

		sr.Get("/api/v1/cart", a.handleGetCart)

		sr.Route("/product/{slug}", func(pr chi.Router) {
			pr.Use(a.requireSlug)
			pr.Get("/", a.handleProductPage)
			pr.Post("/quantity/increment", a.handleIncrement)
			pr.Post("/quantity/decrement", a.handleDecrement)
			pr.Post("/cart", a.handleAddToCart)
			pr.Post("/cart/remove", a.handleRemoveFromCart)
			pr.Post("/related/{id}/cart", a.handleAddRelatedToCart)
			pr.Post("/related/{relatedSlug}/details", a.handleMoreDetails)
		})
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// pathParam reads and validates a URL parameter used as a slug or product id.
func (a *API) pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if err := a.validator.Var(v, "required,max=256,printascii,excludesall=/?#"); err != nil {
		return "", errInvalidParam{key: key, err: err}
	}
	return v, nil
}

type errInvalidParam struct {
	key string
	err error
}

func (e errInvalidParam) Error() string {
	return "invalid path parameter " + e.key
}

func (e errInvalidParam) Unwrap() error {
	return e.err
}

type paramViolation struct {
	Param string `json:"param"`
	Rule  string `json:"rule"`
	Limit string `json:"limit,omitempty"`
}

func (e errInvalidParam) violations() []paramViolation {
	var verrs validator.ValidationErrors
	if !errors.As(e.err, &verrs) {
		return []paramViolation{{Param: e.key}}
	}
	out := make([]paramViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, paramViolation{Param: e.key, Rule: fe.Tag(), Limit: fe.Param()})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var paramErr errInvalidParam
	if errors.As(err, &paramErr) {
		resp.Details = paramErr.violations()
	}
	writeJSON(w, status, resp)
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domproduct.ErrProductNotFound):
		respondError(w, http.StatusNotFound, domproduct.ErrProductNotFound)
	case errors.Is(err, domcart.ErrInvalidItem),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domproduct.ErrNoProduct),
		errors.Is(err, productview.ErrRelatedNotFound):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		writeJSON(w, errx.StatusOf(err), errorResponse{Error: errx.MessageOf(err)})
	}
}
