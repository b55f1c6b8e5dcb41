package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
)

const sessionCookieName = "djmart_session"

type ctxKey int

const (
	ctxSessionKey ctxKey = iota
	ctxSlugKey
)

// sessionMiddleware resolves the storefront session from its signed cookie,
// starting a fresh one when the cookie is missing or invalid.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session string
		if c, err := r.Cookie(sessionCookieName); err == nil {
			if sid, err := a.sessionSvc.Parse(c.Value); err == nil {
				session = sid
			} else {
				hlog.FromRequest(r).Debug().Err(err).Msg("discarding session cookie")
			}
		}

		if session == "" {
			session = uuid.NewString()
			token, err := a.sessionSvc.Issue(session)
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("issue session")
				respondError(w, http.StatusInternalServerError, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(a.sessionSvc.Expiration().Seconds()),
				HttpOnly: true,
				Secure:   a.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxSessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requireSlug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug, err := a.pathParam(r, "slug")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSlugKey, slug)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSession(ctx context.Context) string {
	session, _ := ctx.Value(ctxSessionKey).(string)
	return session
}

func getSlug(ctx context.Context) string {
	slug, _ := ctx.Value(ctxSlugKey).(string)
	return slug
}
