package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/mediacache"
	"github.com/pacsforge/siteserver/pkg/session"
)

// Deps carries the shared resources the handlers run on.
type Deps struct {
	Pool      *dbpool.Pool
	Sessions  *session.Registry
	Tokens    *session.TokenManager
	Placement *mediacache.PlacementCache
	Auth      Authenticator
	Logger    *slog.Logger
}

// Router builds the HTTP surface. Everything under /api/v1 except login
// requires an authenticated, unexpired session.
func Router(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(d.Logger))
	r.Use(Recoverer(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"state": "up"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", LoginHandler(d.Auth, d.Sessions, d.Tokens, d.Logger))

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(d.Tokens, d.Sessions))

			r.Post("/logout", LogoutHandler(d.Sessions))

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", ListSitesHandler(d.Pool, d.Logger))
				r.Post("/", CreateSiteHandler(d.Pool, d.Logger))
				r.Get("/{seq}", GetSiteHandler(d.Pool, d.Logger))
				r.Put("/{seq}", UpdateSiteHandler(d.Pool, d.Logger))
				r.Delete("/{seq}", DeleteSiteHandler(d.Pool, d.Logger))
			})

			r.Route("/volumes", func(r chi.Router) {
				r.Get("/{seq}", GetVolumeHandler(d.Pool, d.Logger))
				r.Get("/{seq}/placement", PlacementHandler(d.Placement, d.Logger))
			})
		})
	})

	return r
}
