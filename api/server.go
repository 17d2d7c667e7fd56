/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, RESTful route patterns.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. requestLogger: zerolog structured request log
  4. CORS:       Admin console origin

SECURITY NOTE:
  Identity/session handling lives upstream (the identity collaborator);
  this layer only sees opaque actor ids and adds no auth of its own.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, allowedOrigin string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/movements", h.AppendMovement)

		r.Route("/actors/{id}", func(r chi.Router) {
			r.Get("/balance", h.GetBalance)
			r.Get("/balances", h.GetBalances)
			r.Get("/movements", h.GetMovements)
		})

		r.Route("/workflow", func(r chi.Router) {
			r.Post("/issues", h.IssueToRep)
			r.Post("/transfers", h.TransferToShop)
			r.Post("/returns", h.ReturnToRep)
			r.Post("/hq-returns", h.ReturnToWarehouse)
		})

		r.Get("/reps/{id}/fulfillment", h.MatchFulfillment)

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.OpenRequest)
			r.Get("/{id}", h.GetRequest)
			r.Post("/{id}/deliveries", h.RecordDelivery)
			r.Post("/{id}/cancel", h.CancelRequest)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
