package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/clubsite-analytics/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware микросайта клуба.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api/club", func(r chi.Router) {
		r.Get("/", h.GetClub)
		r.Get("/slots", h.GetSlots)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.adminMiddleware.Middleware)

		r.Get("/analytics", h.GetAnalytics)
		r.Put("/settings", h.UpdateSettings)

		r.Post("/courts", h.AddCourt)
		r.Delete("/courts/{id}", h.RemoveCourt)

		r.Post("/merch", h.AddMerchItem)
		r.Delete("/merch/{id}", h.RemoveMerchItem)

		r.Post("/snapshots", h.CreateSnapshot)
		r.Get("/snapshots", h.ListSnapshots)
		r.Get("/snapshots/{id}", h.GetSnapshot)
	})

	if h.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsHandler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
