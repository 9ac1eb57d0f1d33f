package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/session", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Post("/", h.createSession)
		r.Delete("/", h.deleteSession)
		r.Patch("/sync", h.syncSession)
	})

	return router
}
