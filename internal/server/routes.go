package server

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/shopfloor/kpidash/pkg/core"
)

// Store is the part of the data access facade the handlers use.
type Store interface {
	Get(ctx context.Context, query string, args ...any) (core.Row, error)
	All(ctx context.Context, query string, args ...any) ([]core.Row, error)
	Run(ctx context.Context, query string, args ...any) (core.Result, error)
	Dialect() string
	IsUniqueViolation(err error) bool
}

// SetupRoutes registers every API route on router.
func SetupRoutes(router chi.Router, store Store, logger *slog.Logger) {
	mount(router, NewHandlers(store, logger))
}

func mount(router chi.Router, h *Handlers) {
	router.Get("/healthz", h.Health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/departments", h.ListDepartments)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/", h.RecordAttendance)
		})

		r.Route("/kpi", func(r chi.Router) {
			r.Post("/", h.RecordKPI)
			r.Get("/summary", h.KPISummary)
		})
	})
}
