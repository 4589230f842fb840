package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/waveline/questadmin/internal/config"
)

// NewRouter creates a new router with all routes configured.
// Reads require the support role, writes require moderator, deletes admin.
func NewRouter(h *Handler, auth config.AuthConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(auth))

			read := RequireRole(RoleSupport)
			write := RequireRole(RoleModerator)
			admin := RequireRole(RoleAdmin)

			r.With(read).Get("/presets", h.ListPresets)
			r.With(read).Get("/presets/{id}", h.GetPreset)
			r.With(read).Post("/presets/{id}/field-states", h.PresetFieldStates)

			r.With(read).Get("/tasks", h.ListTasks)
			r.With(read).Get("/tasks/{id}", h.GetTask)
			r.With(read).Post("/tasks/validate", h.ValidateQuest)
			r.With(write).Post("/tasks", h.CreateQuest)
			r.With(write).Put("/tasks/{id}", h.UpdateTask)
			r.With(admin).Delete("/tasks/{id}", h.DeleteTask)

			r.With(read).Get("/tasks/creation", h.CreationState)
			r.With(write).Post("/tasks/creation/retry", h.RetryCreation)
			r.With(write).Post("/tasks/creation/cancel", h.CancelCreation)
			r.With(write).Post("/tasks/creation/reset", h.ResetCreation)

			r.With(write).Post("/media", h.UploadMedia)
		})
	})

	return r
}
