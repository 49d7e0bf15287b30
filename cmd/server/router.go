package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daha-io/catalog-api/internal/api"
	apiMiddleware "github.com/daha-io/catalog-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	courseHandler := api.NewCourseHandler(app.courseService, app.logger)
	organizationHandler := api.NewOrganizationHandler(app.organizationStore, app.logger)
	difficultyHandler := api.NewDifficultyHandler(app.difficultyStore, app.logger)
	subjectHandler := api.NewSubjectHandler(app.subjectStore, app.logger)
	gradeHandler := api.NewGradeHandler(app.gradeStore, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.logger)

	requireEditor := apiMiddleware.RequireEditor(apiMiddleware.AllowAllAuthorizer{}, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Read endpoints
		r.Get("/courses", courseHandler.List)
		r.Get("/courses/{id}", courseHandler.Get)
		r.Get("/organizations", organizationHandler.List)
		r.Get("/organizations/{id}", organizationHandler.Get)
		r.Get("/difficulties", difficultyHandler.List)
		r.Get("/difficulties/{id}", difficultyHandler.Get)
		r.Get("/subjects", subjectHandler.List)
		r.Get("/subjects/{id}", subjectHandler.Get)
		r.Get("/grades", gradeHandler.List)
		r.Get("/grades/{id}", gradeHandler.Get)

		// Mutating endpoints
		r.Group(func(r chi.Router) {
			r.Use(requireEditor)

			r.Post("/courses", courseHandler.Create)
			r.Put("/courses/{id}", courseHandler.Update)
			r.Delete("/courses/{id}", courseHandler.Delete)

			r.Post("/organizations", organizationHandler.Create)
			r.Put("/organizations/{id}", organizationHandler.Update)
			r.Delete("/organizations/{id}", organizationHandler.Delete)

			r.Post("/difficulties", difficultyHandler.Create)
			r.Put("/difficulties/{id}", difficultyHandler.Update)
			r.Delete("/difficulties/{id}", difficultyHandler.Delete)

			r.Post("/subjects", subjectHandler.Create)
			r.Put("/subjects/{id}", subjectHandler.Update)
			r.Delete("/subjects/{id}", subjectHandler.Delete)

			r.Post("/grades", gradeHandler.Create)
			r.Put("/grades/{id}", gradeHandler.Update)
			r.Delete("/grades/{id}", gradeHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/healthz", healthHandler.Check)

	return r
}
