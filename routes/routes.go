package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pr4th4meshh/respondly/app"
	"github.com/pr4th4meshh/respondly/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// respondent-facing, no auth
	api.Get("/forms/{id}", PublicGetForm(app))
	api.Post("/forms/{id}/responses", SubmitResponse(app))

	api.Route("/creator", func(r chi.Router) {
		r.Use(middlewares.Creator(app.TokenSecret))

		// CRUD form
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get("/forms/{id}", GetForm(app))
		r.Put("/forms/{id}", UpdateForm(app))
		r.Delete("/forms/{id}", DeleteForm(app))

		r.Get("/forms/{id}/responses", ListResponses(app))
		r.Get("/forms/{id}/summary", GetSummary(app))
	})

	api.Post("/register", Register(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
