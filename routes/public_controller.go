package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pr4th4meshh/respondly/app"
	"github.com/pr4th4meshh/respondly/form"
	"github.com/pr4th4meshh/respondly/httpx"
	"github.com/pr4th4meshh/respondly/log"
	"github.com/pr4th4meshh/respondly/model"
)

// PublicGetForm serves the form definition to respondents: title and
// fields only, no creator identity, no collected responses.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := app.Forms.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, "public.get_form", err)
			return
		}

		f.Creator = ""
		f.Responses = nil
		f.Version = 0
		render.JSON(w, r, f)
	}
}

// SubmitResponse validates one submission against the current schema
// and appends it to the form's history. All-or-nothing: a single bad
// pair rejects the whole submission and nothing is recorded.
func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submission := struct {
			Responses []model.Response `json:"responses"`
		}{}
		err := render.DecodeJSON(r.Body, &submission)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := app.Forms.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, "submit.get_form", err)
			return
		}

		accepted, err := form.Validate(f, submission.Responses)
		if err != nil {
			writeError(w, r, "submit.validate", err)
			return
		}

		err = app.Forms.AppendResponses(r.Context(), f.ID, accepted)
		if err != nil {
			writeError(w, r, "submit.append", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"responses": accepted,
		})
	}
}
