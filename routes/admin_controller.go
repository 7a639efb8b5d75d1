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
	"github.com/pr4th4meshh/respondly/routes/middlewares"
)

type formPayload struct {
	Version int           `json:"version"`
	Title   string        `json:"title"`
	Fields  []model.Field `json:"fields"`
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := formPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := form.NewForm(middlewares.Username(r), payload.Title, payload.Fields)
		if err != nil {
			writeError(w, r, "create_form.validate", err)
			return
		}

		err = app.Forms.Create(r.Context(), f)
		if err != nil {
			writeError(w, r, "create_form.store", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":   f.ID,
			"link": "/forms/" + f.ID,
			"form": f,
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Forms.ListByCreator(r.Context(), middlewares.Username(r))
		if err != nil {
			writeError(w, r, "list_forms.store", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ownedForm(app, r)
		if err != nil {
			writeError(w, r, "get_form", err)
			return
		}

		count := len(f.Responses)
		f.Responses = nil
		render.JSON(w, r, map[string]any{
			"form":          f,
			"responseCount": count,
		})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ownedForm(app, r)
		if err != nil {
			writeError(w, r, "update_form", err)
			return
		}

		payload := formPayload{}
		err = render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = form.ApplyEdit(f, payload.Title, payload.Fields)
		if err != nil {
			writeError(w, r, "update_form.validate", err)
			return
		}

		// optimistic lock: a client sending its read version detects
		// edits that happened since; otherwise last read wins
		if payload.Version != 0 {
			f.Version = payload.Version
		}

		err = app.Forms.Update(r.Context(), f)
		if err != nil {
			writeError(w, r, "update_form.store", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"form": f,
		})
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ownedForm(app, r)
		if err != nil {
			writeError(w, r, "delete_form", err)
			return
		}

		err = app.Forms.Delete(r.Context(), f.ID)
		if err != nil {
			writeError(w, r, "delete_form.store", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"deleted": f.ID,
		})
	}
}

// ListResponses returns the raw response history, orphaned entries
// included.
func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ownedForm(app, r)
		if err != nil {
			writeError(w, r, "list_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": f.Responses,
		})
	}
}

// GetSummary returns the aggregated per-field view. A form with no
// responses yet is a valid, empty summary, not an error.
func GetSummary(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := ownedForm(app, r)
		if err != nil {
			writeError(w, r, "get_summary", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"title":  f.Title,
			"fields": form.Aggregate(f),
		})
	}
}

// ownedForm loads the form addressed by the URL and checks the caller
// is its creator.
func ownedForm(app app.App, r *http.Request) (*model.Form, error) {
	f, err := app.Forms.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	user := middlewares.Username(r)
	if f.Creator != user {
		return nil, form.UnauthorizedError{FormID: f.ID, User: user}
	}
	return f, nil
}
