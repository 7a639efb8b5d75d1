package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pr4th4meshh/respondly/form"
	"github.com/pr4th4meshh/respondly/httpx"
	"github.com/pr4th4meshh/respondly/log"
)

// writeError maps the engine's error taxonomy onto HTTP statuses. The
// engine itself never logs or touches the transport.
func writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var (
		notFound     form.NotFoundError
		unauthorized form.UnauthorizedError
		validation   *form.ValidationError
		conflict     form.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		httpx.LogNotFound(w, code, notFound.ID)
	case errors.As(err, &unauthorized):
		httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, code)
	case errors.As(err, &validation):
		log.Debugf("%s: %s", code, validation)
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]any{
			"errors": validation.Reasons,
		})
	case errors.As(err, &conflict):
		httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, code)
	default:
		httpx.LogInternalError(w, code, err)
	}
}
