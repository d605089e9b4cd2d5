package http

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	savedMsg      = "saved"
	missingURLMsg = "missing url"
	errorPrefix   = "error: "
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

// reportRequest is the body of a report submission.
type reportRequest struct {
	URL string `json:"url" validate:"required"`
}

// handleSubmitReport accepts a reported url and hands it to svc.
// Responses are plain text: "saved", "missing url" or "error: <message>".
func handleSubmitReport(svc ReportService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleSubmitReport"

	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest

		// Empty and malformed bodies are reported the same way as a missing field.
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, missingURLMsg)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.PlainText(w, r, missingURLMsg)
			return
		}

		report, err := svc.SubmitReport(req.URL)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.PlainText(w, r, errorPrefix+failureMessage(err))
			return
		}

		httplog.LogEntrySetField(r.Context(), "url", slog.StringValue(report.URL))

		render.Status(r, http.StatusOK)
		render.PlainText(w, r, savedMsg)
	}
}

// failureMessage returns the text of the underlying filesystem error when
// there is one, without the operation prefixes added along the way.
func failureMessage(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Error()
	}

	return err.Error()
}
