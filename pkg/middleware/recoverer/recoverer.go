package recoverer

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/vadimbarashkov/phishing-reporter/pkg/middleware"
)

// New returns middleware that turns a handler panic into a plain text 500
// response of the form "error: <panic value>". The panic value and stack are
// attached to the request log entry.
//
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
// When the handler already sent a status line only the log entry is written.
func New() middleware.Middleware {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				httplog.LogEntrySetFields(r.Context(), map[string]any{
					"op":    op,
					"panic": fmt.Sprint(rec),
					"stack": string(debug.Stack()),
				})

				if ww, ok := w.(chimiddleware.WrapResponseWriter); ok && ww.Status() != 0 {
					return
				}

				render.Status(r, http.StatusInternalServerError)
				render.PlainText(w, r, fmt.Sprintf("error: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
