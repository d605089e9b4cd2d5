package recoverer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		h := New()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("panic", func(t *testing.T) {
		h := New()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("sink exploded")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/report", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "error: sink exploded", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("panic after headers were written", func(t *testing.T) {
		h := New()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte("partial"))
			panic("late failure")
		}))

		rec := httptest.NewRecorder()
		ww := chimiddleware.NewWrapResponseWriter(rec, 1)
		h.ServeHTTP(ww, httptest.NewRequest(http.MethodPost, "/api/report", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
	})

	t.Run("panic before headers with wrapped writer", func(t *testing.T) {
		h := New()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("early failure")
		}))

		rec := httptest.NewRecorder()
		ww := chimiddleware.NewWrapResponseWriter(rec, 1)
		h.ServeHTTP(ww, httptest.NewRequest(http.MethodPost, "/api/report", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "error: early failure", rec.Body.String())
	})

	t.Run("abort handler", func(t *testing.T) {
		h := New()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
