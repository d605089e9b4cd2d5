// Package http provides the HTTP delivery layer for the phishing report service.
// It contains the router, the report intake handler and related request types.
package http

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/phishing-reporter/docs"
	"github.com/vadimbarashkov/phishing-reporter/internal/entity"
	"github.com/vadimbarashkov/phishing-reporter/pkg/middleware/recoverer"
)

// ReportService defines the interface for the report intake business logic.
type ReportService interface {
	// SubmitReport stores the reported url together with the time it was received.
	// It returns the stored report or an error if the report could not be saved.
	SubmitReport(url string) (*entity.Report, error)
}

// RouterOptions holds settings that differ between deployments.
type RouterOptions struct {
	// AllowedOrigins lists the origins permitted by the CORS policy.
	// An empty list permits every origin.
	AllowedOrigins []string
}

// getValidate initializes a new validator instance that reports json field names.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a chi router configured with middleware and routes for the report API.
func NewRouter(logger *httplog.Logger, reportSvc ReportService, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.SwaggerYAML)
	})

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Get("/ping", handlePing)
		r.Post("/report", handleSubmitReport(reportSvc, validate))
	})

	return r
}
