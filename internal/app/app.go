package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/phishing-reporter/internal/config"
	"github.com/vadimbarashkov/phishing-reporter/internal/service"
	"github.com/vadimbarashkov/phishing-reporter/internal/sink"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/vadimbarashkov/phishing-reporter/internal/api/http"
)

const serviceName = "phishing-reporter"

// NewLogger returns the request logger for cfg.Env: concise text in dev, JSON elsewhere.
func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		JSON:           cfg.Env != config.EnvDev,
		Concise:        cfg.Env == config.EnvDev,
		LogLevel:       slog.LevelInfo,
		RequestHeaders: cfg.Env != config.EnvDev,
		Tags: map[string]string{
			"env": cfg.Env,
		},
	})
}

// NewHandler wires the file sink, the report service and the router.
func NewHandler(cfg *config.Config, logger *httplog.Logger) http.Handler {
	fileSink := sink.NewFileSink(sink.Config{TargetPath: cfg.Sink.TargetPath})
	reportSvc := service.NewReportService(fileSink)

	return myhttp.NewRouter(logger, reportSvc, myhttp.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
}

// Run serves the report API until ctx is done, then shuts the server down.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        NewHandler(cfg, logger),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("target_path", cfg.Sink.TargetPath),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
