package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inspecthub/internal/authserver"
	"inspecthub/internal/platform/config"
	"inspecthub/internal/platform/logger"
)

// main wires the dev auth server and keeps the lifecycle small. Request
// handling lives in internal/authserver.
func main() {
	cfg := config.ServerFromEnv()
	log := logger.New()

	issuer := authserver.NewIssuer(cfg.JWTSigningKey, cfg.TokenTTL)
	server, err := authserver.New(issuer, cfg.RefreshTTL, authserver.WithLogger(log))
	if err != nil {
		log.Error("failed to initialize auth server", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Mount("/api", server.Router())
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting auth server",
		"addr", cfg.Addr,
		"token_ttl", cfg.TokenTTL.String(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
