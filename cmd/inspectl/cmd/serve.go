package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"inspecthub/internal/authserver"
	"inspecthub/internal/platform/config"
	"inspecthub/internal/platform/logger"
)

// serveCmd runs the embedded dev auth server so a full local stack needs no
// second binary. cmd/authd is the standalone equivalent.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the embedded development auth server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.ServerFromEnv()
		log := logger.New()

		issuer := authserver.NewIssuer(cfg.JWTSigningKey, cfg.TokenTTL)
		server, err := authserver.New(issuer, cfg.RefreshTTL, authserver.WithLogger(log))
		if err != nil {
			return err
		}

		router := chi.NewRouter()
		router.Mount("/api", server.Router())
		router.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		log.Info("starting embedded auth server", "addr", cfg.Addr)
		go func() {
			<-cmd.Context().Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
