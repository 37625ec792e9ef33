package command

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	_ "github.com/TanushriS/IntelliQRHelp/docs" // This is required for swagger
	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/handlers"
	"github.com/TanushriS/IntelliQRHelp/internal/logger"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
	"github.com/TanushriS/IntelliQRHelp/internal/notify"
	"github.com/TanushriS/IntelliQRHelp/internal/profile"
	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/routes"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

// sessionFlushTimeout bounds how long shutdown waits for queued profile writes
const sessionFlushTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	st, err := store.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			log.Warnw("store close failed", "error", err)
		}
	}()

	resolver := qr.NewResolver(cfg.QR, st, log)
	sessions, err := profile.NewManager(st, resolver, profile.PolicyFromConfig(cfg.Sync), cfg.Session.CacheSize, log)
	if err != nil {
		return err
	}
	limiter := middleware.NewRateLimiter(cfg.Public.RateLimitRPS, cfg.Public.RateLimitBurst)
	defer limiter.Stop()

	mux := routes.SetupRoutes(routes.Handlers{
		Auth:          handlers.NewAuthHandler(st, sessions, &cfg.JWT, log),
		GoogleAuth:    handlers.NewGoogleAuthHandler(st, cfg, log),
		Health:        handlers.NewHealthHandler(st, cfg.Store.Driver),
		Profile:       handlers.NewProfileHandler(sessions, qr.NewImageClient(cfg.QR.FetchTimeout), log),
		PublicProfile: handlers.NewPublicProfileHandler(resolver, log),
		SOS:           handlers.NewSOSHandler(notify.NewTelegramNotifier(cfg.SOS, log), log),
	}, &cfg.JWT, limiter)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           middleware.RequestLogger(log)(c.Handler(mux)),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("HTTP server listening", "port", cfg.Server.Port, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("server shutdown error", "error", err)
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), sessionFlushTimeout)
	defer cancelFlush()
	sessions.Close(flushCtx)

	log.Info("Server stopped.")
	return nil
}
