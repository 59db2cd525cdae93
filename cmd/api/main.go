package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adstudio/internal/http/handlers"
	httpapi "adstudio/internal/http/httpapi"
	"adstudio/internal/infra"
	"adstudio/internal/providers/video"
	"adstudio/internal/session"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	backend := video.NewClient(video.Options{
		BaseURL:        cfg.BackendURL,
		Logger:         &logger,
		RequestTimeout: cfg.SubmitTimeout,
	})
	auth := session.NewAuthClient(session.AuthOptions{
		BaseURL:        cfg.AuthURL,
		AnonKey:        cfg.AuthAnonKey,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	app := handlers.NewApp(cfg, backend, auth, &logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("backend", cfg.BackendURL).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// In-flight submissions may take minutes; give them a bounded grace period.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
