package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"askRoomWeb/internal/config"
	"askRoomWeb/internal/modules/rooms/application/handler"
	"askRoomWeb/internal/modules/rooms/application/usecase"
	"askRoomWeb/internal/modules/rooms/infrastructure"
	transport "askRoomWeb/internal/modules/rooms/interface"
	"askRoomWeb/internal/platform/broker"
	"askRoomWeb/internal/shared/auth"
	"askRoomWeb/internal/shared/logging"
)

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("backend configured", slog.String("baseUrl", cfg.Backend.BaseURL), slog.Duration("timeout", cfg.Backend.Timeout))
	if cfg.UsesDevSecret() {
		slog.Warn("SESSION_SECRET not set, using development secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := infrastructure.NewRoomsHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil)
	hub := infrastructure.NewHub()
	store := usecase.NewSessionStore(api, hub, cfg.Session.IdleTTL)
	signer := auth.NewSessionSigner(cfg.Session.Secret, cfg.Session.IdleTTL)
	go store.RunJanitor(ctx, cfg.Session.SweepInterval)

	checkBackend(ctx, api)

	registry := infrastructure.NewHandlerRegistry()
	for _, topic := range cfg.Kafka.Topics {
		registry.Register(handler.NewRoomEventsHandler(topic, cfg.Kafka.AllowedActions, store))
	}
	started := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Int("consumers", started))

	renderer, err := transport.NewTemplateRenderer()
	if err != nil {
		slog.Error("template parse failed", slog.Any("error", err))
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Renderer = renderer

	sessions := transport.SessionMiddleware(store, signer, transport.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.IdleTTL,
	})
	roomsHandler := transport.NewRoomsHandler(api, cfg.Server.UploadMaxBytes)
	roomsHandler.Register(e, sessions)
	e.GET("/healthz", roomsHandler.Health)
	e.GET("/ws", transport.NewWebsocketHandler(hub, store, signer, cfg.Session.CookieName, cfg.Websocket.Buffer))

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
}

func checkBackend(ctx context.Context, api *infrastructure.RoomsHTTPClient) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	health, err := api.Health(probeCtx)
	if err != nil {
		slog.Warn("backend health check failed", slog.Any("error", err))
		return
	}
	slog.Info("backend health", slog.String("status", health.Status), slog.String("message", health.Message), slog.Bool("online", health.Online()))
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	file, err := logging.OpenDailyFile(cfg.Directory, time.Now())
	if err != nil {
		return nil, nil, err
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
		Service:   "askroom-web",
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
