package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agendavel/agendavel/internal/events"
	"github.com/agendavel/agendavel/internal/handlers"
	"github.com/agendavel/agendavel/internal/lifecycle"
	"github.com/agendavel/agendavel/internal/messages"
	"github.com/agendavel/agendavel/internal/profile"
	"github.com/agendavel/agendavel/internal/registry"
	"github.com/agendavel/agendavel/internal/reminders"
	"github.com/agendavel/agendavel/internal/storage"
	"github.com/agendavel/agendavel/libs/config"
	"github.com/agendavel/agendavel/libs/httpx"
	"github.com/agendavel/agendavel/libs/kafkax"
	otelx "github.com/agendavel/agendavel/libs/otel"
	"github.com/agendavel/agendavel/libs/redisx"
	"github.com/agendavel/agendavel/libs/runtime"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "agenda-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	loc, err := time.LoadLocation(config.String("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		logger.Error("invalid TIMEZONE, falling back to UTC", "err", err)
		loc = time.UTC
	}
	clock := func() time.Time { return time.Now().In(loc) }

	prof, err := profile.Get(config.String("PROFILE", "odonto"))
	if err != nil {
		panic(err)
	}
	logger.Info("business profile loaded", "profile", prof.ID, "services", len(prof.Services))

	var apptStore lifecycle.CollectionStore
	var msgStore messages.Persister
	rdb, err := redisx.Open(ctx, config.String("REDIS_URL", "redis://localhost:6379/0"))
	if err != nil {
		// The engine is correct without persistence; it just forgets on restart.
		logger.Error("redis unavailable, using in-memory storage", "err", err)
		mem := storage.NewMemoryStore()
		apptStore, msgStore = mem, mem
	} else {
		defer func() { _ = rdb.Close() }()
		store := storage.NewRedisStore(rdb, config.String("STORAGE_PREFIX", "agendavel"))
		apptStore, msgStore = store, store
	}

	brokers := config.String("KAFKA_BROKERS", "")
	publisher := events.NewPublisher(logger, brokers)
	go publisher.Run(ctx)

	manager := lifecycle.NewManager(lifecycle.ManagerConfig{
		Store:  apptStore,
		Events: publisher,
		Policy: prof.Policy,
		Logger: logger,
		Now:    clock,
	})
	if err := manager.Load(ctx); err != nil {
		logger.Error("failed to load appointments", "err", err)
	}

	msgLog := messages.NewLog(messages.LogConfig{Store: msgStore, Logger: logger, Now: clock})
	if err := msgLog.Load(ctx); err != nil {
		logger.Error("failed to load messages", "err", err)
	}

	var reg *registry.Registry
	if seedPath := config.String("SEED_FILE", ""); seedPath != "" {
		reg, err = registry.LoadFile(seedPath, logger)
		if err != nil {
			logger.Error("failed to load seed file", "path", seedPath, "err", err)
			reg = registry.New(nil, nil, logger)
		}
	} else {
		logger.Warn("SEED_FILE not configured; reference data is empty")
		reg = registry.New(nil, nil, logger)
	}

	dispatcher := reminders.NewDispatcher(reminders.DispatcherConfig{
		Manager:  manager,
		Registry: reg,
		Log:      msgLog,
		Profile:  prof,
		Events:   publisher,
		Logger:   logger,
		Now:      clock,
	})

	go lifecycle.NewSweeper("expired-reservations", config.Seconds("RESERVATION_SWEEP_SECONDS", 30*time.Second), logger, manager.SweepExpiredReservations).Run(ctx)
	go lifecycle.NewSweeper("no-show", config.Seconds("NOSHOW_SWEEP_SECONDS", 60*time.Second), logger, manager.SweepNoShows).Run(ctx)
	go lifecycle.NewSweeper("reminders", config.Seconds("REMINDER_SWEEP_SECONDS", 60*time.Second), logger, dispatcher.CheckReminders).Run(ctx)

	handler := handlers.New(manager, reg, msgLog, prof, logger)

	var checks []runtime.ReadyCheck
	if rdb != nil {
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: redisx.ReadyCheck(rdb)})
	}
	if brokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(checks...)

	mux.HandleFunc("/api/v1/slots", handler.Slots)
	mux.HandleFunc("/api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handler.Create(w, r)
		default:
			handler.List(w, r)
		}
	})
	mux.HandleFunc("/api/v1/appointments/confirm", handler.Confirm)
	mux.HandleFunc("/api/v1/appointments/cancel", handler.Cancel)
	mux.HandleFunc("/api/v1/appointments/complete", handler.Complete)
	mux.HandleFunc("/api/v1/appointments/no-show", handler.NoShow)
	mux.HandleFunc("/api/v1/appointments/reschedule", handler.Reschedule)
	mux.HandleFunc("/api/v1/messages", handler.Messages)
	mux.HandleFunc("/api/v1/messages/unread-count", handler.UnreadCount)
	mux.HandleFunc("/api/v1/patients", handler.Patients)
	mux.HandleFunc("/api/v1/professionals", handler.Professionals)
	mux.HandleFunc("/api/v1/services", handler.Services)
	mux.HandleFunc("/api/v1/reports/metrics", handler.Reports)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1 << 20),
		httpx.WithTimeout(15 * time.Second),
	}
	if origins := config.String("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		middlewares = append(middlewares, httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(origins, ","),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}))
	}
	if rdb != nil {
		limiter := httpx.NewRedisRateLimiter(rdb, config.Int("RATE_LIMIT_PER_MINUTE", 120), time.Minute, service)
		middlewares = append(middlewares, limiter.Middleware(logger, true))
	}

	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, "agenda")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
