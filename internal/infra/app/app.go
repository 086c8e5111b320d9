package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/config"
	"github.com/primegourmet/phone-auth/internal/infra/identity"
	kafkainfra "github.com/primegourmet/phone-auth/internal/infra/kafka"
	"github.com/primegourmet/phone-auth/internal/infra/logger"
	"github.com/primegourmet/phone-auth/internal/infra/notification"
	redisinfra "github.com/primegourmet/phone-auth/internal/infra/redis"
	"github.com/primegourmet/phone-auth/internal/infra/telemetry"
	redisrepo "github.com/primegourmet/phone-auth/internal/repository/redis"
	"github.com/primegourmet/phone-auth/internal/transport/http/middleware"
	"github.com/primegourmet/phone-auth/internal/transport/http/routes"
	"github.com/primegourmet/phone-auth/internal/usecase"
)

// Application bundles the development server: the registration handshake
// backed by Redis, an in-memory identity provider, and log-only SMS delivery.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
	tracer *telemetry.TracerProvider
}

// New wires the devserver dependencies.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics, err := telemetry.NewAuthMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	httpMetrics, err := middleware.NewHTTPMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.TracingEnabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	pendingStore := redisrepo.NewPendingRegistrationStore(redisClient.Client(), cfg.Redis.PendingPrefix)

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	isDev := cfg.App.Env == "development"
	sender := notification.NewLogSender(log, isDev)
	provider := identity.NewLocalProvider(cfg.LocalAuth.JWTSecret, cfg.LocalAuth.AccessTokenTTL, log)

	registrationService := usecase.NewRegistrationService(pendingStore, provider, sender, eventPublisher, metrics, log).
		WithPendingTTL(cfg.Registration.PendingTTL)

	engine := routes.Register(routes.Dependencies{
		Config:       cfg,
		Logger:       log,
		Registration: registrationService,
		HTTPMetrics:  httpMetrics,
		Cache:        redisClient,
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		redis:  redisClient,
		kafka:  producer,
		tracer: tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			_ = a.tracer.Shutdown(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting phone-auth devserver",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
