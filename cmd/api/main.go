package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/auth"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/backend"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/events"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/logging"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/memory"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/pdf"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/smart-locker-kiosk/internal/interfaces/http"
	"github.com/jhoicas/smart-locker-kiosk/pkg/config"
	"github.com/jhoicas/smart-locker-kiosk/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}
	mode, ok := machine.ParseMode(cfg.Kiosk.CheckoutMode)
	if !ok {
		log.Fatal().Str("mode", cfg.Kiosk.CheckoutMode).Msg("KIOSK_CHECKOUT_MODE inválido")
	}

	ctx := context.Background()

	// Almacenamiento local: PostgreSQL o memoria (STORAGE_DRIVER=memory)
	var (
		carts   repository.CartRepository
		storage repository.StorageRepository
	)
	if cfg.DB.InMemory() {
		log.Warn().Msg("almacenamiento en memoria: el carrito no sobrevive reinicios")
		carts = memory.NewCartRepository()
		storage = memory.NewStorageRepository()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración de esquema")
		}
		carts = postgres.NewCartRepository(pool)
		storage = postgres.NewStorageRepository(pool)
	}

	// Eventos de pickup: Kafka si hay brokers, si no no-op
	var publisher ports.EventPublisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Component("kafka"))
		defer func() { _ = kp.Close() }()
		publisher = kp
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), cfg.Kiosk.LockerCount)
	sink := logging.NewNotificationSink(log.Component("notify"))

	var sessions *session.Manager
	m := metrics.New(func() float64 { return float64(sessions.Len()) })
	sessions = session.NewManager(client, carts, publisher, sink, m, mode)

	authUC := auth.NewAuthUseCase(client, storage, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Backend.Timeout() + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Smart Locker Kiosk API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Sessions:      sessions,
		Receipts:      infrapdf.NewReceiptGenerator(cfg.App.Name),
		Metrics:       m,
		JWTSecret:     cfg.JWT.Secret,
		AuthRateLimit: 30,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
