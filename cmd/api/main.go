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

	"github.com/jhoicas/commerce-invoicing/internal/bootstrap"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/commerce-invoicing/internal/interfaces/http"
	"github.com/jhoicas/commerce-invoicing/pkg/config"
	"github.com/jhoicas/commerce-invoicing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	if err := c.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	// Sembrado de la configuración de facturas (idempotente).
	if err := c.SeedInvoiceConfig(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrado")
	}

	events := queue.NewClient(queue.RedisOpt(cfg.Redis))
	defer events.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Commerce Invoicing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:      c.Invoices,
		InvoiceConfig: c.Config,
		Orders:        c.Orders,
		Resender:      c.Events,
		Publisher:     events,
		GiftCards:     c.Orders,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log.WithComponent("http"),
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
