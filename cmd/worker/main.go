package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/commerce-invoicing/internal/bootstrap"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/queue"
	"github.com/jhoicas/commerce-invoicing/pkg/config"
	"github.com/jhoicas/commerce-invoicing/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	worker, err := queue.NewWorker(queue.WorkerConfig{
		RedisOpt:    queue.RedisOpt(cfg.Redis),
		Concurrency: cfg.Redis.Concurrency,
		OrderPlaced: queue.NewOrderPlacedJob(c.Events, log.WithComponent("order_placed")),
		Logger:      log.WithComponent("worker"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().Int("concurrency", cfg.Redis.Concurrency).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
