package queue

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker envuelve el servidor asynq que consume los eventos de pedido.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    zerolog.Logger
}

// WorkerConfig dependencias del worker.
type WorkerConfig struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	OrderPlaced *OrderPlacedJob
	Logger      zerolog.Logger
}

// NewWorker construye el worker y registra los handlers.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.OrderPlaced == nil {
		return nil, errors.New("queue: handler order.placed no configurado")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, t *asynq.Task, err error) {
			cfg.Logger.Error().Err(err).Str("task", t.Type()).Msg("queue: tarea fallida")
		}),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOrderPlaced, cfg.OrderPlaced.Handle)
	return &Worker{server: srv, mux: mux, log: cfg.Logger}, nil
}

// Run procesa tareas hasta que se cancele el contexto.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.log.Info().Msg("queue: deteniendo worker")
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
