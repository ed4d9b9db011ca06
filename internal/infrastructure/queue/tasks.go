// Package queue transporta los eventos de pedido sobre Redis (asynq): el API
// encola order.placed y el worker lo consume para facturar y notificar.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	// QueueDefault cola única de eventos de pedido.
	QueueDefault = "default"
	// TaskOrderPlaced evento emitido al completarse un pedido.
	TaskOrderPlaced = "order:placed"
)

// OrderPlacedPayload cuerpo del evento order.placed.
type OrderPlacedPayload struct {
	OrderID string `json:"order_id"`
}

// NewOrderPlacedTask construye la tarea asynq del evento.
func NewOrderPlacedTask(orderID string) (*asynq.Task, error) {
	if orderID == "" {
		return nil, errors.New("queue: order_id vacío")
	}
	body, err := json.Marshal(OrderPlacedPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body, asynq.Queue(QueueDefault)), nil
}

// OrderPlacedHandler lógica de negocio invocada por el worker (billing.OrderEvents).
type OrderPlacedHandler interface {
	HandleOrderPlaced(ctx context.Context, orderID string) error
}

// OrderPlacedJob adapta OrderPlacedHandler a asynq.
type OrderPlacedJob struct {
	events OrderPlacedHandler
	log    zerolog.Logger
}

// NewOrderPlacedJob construye el job.
func NewOrderPlacedJob(events OrderPlacedHandler, log zerolog.Logger) *OrderPlacedJob {
	return &OrderPlacedJob{events: events, log: log}
}

// Handle procesa TaskOrderPlaced. Los fallos no se reintentan: el email puede
// haberse enviado ya y un reintento lo duplicaría.
func (j *OrderPlacedJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrderPlacedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.OrderID == "" {
		j.log.Warn().Bytes("payload", t.Payload()).Msg("queue: payload order.placed inválido")
		return fmt.Errorf("queue: payload inválido: %w", asynq.SkipRetry)
	}

	if err := j.events.HandleOrderPlaced(ctx, payload.OrderID); err != nil {
		j.log.Error().Err(err).Str("order_id", payload.OrderID).Msg("queue: order.placed fallido")
		return fmt.Errorf("queue: order %s: %v: %w", payload.OrderID, err, asynq.SkipRetry)
	}
	j.log.Info().Str("order_id", payload.OrderID).Msg("queue: order.placed procesado")
	return nil
}
