package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/commerce-invoicing/pkg/config"
)

// RedisOpt traduce la configuración de Redis a la opción de conexión de asynq.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// Client encola eventos de pedido.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente asynq.
func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

// EnqueueOrderPlaced publica el evento order.placed.
func (c *Client) EnqueueOrderPlaced(ctx context.Context, orderID string) (*asynq.TaskInfo, error) {
	task, err := NewOrderPlacedTask(orderID)
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("queue: encolar order.placed: %w", err)
	}
	return info, nil
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}
