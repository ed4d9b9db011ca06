package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/queue"
)

type fakeEvents struct {
	calls []string
	err   error
}

func (f *fakeEvents) HandleOrderPlaced(_ context.Context, orderID string) error {
	f.calls = append(f.calls, orderID)
	return f.err
}

func TestEnqueueOrderPlaced(t *testing.T) {
	mr := miniredis.RunT(t)
	c := queue.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })

	info, err := c.EnqueueOrderPlaced(context.Background(), "order_1")
	require.NoError(t, err)
	assert.Equal(t, queue.TaskOrderPlaced, info.Type)
	assert.Equal(t, queue.QueueDefault, info.Queue)
	assert.JSONEq(t, `{"order_id":"order_1"}`, string(info.Payload))

	pending, err := mr.List("asynq:{default}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestEnqueueOrderPlaced_SinID(t *testing.T) {
	mr := miniredis.RunT(t)
	c := queue.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.EnqueueOrderPlaced(context.Background(), "")
	assert.Error(t, err)
}

func TestOrderPlacedJob_Handle(t *testing.T) {
	events := &fakeEvents{}
	job := queue.NewOrderPlacedJob(events, zerolog.Nop())

	task, err := queue.NewOrderPlacedTask("order_1")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, []string{"order_1"}, events.calls)
}

func TestOrderPlacedJob_FalloNoSeReintenta(t *testing.T) {
	events := &fakeEvents{err: errors.New("smtp down")}
	job := queue.NewOrderPlacedJob(events, zerolog.Nop())

	task, err := queue.NewOrderPlacedTask("order_1")
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestOrderPlacedJob_PayloadInvalido(t *testing.T) {
	events := &fakeEvents{}
	job := queue.NewOrderPlacedJob(events, zerolog.Nop())

	err := job.Handle(context.Background(), asynq.NewTask(queue.TaskOrderPlaced, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, events.calls)
}

func TestNewWorker_SinHandler(t *testing.T) {
	_, err := queue.NewWorker(queue.WorkerConfig{RedisOpt: asynq.RedisClientOpt{Addr: "localhost:0"}})
	assert.Error(t, err)
}
