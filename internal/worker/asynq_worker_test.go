package worker

import (
	"context"
	"testing"

	"github.com/orbit-shop/internal/provider"
	"github.com/orbit-shop/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleOrderTimeoutCancelSkipsInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`{"order_id":0}`))
	if err := c.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}

	task = asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`not-json`))
	if err := c.handleOrderTimeoutCancel(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should return error")
	}
}

func TestHandleRefundIntentSkipsWhenServiceMissing(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskPaymentRefundIntent, []byte(`{"order_id":42}`))
	if err := c.handleRefundIntent(context.Background(), task); err != nil {
		t.Fatalf("missing payment service should be skipped, got %v", err)
	}
}

func TestHandleNotificationDispatchSkipsEmptyEvent(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskNotificationDispatch, []byte(`{"event":""}`))
	if err := c.handleNotificationDispatch(context.Background(), task); err != nil {
		t.Fatalf("empty event should be skipped, got %v", err)
	}
}

func TestHandlersTolerateNilTask(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	if err := c.handleOrderTimeoutCancel(context.Background(), nil); err != nil {
		t.Fatalf("nil task should be skipped, got %v", err)
	}
	if err := c.handleRefundIntent(context.Background(), nil); err != nil {
		t.Fatalf("nil task should be skipped, got %v", err)
	}
	if err := c.handleNotificationDispatch(context.Background(), nil); err != nil {
		t.Fatalf("nil task should be skipped, got %v", err)
	}
}
