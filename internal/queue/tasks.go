package queue

import (
	"encoding/json"

	"github.com/orbit-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentRefundIntent 退款请求任务
	TaskPaymentRefundIntent = constants.TaskPaymentRefundIntent
	// TaskNotificationDispatch 通知分发任务
	TaskNotificationDispatch = constants.TaskNotificationDispatch
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// RefundIntentPayload 退款请求任务载荷
type RefundIntentPayload struct {
	OrderID uint `json:"order_id"`
}

// NotificationDispatchPayload 通知分发任务载荷
type NotificationDispatchPayload struct {
	Event   string `json:"event"`
	UserID  uint   `json:"user_id"`
	OrderID uint   `json:"order_id,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewRefundIntentTask 创建退款请求任务
func NewRefundIntentTask(payload RefundIntentPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentRefundIntent, body), nil
}

// NewNotificationDispatchTask 创建通知分发任务
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}
