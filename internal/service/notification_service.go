package service

import (
	"strings"

	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/logger"
	"github.com/orbit-shop/internal/repository"
)

// NotificationService 通知分发服务
// 当前实现将事件落结构化日志，后续接入邮件或 IM 渠道时在 Dispatch 内扩展。
type NotificationService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(userRepo repository.UserRepository, orderRepo repository.OrderRepository) *NotificationService {
	return &NotificationService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// Dispatch 分发通知事件
func (s *NotificationService) Dispatch(event string, userID, orderID uint, detail string) error {
	event = strings.ToLower(strings.TrimSpace(event))
	switch event {
	case constants.NotificationEventOrderStatusChanged:
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return nil
		}
		logger.Infow("notify_order_status_changed",
			"user_id", order.UserID,
			"order_no", order.OrderNo,
			"status", detail,
		)
	case constants.NotificationEventLoyaltyTierChanged:
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		logger.Infow("notify_loyalty_tier_changed",
			"user_id", user.ID,
			"tier", detail,
		)
	default:
		logger.Warnw("notify_unknown_event", "event", event)
	}
	return nil
}
