package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/logger"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/queue"
	"github.com/orbit-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
		constants.OrderStatusRefunded:  true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusCompleted: true,
	},
}

func isTransitionAllowed(from, to string) bool {
	targets, ok := allowedTransitions[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return false
	}
	return targets[strings.ToLower(strings.TrimSpace(to))]
}

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	loyaltySvc  *LoyaltyService
	queueClient *queue.Client

	currency       string
	pendingTimeout time.Duration
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	RedeemPoints    int64
	ShippingAddress models.JSON
	BillingAddress  models.JSON
	ClientIP        string
}

// OrderPreview 下单前的金额预览
type OrderPreview struct {
	Items            []models.CartItem `json:"items"`
	Quote            QuoteResult       `json:"quote"`
	DiscountEligible bool              `json:"discount_eligible"`
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	loyaltySvc *LoyaltyService,
	queueClient *queue.Client,
	currency string,
	pendingTimeout time.Duration,
) *OrderService {
	normalized := strings.ToUpper(strings.TrimSpace(currency))
	if normalized == "" {
		normalized = constants.SiteCurrencyDefault
	}
	if pendingTimeout <= 0 {
		pendingTimeout = 30 * time.Minute
	}
	return &OrderService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		loyaltySvc:     loyaltySvc,
		queueClient:    queueClient,
		currency:       normalized,
		pendingTimeout: pendingTimeout,
	}
}

// PreviewOrder 预览购物车结算金额，不产生任何副作用
func (s *OrderService) PreviewOrder(userID uint) (*OrderPreview, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	lines, err := buildPriceLines(items)
	if err != nil {
		return nil, err
	}
	eligible, err := s.loyaltySvc.DiscountEligible(userID)
	if err != nil {
		return nil, err
	}
	quote, err := Quote(lines, eligible)
	if err != nil {
		return nil, err
	}
	return &OrderPreview{
		Items:            items,
		Quote:            quote,
		DiscountEligible: eligible,
	}, nil
}

// CreateOrder 从购物车创建订单
// 校验、计价、扣库存、落订单、扣积分、清购物车在同一事务内完成，
// 任何一步失败整体回滚。库存扣减使用条件更新，并发下单不会超卖。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrNotFound
	}

	var created *models.Order
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		items, err := cartRepo.ListByUser(input.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// 折扣资格与扣减动作读同一事务视图
		eligible, err := s.loyaltySvc.DiscountEligibleInTx(tx, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now()
		orderItems := make([]models.OrderItem, 0, len(items))
		lines := make([]PriceLine, 0, len(items))
		for _, item := range items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if !product.IsActive {
				return ErrProductNotAvailable
			}
			if item.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			ok, err := productRepo.ReserveStock(product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStockUnavailable
			}

			lineTotal := product.PriceAmount.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.PriceAmount,
				Quantity:    item.Quantity,
				TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:   now,
			})
			lines = append(lines, PriceLine{UnitPrice: product.PriceAmount, Quantity: item.Quantity})
		}

		quote, err := Quote(lines, eligible)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          input.UserID,
			Status:          constants.OrderStatusPending,
			Currency:        s.currency,
			SubtotalAmount:  quote.Subtotal,
			DiscountAmount:  quote.Discount,
			TaxAmount:       quote.Tax,
			ShippingAmount:  quote.Shipping,
			TotalAmount:     quote.Total,
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  input.BillingAddress,
			ClientIP:        strings.TrimSpace(input.ClientIP),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return ErrOrderCreateFailed
		}

		if input.RedeemPoints > 0 {
			if _, err := s.loyaltySvc.RedeemForOrderInTx(tx, input.UserID, order.ID, input.RedeemPoints); err != nil {
				return err
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("points_redeemed", input.RedeemPoints).Error; err != nil {
				return ErrOrderUpdateFailed
			}
			order.PointsRedeemed = input.RedeemPoints
		}

		if err := cartRepo.ClearByUser(input.UserID); err != nil {
			return err
		}

		order.Items = orderItems
		created = order
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: created.ID}, s.pendingTimeout); err != nil {
		logger.Warnw("enqueue_order_timeout_cancel_failed", "order_id", created.ID, "error", err)
	}
	return created, nil
}

// GetOrderForUser 获取用户订单详情
func (s *OrderService) GetOrderForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForUser 获取用户订单列表
func (s *OrderService) ListOrdersForUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// GetOrder 管理端获取订单详情
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersAdmin 管理端订单列表
func (s *OrderService) ListOrdersAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// UpdateOrderStatus 管理端推进订单状态
// 目标状态与当前状态相同时视为无操作成功，非法流转返回错误。
// 进入 completed 时在同一事务内完成积分入账。
func (s *OrderService) UpdateOrderStatus(orderID uint, newStatus string) (*models.Order, error) {
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))
	var result *models.Order
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == newStatus {
			result = order
			return nil
		}
		if !isTransitionAllowed(order.Status, newStatus) {
			return ErrOrderTransitionInvalid
		}

		now := time.Now()
		updates := map[string]interface{}{"updated_at": now}
		switch newStatus {
		case constants.OrderStatusProcessing:
			if order.PaidAt == nil {
				updates["paid_at"] = now
			}
		case constants.OrderStatusCompleted:
			updates["completed_at"] = now
			txn, err := s.loyaltySvc.HandleOrderCompletedInTx(tx, order)
			if err != nil {
				return err
			}
			if txn != nil {
				updates["points_earned"] = txn.Points
			}
		case constants.OrderStatusCancelled:
			updates["cancelled_at"] = now
			if err := s.releaseOrderInTx(tx, order); err != nil {
				return err
			}
		case constants.OrderStatusRefunded:
			updates["refunded_at"] = now
			if err := s.releaseOrderInTx(tx, order); err != nil {
				return err
			}
		}
		if err := orderRepo.UpdateStatus(order.ID, newStatus, updates); err != nil {
			return ErrOrderUpdateFailed
		}
		order.Status = newStatus
		result = order
		return nil
	}); err != nil {
		return nil, err
	}

	s.notifyStatusChanged(result, newStatus)
	if newStatus == constants.OrderStatusRefunded {
		if err := s.queueClient.EnqueueRefundIntent(queue.RefundIntentPayload{OrderID: result.ID}); err != nil {
			logger.Warnw("enqueue_refund_intent_failed", "order_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// CancelOrder 用户取消订单
// 已取消或已退款的订单重复取消视为无操作成功。已支付订单走退款路径，
// 未支付订单直接取消。两条路径都回补库存并冲正积分。
func (s *OrderService) CancelOrder(userID, orderID uint) (*models.Order, error) {
	var result *models.Order
	var refundRequested bool
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || (userID != 0 && order.UserID != userID) {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusRefunded {
			result = order
			return nil
		}
		if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusProcessing {
			return ErrOrderTransitionInvalid
		}

		now := time.Now()
		targetStatus := constants.OrderStatusCancelled
		updates := map[string]interface{}{"updated_at": now}
		if order.PaidAt != nil {
			targetStatus = constants.OrderStatusRefunded
			updates["refunded_at"] = now
			refundRequested = true
		} else {
			updates["cancelled_at"] = now
		}

		if err := s.releaseOrderInTx(tx, order); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(order.ID, targetStatus, updates); err != nil {
			return ErrOrderUpdateFailed
		}
		order.Status = targetStatus
		result = order
		return nil
	}); err != nil {
		return nil, err
	}

	s.notifyStatusChanged(result, result.Status)
	if refundRequested {
		if err := s.queueClient.EnqueueRefundIntent(queue.RefundIntentPayload{OrderID: result.ID}); err != nil {
			logger.Warnw("enqueue_refund_intent_failed", "order_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// CancelExpiredOrder 取消超时未支付订单，非待支付状态直接跳过
func (s *OrderService) CancelExpiredOrder(orderID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.Status != constants.OrderStatusPending {
			return nil
		}
		if order.PaidAt != nil {
			return nil
		}
		now := time.Now()
		if err := s.releaseOrderInTx(tx, order); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"cancelled_at": now,
			"updated_at":   now,
		}); err != nil {
			return ErrOrderUpdateFailed
		}
		return nil
	})
}

// MarkOrderPaidInTx 事务内确认订单支付成功
// 仅待支付订单会被推进到处理中，其余状态原样返回。
func (s *OrderService) MarkOrderPaidInTx(tx *gorm.DB, orderID uint) (*models.Order, error) {
	orderRepo := s.orderRepo.WithTx(tx)
	order, err := orderRepo.GetByIDForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	now := time.Now()
	if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusProcessing, map[string]interface{}{
		"paid_at":    now,
		"updated_at": now,
	}); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusProcessing
	order.PaidAt = &now
	return order, nil
}

// MarkOrderRefundedInTx 事务内确认退款到账
func (s *OrderService) MarkOrderRefundedInTx(tx *gorm.DB, orderID uint) (*models.Order, error) {
	orderRepo := s.orderRepo.WithTx(tx)
	order, err := orderRepo.GetByIDForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.RefundedAt != nil {
		return order, nil
	}
	now := time.Now()
	updates := map[string]interface{}{
		"refunded_at": now,
		"updated_at":  now,
	}
	if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusRefunded, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = constants.OrderStatusRefunded
	order.RefundedAt = &now
	return order, nil
}

// releaseOrderInTx 回补库存并冲正积分
// StockRestoredAt 作为回补标记，条件更新保证同一订单只回补一次。
func (s *OrderService) releaseOrderInTx(tx *gorm.DB, order *models.Order) error {
	if order == nil {
		return nil
	}
	if err := s.loyaltySvc.ReverseOrderInTx(tx, order); err != nil {
		return err
	}
	if order.StockRestoredAt != nil {
		return nil
	}
	now := time.Now()
	result := tx.Model(&models.Order{}).
		Where("id = ? AND stock_restored_at IS NULL", order.ID).
		Update("stock_restored_at", now)
	if result.Error != nil {
		return ErrOrderUpdateFailed
	}
	if result.RowsAffected == 0 {
		return nil
	}
	productRepo := s.productRepo.WithTx(tx)
	for _, item := range order.Items {
		if err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	order.StockRestoredAt = &now
	return nil
}

func (s *OrderService) notifyStatusChanged(order *models.Order, status string) {
	if order == nil {
		return
	}
	if err := s.queueClient.EnqueueNotificationDispatch(queue.NotificationDispatchPayload{
		Event:   constants.NotificationEventOrderStatusChanged,
		UserID:  order.UserID,
		OrderID: order.ID,
		Detail:  status,
	}); err != nil {
		logger.Warnw("enqueue_notification_failed", "order_id", order.ID, "error", err)
	}
}

// generateOrderNo 生成订单号
func generateOrderNo() string {
	return "OS" + time.Now().Format("20060102150405") + randNumeric(6)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func buildPriceLines(items []models.CartItem) ([]PriceLine, error) {
	lines := make([]PriceLine, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, ErrProductNotFound
		}
		if !item.Product.IsActive {
			return nil, ErrProductNotAvailable
		}
		lines = append(lines, PriceLine{UnitPrice: item.Product.PriceAmount, Quantity: item.Quantity})
	}
	return lines, nil
}
