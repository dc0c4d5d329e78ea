package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/logger"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/payment/gateway"
	"github.com/orbit-shop/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	orderSvc    *OrderService
	gateway     *gateway.Client
}

// ChargeResult 创建支付结果
type ChargeResult struct {
	Payment *models.Payment `json:"payment"`
	PayURL  string          `json:"pay_url"`
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	orderSvc *OrderService,
	gatewayClient *gateway.Client,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		orderSvc:    orderSvc,
		gateway:     gatewayClient,
	}
}

// CreateCharge 为订单创建网关支付
func (s *PaymentService) CreateCharge(ctx context.Context, userID, orderID uint) (*ChargeResult, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}
	if !s.gateway.Configured() {
		return nil, ErrGatewayUnavailable
	}

	resp, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		OrderID:  order.OrderNo,
		Amount:   order.TotalAmount.Decimal,
		Currency: order.Currency,
	})
	if err != nil {
		logger.Warnw("gateway_create_charge_failed", "order_id", order.ID, "error", err)
		return nil, ErrGatewayUnavailable
	}

	now := time.Now()
	payment := &models.Payment{
		PaymentNo:        generatePaymentNo(),
		OrderID:          order.ID,
		Kind:             constants.PaymentKindCharge,
		Amount:           order.TotalAmount,
		Currency:         order.Currency,
		Status:           constants.PaymentStatusInitiated,
		GatewayPaymentID: resp.PaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, ErrPaymentCreateFailed
	}
	return &ChargeResult{Payment: payment, PayURL: resp.PayURL}, nil
}

// HandleWebhook 处理网关回调
// 验签失败直接拒绝。同一回调重复投递时支付记录已处于终态，
// 原样确认且不再触碰订单，整个处理过程幂等。
func (s *PaymentService) HandleWebhook(body []byte, signature string) error {
	if !s.gateway.VerifySignature(body, signature) {
		return ErrWebhookSignatureInvalid
	}
	var event gateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ErrWebhookSignatureInvalid
	}
	status := strings.ToLower(strings.TrimSpace(event.Status))
	if status != constants.PaymentStatusSuccess && status != constants.PaymentStatusFailed {
		return ErrPaymentStatusInvalid
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetByGatewayPaymentIDForUpdate(event.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status == constants.PaymentStatusSuccess || payment.Status == constants.PaymentStatusFailed {
			return nil
		}

		now := time.Now()
		if status == constants.PaymentStatusFailed {
			payment.Status = constants.PaymentStatusFailed
			payment.UpdatedAt = now
			return paymentRepo.Update(payment)
		}

		if !event.Amount.Round(2).Equal(payment.Amount.Decimal.Round(2)) {
			return ErrPaymentAmountMismatch
		}

		payment.Status = constants.PaymentStatusSuccess
		payment.ConfirmedAt = &now
		payment.UpdatedAt = now
		payment.GatewayPayload = models.JSON{
			"payment_id": event.PaymentID,
			"status":     status,
			"amount":     event.Amount.StringFixed(2),
		}
		if err := paymentRepo.Update(payment); err != nil {
			return err
		}

		switch payment.Kind {
		case constants.PaymentKindCharge:
			_, err = s.orderSvc.MarkOrderPaidInTx(tx, payment.OrderID)
		case constants.PaymentKindRefund:
			_, err = s.orderSvc.MarkOrderRefundedInTx(tx, payment.OrderID)
		default:
			err = ErrPaymentStatusInvalid
		}
		return err
	})
}

// ProcessRefundIntent 处理退款请求任务
// 已存在退款记录时直接跳过，同一订单只会向网关发起一次退款。
func (s *PaymentService) ProcessRefundIntent(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusRefunded {
		return nil
	}

	payments, err := s.paymentRepo.ListByOrderID(order.ID)
	if err != nil {
		return err
	}
	var charge *models.Payment
	for i := range payments {
		p := &payments[i]
		if p.Kind == constants.PaymentKindRefund {
			return nil
		}
		if p.Kind == constants.PaymentKindCharge && p.Status == constants.PaymentStatusSuccess && charge == nil {
			charge = p
		}
	}
	if charge == nil {
		return nil
	}
	if !s.gateway.Configured() {
		return ErrGatewayUnavailable
	}

	resp, err := s.gateway.CreateRefund(ctx, gateway.RefundRequest{
		PaymentID: charge.GatewayPaymentID,
		OrderID:   order.OrderNo,
		Amount:    charge.Amount.Decimal,
		Currency:  charge.Currency,
	})
	if err != nil {
		logger.Warnw("gateway_create_refund_failed", "order_id", order.ID, "error", err)
		return ErrGatewayUnavailable
	}

	now := time.Now()
	refund := &models.Payment{
		PaymentNo:        generatePaymentNo(),
		OrderID:          order.ID,
		Kind:             constants.PaymentKindRefund,
		Amount:           charge.Amount,
		Currency:         charge.Currency,
		Status:           constants.PaymentStatusInitiated,
		GatewayPaymentID: resp.RefundID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.paymentRepo.Create(refund); err != nil {
		return ErrPaymentCreateFailed
	}
	return nil
}

// ListPaymentsForOrder 查询订单支付记录
func (s *PaymentService) ListPaymentsForOrder(userID, orderID uint) ([]models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.paymentRepo.ListByOrderID(order.ID)
}

// ListPaymentsAdmin 管理端支付列表
func (s *PaymentService) ListPaymentsAdmin(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

// generatePaymentNo 生成支付单号
func generatePaymentNo() string {
	return fmt.Sprintf("PM%s%s", time.Now().Format("20060102150405"), randNumeric(6))
}
