package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/orbit-shop/internal/config"
	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/payment/gateway"
	"github.com/orbit-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *gorm.DB, *gateway.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.LoyaltyAccount{},
		&models.LoyaltyTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	loyaltySvc := NewLoyaltyService(repository.NewLoyaltyRepository(db), orderRepo)
	orderSvc := NewOrderService(orderRepo, repository.NewCartRepository(db), repository.NewProductRepository(db), loyaltySvc, nil, "GBP", time.Minute)
	gatewayClient := gateway.NewClient(config.GatewayConfig{
		BaseURL: "https://gateway.test",
		Secret:  "payment-test-secret",
	})
	return NewPaymentService(paymentRepo, orderRepo, orderSvc, gatewayClient), db, gatewayClient
}

func createPaymentTestOrder(t *testing.T, db *gorm.DB, userID uint, status string, total float64) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("OS%d%d", now.UnixNano(), userID),
		UserID:      userID,
		Status:      status,
		Currency:    "GBP",
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(total)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func createPaymentTestCharge(t *testing.T, db *gorm.DB, orderID uint, gatewayPaymentID string, total float64) *models.Payment {
	t.Helper()
	now := time.Now()
	payment := &models.Payment{
		PaymentNo:        fmt.Sprintf("PM%d", now.UnixNano()),
		OrderID:          orderID,
		Kind:             constants.PaymentKindCharge,
		Amount:           models.NewMoneyFromDecimal(decimal.NewFromFloat(total)),
		Currency:         "GBP",
		Status:           constants.PaymentStatusInitiated,
		GatewayPaymentID: gatewayPaymentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return payment
}

func signedWebhookBody(t *testing.T, client *gateway.Client, paymentID, status string, amount string) ([]byte, string) {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"payment_id":%q,"status":%q,"amount":%s}`, paymentID, status, amount))
	return body, client.Sign(body)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _, _ := setupPaymentServiceTest(t)
	body := []byte(`{"payment_id":"gw-1","status":"success","amount":10}`)
	if err := svc.HandleWebhook(body, "deadbeef"); !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("expected ErrWebhookSignatureInvalid, got %v", err)
	}
}

func TestHandleWebhookConfirmsChargeIdempotent(t *testing.T) {
	svc, db, client := setupPaymentServiceTest(t)
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusPending, 53.97)
	payment := createPaymentTestCharge(t, db, order.ID, "gw-charge-1", 53.97)

	body, sig := signedWebhookBody(t, client, "gw-charge-1", "success", "53.97")
	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}

	var reloadedPayment models.Payment
	if err := db.First(&reloadedPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloadedPayment.Status != constants.PaymentStatusSuccess {
		t.Fatalf("expected payment success, got %s", reloadedPayment.Status)
	}
	if reloadedPayment.ConfirmedAt == nil {
		t.Fatalf("expected confirmed_at set")
	}
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected order processing, got %s", reloadedOrder.Status)
	}
	if reloadedOrder.PaidAt == nil {
		t.Fatalf("expected paid_at set")
	}
	firstPaidAt := *reloadedOrder.PaidAt

	// 重复投递原样确认，不再触碰订单
	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("replayed webhook failed: %v", err)
	}
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloadedOrder.PaidAt.Equal(firstPaidAt) {
		t.Fatalf("expected paid_at unchanged on replay")
	}
}

func TestHandleWebhookAmountMismatch(t *testing.T) {
	svc, db, client := setupPaymentServiceTest(t)
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusPending, 53.97)
	payment := createPaymentTestCharge(t, db, order.ID, "gw-charge-2", 53.97)

	body, sig := signedWebhookBody(t, client, "gw-charge-2", "success", "10.00")
	if err := svc.HandleWebhook(body, sig); !errors.Is(err, ErrPaymentAmountMismatch) {
		t.Fatalf("expected ErrPaymentAmountMismatch, got %v", err)
	}

	var reloadedPayment models.Payment
	if err := db.First(&reloadedPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloadedPayment.Status != constants.PaymentStatusInitiated {
		t.Fatalf("expected payment untouched, got %s", reloadedPayment.Status)
	}
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending, got %s", reloadedOrder.Status)
	}
}

func TestHandleWebhookFailedPayment(t *testing.T) {
	svc, db, client := setupPaymentServiceTest(t)
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusPending, 20)
	payment := createPaymentTestCharge(t, db, order.ID, "gw-charge-3", 20)

	body, sig := signedWebhookBody(t, client, "gw-charge-3", "failed", "20")
	if err := svc.HandleWebhook(body, sig); err != nil {
		t.Fatalf("handle failed webhook: %v", err)
	}

	var reloadedPayment models.Payment
	if err := db.First(&reloadedPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloadedPayment.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected payment failed, got %s", reloadedPayment.Status)
	}
	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending for retry, got %s", reloadedOrder.Status)
	}
}

func TestHandleWebhookValidation(t *testing.T) {
	svc, _, client := setupPaymentServiceTest(t)

	body, sig := signedWebhookBody(t, client, "gw-missing", "success", "10")
	if err := svc.HandleWebhook(body, sig); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}

	body, sig = signedWebhookBody(t, client, "gw-missing", "refunding", "10")
	if err := svc.HandleWebhook(body, sig); !errors.Is(err, ErrPaymentStatusInvalid) {
		t.Fatalf("expected ErrPaymentStatusInvalid, got %v", err)
	}
}

func TestCreateChargeRequiresPendingOrder(t *testing.T) {
	svc, db, _ := setupPaymentServiceTest(t)
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusProcessing, 30)

	if _, err := svc.CreateCharge(context.Background(), 1, order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if _, err := svc.CreateCharge(context.Background(), 1, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := svc.CreateCharge(context.Background(), 2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign user, got %v", err)
	}
}

func TestCreateChargeUnconfiguredGateway(t *testing.T) {
	svc, db, _ := setupPaymentServiceTest(t)
	svc.gateway = gateway.NewClient(config.GatewayConfig{})
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusPending, 30)

	if _, err := svc.CreateCharge(context.Background(), 1, order.ID); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestProcessRefundIntentSkipsWithoutSuccessfulCharge(t *testing.T) {
	svc, db, _ := setupPaymentServiceTest(t)
	order := createPaymentTestOrder(t, db, 1, constants.OrderStatusRefunded, 30)

	// 无成功支付记录时不向网关发起退款
	if err := svc.ProcessRefundIntent(context.Background(), order.ID); err != nil {
		t.Fatalf("refund intent without charge should be skipped, got %v", err)
	}
	var count int64
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no refund record, got %d", count)
	}

	if err := svc.ProcessRefundIntent(context.Background(), 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
