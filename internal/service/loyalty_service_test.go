package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupLoyaltyServiceTest(t *testing.T) (*LoyaltyService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:loyalty_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyAccount{},
		&models.LoyaltyTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewLoyaltyService(repository.NewLoyaltyRepository(db), repository.NewOrderRepository(db)), db
}

func countLoyaltyTransactions(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	return count
}

func TestTierForLifetimePoints(t *testing.T) {
	cases := []struct {
		lifetime int64
		want     string
	}{
		{0, constants.LoyaltyTierBronze},
		{999, constants.LoyaltyTierBronze},
		{1000, constants.LoyaltyTierSilver},
		{2499, constants.LoyaltyTierSilver},
		{2500, constants.LoyaltyTierGold},
		{5000, constants.LoyaltyTierPlatinum},
		{99999, constants.LoyaltyTierPlatinum},
	}
	for _, c := range cases {
		if got := TierForLifetimePoints(c.lifetime); got != c.want {
			t.Fatalf("lifetime %d: expected %s, got %s", c.lifetime, c.want, got)
		}
	}
}

func TestGrantSignupBonusIdempotent(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	first, err := svc.GrantSignupBonusInTx(db, 1)
	if err != nil {
		t.Fatalf("grant signup bonus failed: %v", err)
	}
	if first.Points != constants.LoyaltySignupBonusDefault {
		t.Fatalf("expected bonus %d, got %d", constants.LoyaltySignupBonusDefault, first.Points)
	}

	second, err := svc.GrantSignupBonusInTx(db, 1)
	if err != nil {
		t.Fatalf("repeated grant failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing transaction returned, got new id %d", second.ID)
	}

	account, err := svc.GetAccount(1)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != 100 || account.LifetimePoints != 100 {
		t.Fatalf("expected balance 100/100, got %d/%d", account.Points, account.LifetimePoints)
	}
	if account.Tier != constants.LoyaltyTierBronze {
		t.Fatalf("expected bronze tier, got %s", account.Tier)
	}
	if got := countLoyaltyTransactions(t, db, 1); got != 1 {
		t.Fatalf("expected single transaction, got %d", got)
	}
}

func TestApplyChangePromotesTier(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	if _, err := svc.ApplyChangeInTx(db, LoyaltyChangeInput{
		UserID:        2,
		Kind:          constants.LoyaltyTxnKindAdjusted,
		Delta:         2600,
		LifetimeDelta: 2600,
		Reference:     "test_promote:2",
	}); err != nil {
		t.Fatalf("apply change failed: %v", err)
	}

	account, err := svc.GetAccount(2)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Tier != constants.LoyaltyTierGold {
		t.Fatalf("expected gold tier, got %s", account.Tier)
	}
}

func TestRedeemInsufficientPoints(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	if _, err := svc.RedeemForOrderInTx(db, 3, 9, 50); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if _, err := svc.RedeemForOrderInTx(db, 3, 9, 0); !errors.Is(err, ErrLoyaltyInvalidPoints) {
		t.Fatalf("expected ErrLoyaltyInvalidPoints, got %v", err)
	}
	if got := countLoyaltyTransactions(t, db, 3); got != 0 {
		t.Fatalf("expected no transactions after failed redeem, got %d", got)
	}
}

func TestHandleOrderCompletedAwardsFloorOnce(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	order := &models.Order{
		ID:          11,
		OrderNo:     "OS20260830000011",
		UserID:      4,
		Status:      constants.OrderStatusDelivered,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(57.60)),
	}

	txn, err := svc.HandleOrderCompletedInTx(db, order)
	if err != nil {
		t.Fatalf("handle order completed failed: %v", err)
	}
	if txn.Points != 57 {
		t.Fatalf("expected 57 points earned, got %d", txn.Points)
	}

	again, err := svc.HandleOrderCompletedInTx(db, order)
	if err != nil {
		t.Fatalf("repeated completion failed: %v", err)
	}
	if again.ID != txn.ID {
		t.Fatalf("expected idempotent earn, got new transaction %d", again.ID)
	}

	account, err := svc.GetAccount(4)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != 57 || account.LifetimePoints != 57 {
		t.Fatalf("expected balance 57/57, got %d/%d", account.Points, account.LifetimePoints)
	}
	if account.CompletedOrders != 1 {
		t.Fatalf("expected 1 completed order, got %d", account.CompletedOrders)
	}
}

func TestReverseOrderIdempotent(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	order := &models.Order{
		ID:          21,
		OrderNo:     "OS20260830000021",
		UserID:      5,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(40)),
	}

	// 先给账户一些底仓，再模拟下单抵扣与完成入账
	if _, err := svc.ApplyChangeInTx(db, LoyaltyChangeInput{
		UserID:        5,
		Kind:          constants.LoyaltyTxnKindBonus,
		Delta:         100,
		LifetimeDelta: 100,
		Reference:     "test_seed:5",
	}); err != nil {
		t.Fatalf("seed balance failed: %v", err)
	}
	if _, err := svc.RedeemForOrderInTx(db, 5, order.ID, 30); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if _, err := svc.HandleOrderCompletedInTx(db, order); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if err := svc.ReverseOrderInTx(db, order); err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	account, err := svc.GetAccount(5)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	// 100 - 30(抵扣) + 40(入账) - 40(冲回) + 30(退回) = 100
	if account.Points != 100 {
		t.Fatalf("expected balance restored to 100, got %d", account.Points)
	}
	if account.LifetimePoints != 100 {
		t.Fatalf("expected lifetime restored to 100, got %d", account.LifetimePoints)
	}

	before := countLoyaltyTransactions(t, db, 5)
	if err := svc.ReverseOrderInTx(db, order); err != nil {
		t.Fatalf("repeated reverse failed: %v", err)
	}
	if got := countLoyaltyTransactions(t, db, 5); got != before {
		t.Fatalf("expected no extra transactions on repeated reverse, got %d -> %d", before, got)
	}
	account, err = svc.GetAccount(5)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != 100 {
		t.Fatalf("expected balance unchanged after repeated reverse, got %d", account.Points)
	}
}

func TestRedeemStandalone(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	if _, err := svc.ApplyChangeInTx(db, LoyaltyChangeInput{
		UserID:        9,
		Kind:          constants.LoyaltyTxnKindBonus,
		Delta:         100,
		LifetimeDelta: 100,
		Reference:     "test_seed:9",
	}); err != nil {
		t.Fatalf("seed balance failed: %v", err)
	}

	account, txn, err := svc.Redeem(9, 30, "兑换优惠")
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if txn.Kind != constants.LoyaltyTxnKindRedeemed || txn.Points != -30 {
		t.Fatalf("expected redeemed -30, got %s %d", txn.Kind, txn.Points)
	}
	if account.Points != 70 || account.LifetimePoints != 100 {
		t.Fatalf("expected balance 70/100, got %d/%d", account.Points, account.LifetimePoints)
	}

	// 每次抵扣使用独立参考号，连续抵扣各自落账
	account, _, err = svc.Redeem(9, 20, "")
	if err != nil {
		t.Fatalf("second redeem failed: %v", err)
	}
	if account.Points != 50 {
		t.Fatalf("expected balance 50, got %d", account.Points)
	}

	if _, _, err := svc.Redeem(9, 0, ""); !errors.Is(err, ErrLoyaltyInvalidPoints) {
		t.Fatalf("expected ErrLoyaltyInvalidPoints for zero points, got %v", err)
	}
	if _, _, err := svc.Redeem(9, -5, ""); !errors.Is(err, ErrLoyaltyInvalidPoints) {
		t.Fatalf("expected ErrLoyaltyInvalidPoints for negative points, got %v", err)
	}
	if _, _, err := svc.Redeem(9, 500, ""); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if _, _, err := svc.Redeem(0, 10, ""); !errors.Is(err, ErrLoyaltyAccountNotFound) {
		t.Fatalf("expected ErrLoyaltyAccountNotFound, got %v", err)
	}

	account, err = svc.GetAccount(9)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != 50 {
		t.Fatalf("expected failed redeems to leave balance 50, got %d", account.Points)
	}
}

func TestReverseOrderClampsEarnedAtZero(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	order := &models.Order{
		ID:          31,
		OrderNo:     "OS20260830000031",
		UserID:      7,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(57)),
	}
	if _, err := svc.HandleOrderCompletedInTx(db, order); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	// 入账的 57 分已被花掉 50 分
	if _, _, err := svc.Redeem(7, 50, ""); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	if err := svc.ReverseOrderInTx(db, order); err != nil {
		t.Fatalf("reverse failed: %v", err)
	}

	account, err := svc.GetAccount(7)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != 0 {
		t.Fatalf("expected balance clamped at 0, got %d", account.Points)
	}
	if account.LifetimePoints != 0 {
		t.Fatalf("expected lifetime clamped at 0, got %d", account.LifetimePoints)
	}

	// 冲正流水按实际扣减额记账
	var reversal models.LoyaltyTransaction
	if err := db.Where("reference = ?", "order_reversal:31:earned").First(&reversal).Error; err != nil {
		t.Fatalf("load reversal transaction failed: %v", err)
	}
	if reversal.Points != -7 {
		t.Fatalf("expected reversal of -7, got %d", reversal.Points)
	}

	before := countLoyaltyTransactions(t, db, 7)
	if err := svc.ReverseOrderInTx(db, order); err != nil {
		t.Fatalf("repeated reverse failed: %v", err)
	}
	if got := countLoyaltyTransactions(t, db, 7); got != before {
		t.Fatalf("expected no extra transactions on repeated reverse, got %d -> %d", before, got)
	}
}

func TestLedgerSumMatchesBalance(t *testing.T) {
	svc, db := setupLoyaltyServiceTest(t)

	order := &models.Order{
		ID:          41,
		OrderNo:     "OS20260830000041",
		UserID:      8,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(40)),
	}
	if _, err := svc.GrantSignupBonusInTx(db, 8); err != nil {
		t.Fatalf("grant signup bonus failed: %v", err)
	}
	if _, err := svc.RedeemForOrderInTx(db, 8, order.ID, 30); err != nil {
		t.Fatalf("redeem for order failed: %v", err)
	}
	if _, err := svc.HandleOrderCompletedInTx(db, order); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if err := svc.ReverseOrderInTx(db, order); err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	if _, _, err := svc.AdminAdjust(8, -20, false, ""); err != nil {
		t.Fatalf("admin adjust failed: %v", err)
	}
	if _, _, err := svc.Redeem(8, 25, ""); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	// 账户余额与流水总和始终一致
	var ledgerSum int64
	if err := db.Model(&models.LoyaltyTransaction{}).
		Where("user_id = ?", 8).
		Select("COALESCE(SUM(points), 0)").
		Scan(&ledgerSum).Error; err != nil {
		t.Fatalf("sum ledger failed: %v", err)
	}
	account, err := svc.GetAccount(8)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if ledgerSum != account.Points {
		t.Fatalf("expected ledger sum %d to equal balance %d", ledgerSum, account.Points)
	}
	// 100 - 30 + 40 - 40 + 30 - 20 - 25 = 55
	if account.Points != 55 {
		t.Fatalf("expected balance 55, got %d", account.Points)
	}
}

func TestAdminAdjust(t *testing.T) {
	svc, _ := setupLoyaltyServiceTest(t)

	account, txn, err := svc.AdminAdjust(6, 250, true, "活动补偿")
	if err != nil {
		t.Fatalf("admin adjust failed: %v", err)
	}
	if txn.Kind != constants.LoyaltyTxnKindAdjusted {
		t.Fatalf("expected adjusted kind, got %s", txn.Kind)
	}
	if account.Points != 250 || account.LifetimePoints != 250 {
		t.Fatalf("expected balance 250/250, got %d/%d", account.Points, account.LifetimePoints)
	}

	// 不影响累计积分的扣减
	account, _, err = svc.AdminAdjust(6, -50, false, "")
	if err != nil {
		t.Fatalf("admin adjust deduction failed: %v", err)
	}
	if account.Points != 200 || account.LifetimePoints != 250 {
		t.Fatalf("expected balance 200/250, got %d/%d", account.Points, account.LifetimePoints)
	}

	if _, _, err := svc.AdminAdjust(6, 0, false, ""); !errors.Is(err, ErrLoyaltyInvalidPoints) {
		t.Fatalf("expected ErrLoyaltyInvalidPoints for zero delta, got %v", err)
	}
	if _, _, err := svc.AdminAdjust(6, -10000, false, ""); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}
