package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"

	"gorm.io/gorm"
)

// LoyaltyService 积分服务
// 账户余额只能随流水一起在事务内变动，Reference 唯一约束保证重复入账静默幂等。
type LoyaltyService struct {
	loyaltyRepo repository.LoyaltyRepository
	orderRepo   repository.OrderRepository
}

// LoyaltyChangeInput 事务内积分变动输入
type LoyaltyChangeInput struct {
	UserID        uint
	Kind          string
	Delta         int64 // 带符号的可用积分变动
	LifetimeDelta int64 // 带符号的累计积分变动
	OrderID       *uint
	Reference     string
	Description   string
	BumpCompleted bool // 同步递增已完成订单数
	ClampToZero   bool // 余额不足以扣减时截断到零，按实际扣减额记账
}

// NewLoyaltyService 创建积分服务
func NewLoyaltyService(loyaltyRepo repository.LoyaltyRepository, orderRepo repository.OrderRepository) *LoyaltyService {
	return &LoyaltyService{
		loyaltyRepo: loyaltyRepo,
		orderRepo:   orderRepo,
	}
}

// TierForLifetimePoints 按累计积分计算会员等级
func TierForLifetimePoints(lifetime int64) string {
	switch {
	case lifetime >= constants.LoyaltyTierPlatinumThreshold:
		return constants.LoyaltyTierPlatinum
	case lifetime >= constants.LoyaltyTierGoldThreshold:
		return constants.LoyaltyTierGold
	case lifetime >= constants.LoyaltyTierSilverThreshold:
		return constants.LoyaltyTierSilver
	default:
		return constants.LoyaltyTierBronze
	}
}

// GetAccount 获取积分账户（不存在时自动创建）
func (s *LoyaltyService) GetAccount(userID uint) (*models.LoyaltyAccount, error) {
	if userID == 0 {
		return nil, ErrLoyaltyAccountNotFound
	}
	account, err := s.loyaltyRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	now := time.Now()
	account = &models.LoyaltyAccount{
		UserID:    userID,
		Tier:      constants.LoyaltyTierBronze,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.loyaltyRepo.CreateAccount(account); err != nil {
		created, queryErr := s.loyaltyRepo.GetAccountByUserID(userID)
		if queryErr == nil && created != nil {
			return created, nil
		}
		return nil, ErrLoyaltyAccountCreateFailed
	}
	return account, nil
}

// ListTransactions 查询积分流水
func (s *LoyaltyService) ListTransactions(filter repository.LoyaltyTransactionListFilter) ([]models.LoyaltyTransaction, int64, error) {
	return s.loyaltyRepo.ListTransactions(filter)
}

// DiscountEligible 判断用户是否满足会员折扣资格
func (s *LoyaltyService) DiscountEligible(userID uint) (bool, error) {
	return discountEligible(s.loyaltyRepo, userID)
}

// DiscountEligibleInTx 事务内判断会员折扣资格，与同事务的账户变动保持一致视图
func (s *LoyaltyService) DiscountEligibleInTx(tx *gorm.DB, userID uint) (bool, error) {
	if tx == nil {
		return false, ErrLoyaltyAccountUpdateFailed
	}
	return discountEligible(s.loyaltyRepo.WithTx(tx), userID)
}

func discountEligible(repo repository.LoyaltyRepository, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	account, err := repo.GetAccountByUserID(userID)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return account.CompletedOrders >= constants.LoyaltyEligibleOrderThreshold, nil
}

// GrantSignupBonusInTx 事务内发放注册奖励积分
func (s *LoyaltyService) GrantSignupBonusInTx(tx *gorm.DB, userID uint) (*models.LoyaltyTransaction, error) {
	bonus := int64(constants.LoyaltySignupBonusDefault)
	return s.ApplyChangeInTx(tx, LoyaltyChangeInput{
		UserID:        userID,
		Kind:          constants.LoyaltyTxnKindBonus,
		Delta:         bonus,
		LifetimeDelta: bonus,
		Reference:     fmt.Sprintf("signup_bonus:%d", userID),
		Description:   "注册奖励",
	})
}

// RedeemForOrderInTx 事务内为订单抵扣积分
func (s *LoyaltyService) RedeemForOrderInTx(tx *gorm.DB, userID uint, orderID uint, points int64) (*models.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, ErrLoyaltyInvalidPoints
	}
	return s.ApplyChangeInTx(tx, LoyaltyChangeInput{
		UserID:      userID,
		Kind:        constants.LoyaltyTxnKindRedeemed,
		Delta:       -points,
		OrderID:     &orderID,
		Reference:   fmt.Sprintf("order_redeem:%d", orderID),
		Description: "订单积分抵扣",
	})
}

// HandleOrderCompletedInTx 事务内处理订单完成的积分入账
// 入账积分为订单总额向下取整，已完成订单数随流水一起递增，
// 同一订单的重复完成请求由 Reference 幂等拦截。
func (s *LoyaltyService) HandleOrderCompletedInTx(tx *gorm.DB, order *models.Order) (*models.LoyaltyTransaction, error) {
	if order == nil || order.UserID == 0 {
		return nil, nil
	}
	earned := order.TotalAmount.Decimal.Floor().IntPart()
	if earned < 0 {
		earned = 0
	}
	return s.ApplyChangeInTx(tx, LoyaltyChangeInput{
		UserID:        order.UserID,
		Kind:          constants.LoyaltyTxnKindEarned,
		Delta:         earned,
		LifetimeDelta: earned,
		OrderID:       &order.ID,
		Reference:     fmt.Sprintf("order_earn:%d", order.ID),
		Description:   fmt.Sprintf("订单 %s 完成入账", order.OrderNo),
		BumpCompleted: true,
	})
}

// ReverseOrderInTx 事务内冲正订单相关积分
// 已入账的 earned 按调整流水冲回，入账后又被花掉的部分按余额截断到零，
// 累计积分同步扣减并保底为零；已抵扣的 redeemed 原数退回。两类冲正各自幂等。
func (s *LoyaltyService) ReverseOrderInTx(tx *gorm.DB, order *models.Order) error {
	if order == nil || order.UserID == 0 {
		return nil
	}
	repo := s.loyaltyRepo.WithTx(tx)

	earnTxn, err := repo.GetTransactionByReference(fmt.Sprintf("order_earn:%d", order.ID))
	if err != nil {
		return err
	}
	if earnTxn != nil && earnTxn.Points > 0 {
		if _, err := s.ApplyChangeInTx(tx, LoyaltyChangeInput{
			UserID:        order.UserID,
			Kind:          constants.LoyaltyTxnKindAdjusted,
			Delta:         -earnTxn.Points,
			LifetimeDelta: -earnTxn.Points,
			OrderID:       &order.ID,
			Reference:     fmt.Sprintf("order_reversal:%d:earned", order.ID),
			Description:   fmt.Sprintf("订单 %s 退款冲正入账积分", order.OrderNo),
			ClampToZero:   true,
		}); err != nil {
			return err
		}
	}

	redeemTxn, err := repo.GetTransactionByReference(fmt.Sprintf("order_redeem:%d", order.ID))
	if err != nil {
		return err
	}
	if redeemTxn != nil && redeemTxn.Points < 0 {
		if _, err := s.ApplyChangeInTx(tx, LoyaltyChangeInput{
			UserID:      order.UserID,
			Kind:        constants.LoyaltyTxnKindAdjusted,
			Delta:       -redeemTxn.Points,
			OrderID:     &order.ID,
			Reference:   fmt.Sprintf("order_reversal:%d:redeemed", order.ID),
			Description: fmt.Sprintf("订单 %s 退款退回抵扣积分", order.OrderNo),
		}); err != nil {
			return err
		}
	}
	return nil
}

// Redeem 用户主动抵扣积分
// 与订单抵扣无关的独立扣减，余额不足返回错误。
func (s *LoyaltyService) Redeem(userID uint, points int64, description string) (*models.LoyaltyAccount, *models.LoyaltyTransaction, error) {
	if userID == 0 {
		return nil, nil, ErrLoyaltyAccountNotFound
	}
	if points <= 0 {
		return nil, nil, ErrLoyaltyInvalidPoints
	}
	var txnResult *models.LoyaltyTransaction
	if err := s.loyaltyRepo.Transaction(func(tx *gorm.DB) error {
		txn, err := s.ApplyChangeInTx(tx, LoyaltyChangeInput{
			UserID:      userID,
			Kind:        constants.LoyaltyTxnKindRedeemed,
			Delta:       -points,
			Reference:   fmt.Sprintf("user_redeem:%d:%d", userID, time.Now().UnixNano()),
			Description: cleanLoyaltyDescription(description, "积分抵扣"),
		})
		if err != nil {
			return err
		}
		txnResult = txn
		return nil
	}); err != nil {
		return nil, nil, err
	}
	account, err := s.loyaltyRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	return account, txnResult, nil
}

// AdminAdjust 管理员调整用户积分
func (s *LoyaltyService) AdminAdjust(userID uint, delta int64, affectsLifetime bool, description string) (*models.LoyaltyAccount, *models.LoyaltyTransaction, error) {
	if userID == 0 {
		return nil, nil, ErrLoyaltyAccountNotFound
	}
	if delta == 0 {
		return nil, nil, ErrLoyaltyInvalidPoints
	}
	lifetimeDelta := int64(0)
	if affectsLifetime {
		lifetimeDelta = delta
	}
	var txnResult *models.LoyaltyTransaction
	if err := s.loyaltyRepo.Transaction(func(tx *gorm.DB) error {
		txn, err := s.ApplyChangeInTx(tx, LoyaltyChangeInput{
			UserID:        userID,
			Kind:          constants.LoyaltyTxnKindAdjusted,
			Delta:         delta,
			LifetimeDelta: lifetimeDelta,
			Reference:     fmt.Sprintf("admin_adjust:%d:%d", userID, time.Now().UnixNano()),
			Description:   cleanLoyaltyDescription(description, "管理员调整积分"),
		})
		if err != nil {
			return err
		}
		txnResult = txn
		return nil
	}); err != nil {
		return nil, nil, err
	}
	account, err := s.loyaltyRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	return account, txnResult, nil
}

// ApplyChangeInTx 事务内执行积分变动并写入唯一参考号流水
// 同参考号已存在流水时直接返回既有流水，不重复记账。
func (s *LoyaltyService) ApplyChangeInTx(tx *gorm.DB, input LoyaltyChangeInput) (*models.LoyaltyTransaction, error) {
	if tx == nil {
		return nil, ErrLoyaltyAccountUpdateFailed
	}
	if input.UserID == 0 {
		return nil, ErrLoyaltyAccountNotFound
	}
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, ErrLoyaltyTransactionCreateFailed
	}
	repo := s.loyaltyRepo.WithTx(tx)

	exists, err := repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return exists, nil
	}

	now := time.Now()
	account, err := s.ensureAccountForUpdate(repo, input.UserID, now)
	if err != nil {
		return nil, err
	}

	delta := input.Delta
	before := account.Points
	after := before + delta
	if after < 0 {
		if !input.ClampToZero {
			return nil, ErrInsufficientPoints
		}
		delta = -before
		after = 0
	}
	lifetime := account.LifetimePoints + input.LifetimeDelta
	if lifetime < 0 {
		lifetime = 0
	}

	account.Points = after
	account.LifetimePoints = lifetime
	account.Tier = TierForLifetimePoints(lifetime)
	if input.BumpCompleted {
		account.CompletedOrders++
	}
	account.UpdatedAt = now
	if err := repo.UpdateAccount(account); err != nil {
		return nil, ErrLoyaltyAccountUpdateFailed
	}

	txn := &models.LoyaltyTransaction{
		UserID:        input.UserID,
		OrderID:       input.OrderID,
		Kind:          input.Kind,
		Points:        delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     reference,
		Description:   cleanLoyaltyDescription(input.Description, "积分变动"),
		CreatedAt:     now,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, ErrLoyaltyTransactionCreateFailed
	}
	return txn, nil
}

func (s *LoyaltyService) ensureAccountForUpdate(repo *repository.GormLoyaltyRepository, userID uint, now time.Time) (*models.LoyaltyAccount, error) {
	account, err := repo.GetAccountByUserIDForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	account = &models.LoyaltyAccount{
		UserID:    userID,
		Tier:      constants.LoyaltyTierBronze,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateAccount(account); err != nil {
		created, queryErr := repo.GetAccountByUserIDForUpdate(userID)
		if queryErr == nil && created != nil {
			return created, nil
		}
		return nil, ErrLoyaltyAccountCreateFailed
	}
	return account, nil
}

func cleanLoyaltyDescription(raw string, fallback string) string {
	description := strings.TrimSpace(raw)
	if description == "" {
		return fallback
	}
	return description
}
