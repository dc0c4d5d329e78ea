package repository

import (
	"errors"
	"strings"

	"github.com/orbit-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository 积分账户与流水数据访问接口
type LoyaltyRepository interface {
	GetAccountByUserID(userID uint) (*models.LoyaltyAccount, error)
	GetAccountByUserIDForUpdate(userID uint) (*models.LoyaltyAccount, error)
	CreateAccount(account *models.LoyaltyAccount) error
	UpdateAccount(account *models.LoyaltyAccount) error
	CreateTransaction(txn *models.LoyaltyTransaction) error
	GetTransactionByReference(reference string) (*models.LoyaltyTransaction, error)
	ListTransactions(filter LoyaltyTransactionListFilter) ([]models.LoyaltyTransaction, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormLoyaltyRepository
}

// GormLoyaltyRepository GORM 实现
type GormLoyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository 创建积分仓库
func NewLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// Transaction 在事务中执行回调
func (r *GormLoyaltyRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormLoyaltyRepository) WithTx(tx *gorm.DB) *GormLoyaltyRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyRepository{db: tx}
}

// GetAccountByUserID 获取积分账户
func (r *GormLoyaltyRepository) GetAccountByUserID(userID uint) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByUserIDForUpdate 行锁读取积分账户，余额变动前必须先锁行
func (r *GormLoyaltyRepository) GetAccountByUserIDForUpdate(userID uint) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount 创建积分账户
func (r *GormLoyaltyRepository) CreateAccount(account *models.LoyaltyAccount) error {
	return r.db.Create(account).Error
}

// UpdateAccount 更新积分账户
func (r *GormLoyaltyRepository) UpdateAccount(account *models.LoyaltyAccount) error {
	return r.db.Save(account).Error
}

// CreateTransaction 写入积分流水
func (r *GormLoyaltyRepository) CreateTransaction(txn *models.LoyaltyTransaction) error {
	return r.db.Create(txn).Error
}

// GetTransactionByReference 根据业务参考号获取流水，未找到返回 nil
func (r *GormLoyaltyRepository) GetTransactionByReference(reference string) (*models.LoyaltyTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}
	var txn models.LoyaltyTransaction
	result := r.db.Where("reference = ?", reference).Limit(1).Find(&txn)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &txn, nil
}

// ListTransactions 积分流水列表
func (r *GormLoyaltyRepository) ListTransactions(filter LoyaltyTransactionListFilter) ([]models.LoyaltyTransaction, int64, error) {
	query := r.db.Model(&models.LoyaltyTransaction{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var txns []models.LoyaltyTransaction
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
