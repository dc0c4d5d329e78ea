package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 支付状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 支付类型常量
const (
	PaymentKindCharge = "charge"
	PaymentKindRefund = "refund"
)

// 积分流水类型常量
const (
	LoyaltyTxnKindEarned   = "earned"
	LoyaltyTxnKindBonus    = "bonus"
	LoyaltyTxnKindRedeemed = "redeemed"
	LoyaltyTxnKindAdjusted = "adjusted"
)

// 会员等级常量
const (
	LoyaltyTierBronze   = "bronze"
	LoyaltyTierSilver   = "silver"
	LoyaltyTierGold     = "gold"
	LoyaltyTierPlatinum = "platinum"
)

// 会员等级积分阈值（按累计积分划分）
const (
	LoyaltyTierSilverThreshold   = 1000
	LoyaltyTierGoldThreshold     = 2500
	LoyaltyTierPlatinumThreshold = 5000
)

// 积分账户默认配置常量
const (
	LoyaltySignupBonusDefault     = 100
	LoyaltyEligibleOrderThreshold = 10
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskPaymentRefundIntent  = "payment:refund_intent"
	TaskNotificationDispatch = "notification:dispatch"
	TaskOrderTimeoutCancel   = "order:timeout_cancel"
)

// 通知事件常量
const (
	NotificationEventOrderStatusChanged = "order_status_changed"
	NotificationEventLoyaltyTierChanged = "loyalty_tier_changed"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "orbit"
)

// 币种常量
const (
	SiteCurrencyDefault = "GBP"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
