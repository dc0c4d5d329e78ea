package service

import "errors"

// 业务错误定义，handler 层按 errors.Is 映射为响应码
var (
	ErrNotFound           = errors.New("error.not_found")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrInvalidPassword    = errors.New("error.invalid_password")
	ErrWeakPassword       = errors.New("error.weak_password")
	ErrInvalidEmail       = errors.New("error.invalid_email")
	ErrEmailExists        = errors.New("error.email_exists")
	ErrUserDisabled       = errors.New("error.user_disabled")

	ErrCaptchaRequired      = errors.New("error.captcha_required")
	ErrCaptchaInvalid       = errors.New("error.captcha_invalid")
	ErrCaptchaConfigInvalid = errors.New("error.captcha_config_invalid")

	ErrProductNotFound     = errors.New("error.product_not_found")
	ErrProductInvalid      = errors.New("error.product_invalid")
	ErrProductNotAvailable = errors.New("error.product_not_available")
	ErrProductSlugExists   = errors.New("error.product_slug_exists")
	ErrInvalidQuantity     = errors.New("error.invalid_quantity")
	ErrInvalidPrice        = errors.New("error.invalid_price")

	ErrEmptyCart              = errors.New("error.empty_cart")
	ErrStockUnavailable       = errors.New("error.stock_unavailable")
	ErrOrderNotFound          = errors.New("error.order_not_found")
	ErrOrderStatusInvalid     = errors.New("error.order_status_invalid")
	ErrOrderTransitionInvalid = errors.New("error.order_transition_invalid")
	ErrOrderCreateFailed      = errors.New("error.order_create_failed")
	ErrOrderUpdateFailed      = errors.New("error.order_update_failed")
	ErrOrderFetchFailed       = errors.New("error.order_fetch_failed")

	ErrLoyaltyAccountNotFound         = errors.New("error.loyalty_account_not_found")
	ErrLoyaltyAccountCreateFailed     = errors.New("error.loyalty_account_create_failed")
	ErrLoyaltyAccountUpdateFailed     = errors.New("error.loyalty_account_update_failed")
	ErrLoyaltyTransactionCreateFailed = errors.New("error.loyalty_transaction_create_failed")
	ErrLoyaltyInvalidPoints           = errors.New("error.loyalty_invalid_points")
	ErrInsufficientPoints             = errors.New("error.insufficient_points")

	ErrPaymentNotFound         = errors.New("error.payment_not_found")
	ErrPaymentStatusInvalid    = errors.New("error.payment_status_invalid")
	ErrPaymentCreateFailed     = errors.New("error.payment_create_failed")
	ErrPaymentAmountMismatch   = errors.New("error.payment_amount_mismatch")
	ErrWebhookSignatureInvalid = errors.New("error.webhook_signature_invalid")
	ErrGatewayUnavailable      = errors.New("error.gateway_unavailable")
)
