package i18n

import "github.com/orbit-shop/internal/constants"

// catalogs 按语言分组的消息目录
var catalogs = map[string]map[string]string{
	constants.LocaleEnUS: messagesEnUS,
	constants.LocaleZhCN: messagesZhCN,
}

var messagesEnUS = map[string]string{
	"error.internal":              "internal server error",
	"error.invalid_params":        "invalid request parameters",
	"error.unauthorized":          "authentication required",
	"error.forbidden":             "permission denied",
	"error.rate_limited":          "too many requests, please try again later",
	"error.not_found":             "resource not found",
	"error.user_id_invalid":       "invalid user identity",
	"error.user_id_type_invalid":  "invalid user identity",
	"error.admin_id_invalid":      "invalid admin identity",
	"error.admin_id_type_invalid": "invalid admin identity",

	"error.bad_request": "invalid request payload",

	"error.jwt_secret_missing":     "authentication is not configured",
	"error.token_invalid":          "invalid or expired token",
	"error.auth_header_missing":    "authorization header missing",
	"error.auth_header_invalid":    "authorization header format invalid",
	"error.rate_limit_unavailable": "rate limiter unavailable",
	"error.login_too_many":         "too many login attempts, please try again in %d seconds",

	"error.invalid_credentials": "invalid username or password",
	"error.invalid_password":    "incorrect password",
	"error.weak_password":       "password does not meet the security policy",
	"error.invalid_email":       "invalid email address",
	"error.email_exists":        "email address already registered",
	"error.user_disabled":       "account is disabled",
	"error.user_not_found":      "user not found",
	"error.user_fetch_failed":   "failed to fetch user",
	"error.user_update_failed":  "failed to update user",
	"error.register_failed":     "registration failed",
	"error.login_failed":        "login failed",
	"error.save_failed":         "failed to save changes",

	"error.password_min_length":      "password must be at least %d characters",
	"error.password_require_upper":   "password must contain an uppercase letter",
	"error.password_require_lower":   "password must contain a lowercase letter",
	"error.password_require_number":  "password must contain a number",
	"error.password_require_special": "password must contain a special character",

	"error.captcha_required":        "captcha is required",
	"error.captcha_invalid":         "captcha verification failed",
	"error.captcha_config_invalid":  "captcha configuration invalid",
	"error.captcha_verify_failed":   "captcha verification error",
	"error.captcha_unavailable":     "captcha service unavailable",
	"error.captcha_generate_failed": "failed to generate captcha",

	"error.product_not_found":     "product not found",
	"error.product_invalid":       "invalid product data",
	"error.product_not_available": "product is not available",
	"error.product_slug_exists":   "product slug already exists",
	"error.invalid_quantity":      "invalid quantity",
	"error.invalid_price":         "invalid price",
	"error.product_fetch_failed":  "failed to fetch products",

	"error.empty_cart":               "cart is empty",
	"error.cart_item_not_found":      "cart item not found",
	"error.cart_fetch_failed":        "failed to fetch cart",
	"error.cart_update_failed":       "failed to update cart",
	"error.stock_unavailable":        "insufficient stock",
	"error.order_not_found":          "order not found",
	"error.order_status_invalid":     "order status does not allow this operation",
	"error.order_transition_invalid": "order status transition not allowed",
	"error.order_create_failed":      "failed to create order",
	"error.order_update_failed":      "failed to update order",
	"error.order_fetch_failed":       "failed to fetch order",

	"error.loyalty_account_not_found":         "loyalty account not found",
	"error.loyalty_account_create_failed":     "failed to create loyalty account",
	"error.loyalty_account_update_failed":     "failed to update loyalty account",
	"error.loyalty_transaction_create_failed": "failed to record loyalty transaction",
	"error.loyalty_invalid_points":            "invalid points amount",
	"error.insufficient_points":               "insufficient points balance",
	"error.loyalty_fetch_failed":              "failed to fetch loyalty data",

	"error.payment_not_found":         "payment not found",
	"error.payment_status_invalid":    "payment status does not allow this operation",
	"error.payment_create_failed":     "failed to create payment",
	"error.payment_amount_mismatch":   "payment amount mismatch",
	"error.webhook_signature_invalid": "webhook signature verification failed",
	"error.gateway_unavailable":       "payment gateway unavailable",
	"error.payment_callback_failed":   "failed to process payment callback",
	"error.payment_fetch_failed":      "failed to fetch payments",
}

var messagesZhCN = map[string]string{
	"error.internal":              "服务器内部错误",
	"error.invalid_params":        "请求参数无效",
	"error.unauthorized":          "请先登录",
	"error.forbidden":             "没有操作权限",
	"error.rate_limited":          "请求过于频繁，请稍后再试",
	"error.not_found":             "资源不存在",
	"error.user_id_invalid":       "用户身份无效",
	"error.user_id_type_invalid":  "用户身份无效",
	"error.admin_id_invalid":      "管理员身份无效",
	"error.admin_id_type_invalid": "管理员身份无效",

	"error.bad_request": "请求数据无效",

	"error.jwt_secret_missing":     "服务端未配置鉴权密钥",
	"error.token_invalid":          "登录凭证无效或已过期",
	"error.auth_header_missing":    "缺少鉴权信息",
	"error.auth_header_invalid":    "鉴权信息格式不正确",
	"error.rate_limit_unavailable": "限流服务不可用",
	"error.login_too_many":         "登录尝试过于频繁，请 %d 秒后再试",

	"error.invalid_credentials": "用户名或密码错误",
	"error.invalid_password":    "密码错误",
	"error.weak_password":       "密码不符合安全策略",
	"error.invalid_email":       "邮箱地址无效",
	"error.email_exists":        "邮箱已被注册",
	"error.user_disabled":       "账户已被禁用",
	"error.user_not_found":      "用户不存在",
	"error.user_fetch_failed":   "获取用户失败",
	"error.user_update_failed":  "更新用户失败",
	"error.register_failed":     "注册失败",
	"error.login_failed":        "登录失败",
	"error.save_failed":         "保存失败",

	"error.password_min_length":      "密码长度不能少于 %d 位",
	"error.password_require_upper":   "密码必须包含大写字母",
	"error.password_require_lower":   "密码必须包含小写字母",
	"error.password_require_number":  "密码必须包含数字",
	"error.password_require_special": "密码必须包含特殊字符",

	"error.captcha_required":        "请输入验证码",
	"error.captcha_invalid":         "验证码校验失败",
	"error.captcha_config_invalid":  "验证码配置无效",
	"error.captcha_verify_failed":   "验证码校验异常",
	"error.captcha_unavailable":     "验证码服务不可用",
	"error.captcha_generate_failed": "生成验证码失败",

	"error.product_not_found":     "商品不存在",
	"error.product_invalid":       "商品数据无效",
	"error.product_not_available": "商品已下架",
	"error.product_slug_exists":   "商品标识已存在",
	"error.invalid_quantity":      "数量无效",
	"error.invalid_price":         "价格无效",
	"error.product_fetch_failed":  "获取商品失败",

	"error.empty_cart":               "购物车为空",
	"error.cart_item_not_found":      "购物车条目不存在",
	"error.cart_fetch_failed":        "获取购物车失败",
	"error.cart_update_failed":       "更新购物车失败",
	"error.stock_unavailable":        "库存不足",
	"error.order_not_found":          "订单不存在",
	"error.order_status_invalid":     "订单状态不允许该操作",
	"error.order_transition_invalid": "订单状态流转不被允许",
	"error.order_create_failed":      "创建订单失败",
	"error.order_update_failed":      "更新订单失败",
	"error.order_fetch_failed":       "获取订单失败",

	"error.loyalty_account_not_found":         "积分账户不存在",
	"error.loyalty_account_create_failed":     "创建积分账户失败",
	"error.loyalty_account_update_failed":     "更新积分账户失败",
	"error.loyalty_transaction_create_failed": "记录积分流水失败",
	"error.loyalty_invalid_points":            "积分数量无效",
	"error.insufficient_points":               "积分余额不足",
	"error.loyalty_fetch_failed":              "获取积分数据失败",

	"error.payment_not_found":         "支付单不存在",
	"error.payment_status_invalid":    "支付状态不允许该操作",
	"error.payment_create_failed":     "创建支付失败",
	"error.payment_amount_mismatch":   "支付金额不一致",
	"error.webhook_signature_invalid": "回调签名校验失败",
	"error.gateway_unavailable":       "支付网关不可用",
	"error.payment_callback_failed":   "处理支付回调失败",
	"error.payment_fetch_failed":      "获取支付记录失败",
}
