package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/orbit-shop/internal/config"

	"github.com/shopspring/decimal"
)

// SignatureHeader 请求与回调签名所在的 HTTP 头
const SignatureHeader = "X-Gateway-Signature"

var (
	ErrNotConfigured   = errors.New("gateway not configured")
	ErrRequestFailed   = errors.New("gateway request failed")
	ErrInvalidResponse = errors.New("gateway invalid response")
)

// ChargeRequest 创建支付请求
type ChargeRequest struct {
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	NotifyURL string          `json:"notify_url,omitempty"`
}

// ChargeResponse 创建支付响应
type ChargeResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	PayURL    string `json:"pay_url"`
}

// RefundRequest 创建退款请求
type RefundRequest struct {
	PaymentID string          `json:"payment_id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// RefundResponse 创建退款响应
type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// WebhookEvent 网关回调载荷
type WebhookEvent struct {
	PaymentID string          `json:"payment_id"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
}

// Client 支付网关客户端
// 请求体与回调体均以 HMAC-SHA256 十六进制摘要签名。
type Client struct {
	baseURL    string
	secret     string
	notifyURL  string
	httpClient *http.Client
}

// NewClient 创建网关客户端
func NewClient(cfg config.GatewayConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		secret:     strings.TrimSpace(cfg.Secret),
		notifyURL:  strings.TrimSpace(cfg.NotifyURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured 判断网关是否可用
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.secret != ""
}

// Sign 计算请求体签名
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 校验回调签名
func (c *Client) VerifySignature(body []byte, signature string) bool {
	if !c.Configured() {
		return false
	}
	expected := c.Sign(body)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// CreateCharge 创建支付
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	if req.NotifyURL == "" {
		req.NotifyURL = c.notifyURL
	}
	var resp ChargeResponse
	if err := c.post(ctx, "/v1/charges", req, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.PaymentID) == "" {
		return nil, ErrInvalidResponse
	}
	return &resp, nil
}

// CreateRefund 创建退款
func (c *Client) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	var resp RefundResponse
	if err := c.post(ctx, "/v1/refunds", req, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.RefundID) == "" {
		return nil, ErrInvalidResponse
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, c.Sign(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
