package client

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"registration-payment-relay/internal/config"
	"registration-payment-relay/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const liqpayAPIVersion = "3"

type LiqpayClient interface {
	CreateCheckoutURL(req *CheckoutRequest) (string, error)
}

type liqpayClientImpl struct {
	signer      *LiqpaySigner
	publicKey   string
	checkoutURL string
	currency    string
	language    string
	sandbox     bool
	descPrefix  string
	callbackURL string
	resultURL   func(orderID string) string
}

// CheckoutRequest describes one payment for a registration.
type CheckoutRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Email       string
	Name        string
	Phone       string
	Description string
}

// checkoutParams field order defines the encoded payload; do not reorder.
type checkoutParams struct {
	PublicKey     string          `json:"public_key"`
	Version       string          `json:"version"`
	Action        string          `json:"action"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	OrderID       string          `json:"order_id"`
	ServerURL     string          `json:"server_url"`
	ResultURL     string          `json:"result_url"`
	Language      string          `json:"language"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	SendEmail     bool            `json:"send_email,omitempty"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Sandbox       string          `json:"sandbox"`
}

func NewLiqpayClient(cfg *config.Config, signer *LiqpaySigner) LiqpayClient {
	return &liqpayClientImpl{
		signer:      signer,
		publicKey:   cfg.LiqPay.PublicKey,
		checkoutURL: cfg.LiqPay.CheckoutURL,
		currency:    cfg.LiqPay.Currency,
		language:    cfg.LiqPay.Language,
		sandbox:     cfg.LiqPay.Sandbox,
		descPrefix:  cfg.LiqPay.DescriptionPrefix,
		callbackURL: cfg.CallbackURL(),
		resultURL:   cfg.ResultURL,
	}
}

func (c *liqpayClientImpl) CreateCheckoutURL(req *CheckoutRequest) (string, error) {
	if req.OrderID == "" {
		return "", fmt.Errorf("liqpay checkout: missing order id")
	}
	if !model.NeedsPayment(req.Amount) {
		return "", fmt.Errorf("liqpay checkout: amount must be positive, got %s", req.Amount)
	}

	params := checkoutParams{
		PublicKey:   c.publicKey,
		Version:     liqpayAPIVersion,
		Action:      "pay",
		Amount:      req.Amount,
		Currency:    c.currency,
		Description: c.description(req),
		OrderID:     req.OrderID,
		ServerURL:   c.callbackURL,
		ResultURL:   c.resultURL(req.OrderID),
		Language:    c.language,
		Sandbox:     "0",
	}
	if c.sandbox {
		params.Sandbox = "1"
	}

	// the gateway e-mails an invoice only when it gets a usable address
	if email, ok := normalizeEmail(req.Email); ok {
		params.CustomerEmail = email
		params.SendEmail = true
	}
	params.CustomerName = req.Name
	params.CustomerPhone = req.Phone

	data, err := c.signer.Encode(params)
	if err != nil {
		return "", fmt.Errorf("encode checkout params: %w", err)
	}
	signature := c.signer.Sign(data)

	return fmt.Sprintf("%s?data=%s&signature=%s",
		c.checkoutURL,
		url.QueryEscape(data),
		url.QueryEscape(signature),
	), nil
}

func (c *liqpayClientImpl) description(req *CheckoutRequest) string {
	if req.Description != "" {
		return req.Description
	}
	who := req.Name
	if who == "" {
		who = req.Email
	}
	if who == "" {
		return c.descPrefix
	}
	return c.descPrefix + " - " + who
}

func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", false
	}
	return email, true
}

// Notification is the decoded callback payload.
type Notification struct {
	OrderID       string
	Status        string
	Amount        *decimal.Decimal // nil when the gateway omitted it
	Currency      string
	TransactionID string
}

// DecodeNotification turns verified callback data into a Notification. LiqPay sends
// ids and amounts as JSON numbers, so values are read loosely.
func (s *LiqpaySigner) DecodeNotification(data string) (*Notification, error) {
	var payload map[string]any
	if err := s.Decode(data, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: empty object", ErrMalformedPayload)
	}

	n := &Notification{
		OrderID:       strings.TrimSpace(cast.ToString(payload["order_id"])),
		Status:        strings.ToLower(strings.TrimSpace(cast.ToString(payload["status"]))),
		Currency:      cast.ToString(payload["currency"]),
		TransactionID: cast.ToString(payload["transaction_id"]),
	}
	if n.TransactionID == "" {
		n.TransactionID = cast.ToString(payload["payment_id"])
	}
	if raw, ok := payload["amount"]; ok && raw != nil {
		amount := model.CoerceAmount(raw)
		n.Amount = &amount
	}

	return n, nil
}
