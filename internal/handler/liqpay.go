package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"registration-payment-relay/internal/dto"
	"registration-payment-relay/internal/logger"
	"registration-payment-relay/internal/service"

	"github.com/labstack/echo/v4"
)

type LiqpayHandler struct {
	paymentService service.PaymentService
	log            *slog.Logger
}

func NewLiqpayHandler(paymentService service.PaymentService, log *slog.Logger) *LiqpayHandler {
	return &LiqpayHandler{
		paymentService: paymentService,
		log:            log,
	}
}

// Webhook receives the gateway's server_url callback. LiqPay posts a form, but
// JSON is accepted too. Anything past verification answers OK so the gateway
// stops retrying.
func (h *LiqpayHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx, h.log)

	var req dto.CallbackRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("unreadable payment callback body", slog.Any("error", err))
		return c.String(http.StatusBadRequest, "Invalid signature")
	}

	outcome, err := h.paymentService.HandleCallback(ctx, req.Data, req.Signature)
	if errors.Is(err, service.ErrAuthentication) {
		return c.String(http.StatusBadRequest, "Invalid signature")
	}
	if err != nil {
		log.Error("handle payment callback", slog.Any("error", err))
		return c.String(http.StatusInternalServerError, "Error")
	}

	log.Debug("payment callback processed", slog.String("outcome", string(outcome)))
	return c.String(http.StatusOK, "OK")
}
