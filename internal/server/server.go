package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"registration-payment-relay/internal/config"
	"registration-payment-relay/internal/handler"
	appmw "registration-payment-relay/internal/middleware"
	"registration-payment-relay/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Version is reported by /health. Overridden at build time with -ldflags.
var Version = "dev"

type Server struct {
	echo                *echo.Echo
	registrationHandler *handler.RegistrationHandler
	liqpayHandler       *handler.LiqpayHandler
}

func NewServer(
	cfg *config.Config,
	registrationService service.RegistrationService,
	paymentService service.PaymentService,
	log *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLogger(log))
	e.Use(appmw.AccessLog(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	s := &Server{
		echo:                e,
		registrationHandler: handler.NewRegistrationHandler(registrationService, log),
		liqpayHandler:       handler.NewLiqpayHandler(paymentService, log),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   Version,
		})
	})

	// -------- registration intake --------
	s.echo.POST("/webhook/intake", s.registrationHandler.Intake)

	// -------- liqpay callbacks --------
	s.echo.POST("/webhook/payment", s.liqpayHandler.Webhook)
	s.echo.POST("/webhook/liqpay", s.liqpayHandler.Webhook)

	// -------- payer facing --------
	s.echo.GET("/pay/:id", s.registrationHandler.Pay)

	// -------- operations --------
	s.echo.GET("/payment-status/:id", s.registrationHandler.PaymentStatus)
	s.echo.POST("/regenerate-payment/:id", s.registrationHandler.RegeneratePayment)
	s.echo.GET("/pending-payments", s.registrationHandler.PendingPayments)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
