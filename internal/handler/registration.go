package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"registration-payment-relay/internal/dto"
	"registration-payment-relay/internal/logger"
	"registration-payment-relay/internal/service"

	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
	log                 *slog.Logger
}

func NewRegistrationHandler(registrationService service.RegistrationService, log *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		log:                 log,
	}
}

// Intake receives a normalized registration from the form pipeline.
func (h *RegistrationHandler) Intake(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.IntakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.registrationService.Intake(ctx, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) PaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.registrationService.GetStatus(ctx, submissionIDParam(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) RegeneratePayment(c echo.Context) error {
	ctx := c.Request().Context()

	// the body is optional; an empty one keeps the stored values
	var req dto.RegenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	resp, err := h.registrationService.RegeneratePayment(ctx, submissionIDParam(c), &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) PendingPayments(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.registrationService.ListPending(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Pay is where payers land, both from the registration confirmation and as the
// gateway's result_url. It always answers with a redirect or a page.
func (h *RegistrationHandler) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	submissionID := submissionIDParam(c)

	res, err := h.registrationService.Resolve(ctx, submissionID)
	if err != nil {
		logger.FromContext(ctx, h.log).Error("resolve payment page",
			slog.String("submission_id", submissionID),
			slog.Any("error", err))
		return renderPage(c, http.StatusInternalServerError, errorPage(submissionID))
	}

	switch res.Kind {
	case service.ResolutionRedirect:
		return c.Redirect(http.StatusFound, res.RedirectURL)
	case service.ResolutionSuccess:
		return renderPage(c, http.StatusOK, successPage(res))
	case service.ResolutionFree:
		return renderPage(c, http.StatusOK, freePage(res))
	case service.ResolutionFailed:
		return renderPage(c, http.StatusOK, failedPage(res))
	default:
		return renderPage(c, http.StatusOK, pendingPage(submissionID))
	}
}

// submissionIDParam returns the unescaped :id. echo routes on RawPath when the
// request has one (an escaped "/" for instance), and then the param is still
// percent-encoded. Otherwise it comes from the already decoded Path.
func submissionIDParam(c echo.Context) string {
	raw := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
