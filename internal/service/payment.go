package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"registration-payment-relay/internal/client"
	"registration-payment-relay/internal/logger"
	"registration-payment-relay/internal/model"
	"registration-payment-relay/internal/repository"
)

// CallbackVerifier authenticates and decodes gateway callbacks.
type CallbackVerifier interface {
	Verify(data, signature string) bool
	DecodeNotification(data string) (*client.Notification, error)
}

type PaymentService interface {
	HandleCallback(ctx context.Context, data, signature string) (model.CallbackOutcome, error)
}

type paymentServiceImpl struct {
	verifier CallbackVerifier
	repo     repository.RegistrationRepository
	log      *slog.Logger
	now      func() time.Time
}

func NewPaymentService(
	verifier CallbackVerifier,
	repo repository.RegistrationRepository,
	log *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		verifier: verifier,
		repo:     repo,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentServiceImpl) HandleCallback(ctx context.Context, data, signature string) (model.CallbackOutcome, error) {
	log := logger.FromContext(ctx, s.log)

	// nothing in the payload is trusted before this check
	if !s.verifier.Verify(data, signature) {
		log.Warn("rejected payment callback with invalid signature")
		return "", fmt.Errorf("%w: signature mismatch", ErrAuthentication)
	}

	n, err := s.verifier.DecodeNotification(data)
	if err != nil {
		log.Warn("rejected payment callback with undecodable payload", slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	log = log.With(
		slog.String("submission_id", n.OrderID),
		slog.String("gateway_status", n.Status),
		slog.String("transaction_id", n.TransactionID),
	)

	target, ok := classifyStatus(n.Status)
	if !ok {
		log.Info("ignoring payment callback with non-final status")
		return model.CallbackOutcomeIgnored, nil
	}
	if n.OrderID == "" {
		log.Warn("verified payment callback carries no order_id")
		return model.CallbackOutcomeOrphaned, nil
	}

	current, err := s.repo.FindBySubmissionID(ctx, n.OrderID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		log.Warn("payment callback for unknown submission")
		return model.CallbackOutcomeOrphaned, nil
	}
	if err != nil {
		return "", upstream("find registration", err)
	}

	if current.PaymentStatus.IsTerminal() && current.PaymentStatus != target {
		// later callback wins; operators reconcile from this line
		log.Warn("payment callback overrides settled status",
			slog.String("from", string(current.PaymentStatus)),
			slog.String("to", string(target)))
	}

	upd := s.buildUpdate(target, n)
	if err := s.repo.UpdatePayment(ctx, n.OrderID, upd); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			log.Warn("registration disappeared before payment update")
			return model.CallbackOutcomeOrphaned, nil
		}
		return "", upstream("store payment result", err)
	}

	outcome := model.CallbackOutcomeFailed
	if target == model.PaymentStatusCompleted {
		outcome = model.CallbackOutcomeCompleted
	}
	log.Info("payment callback applied",
		slog.String("status", string(target)),
		slog.String("previous_status", string(current.PaymentStatus)))

	return outcome, nil
}

func (s *paymentServiceImpl) buildUpdate(target model.PaymentStatus, n *client.Notification) *model.PaymentUpdate {
	now := s.now()
	upd := &model.PaymentUpdate{
		Status:      model.Ptr(target),
		PaymentDate: &now,
	}
	if n.TransactionID != "" {
		upd.TransactionID = model.Ptr(n.TransactionID)
	}
	if target == model.PaymentStatusCompleted {
		upd.Amount = n.Amount
		upd.PaymentLink = model.Ptr("")
	}
	return upd
}

// classifyStatus maps a gateway status onto a final payment status. Anything
// outside the success and failure families is not final.
func classifyStatus(status string) (model.PaymentStatus, bool) {
	switch status {
	case "success", "sandbox":
		return model.PaymentStatusCompleted, true
	case "failure", "error":
		return model.PaymentStatusFailed, true
	default:
		return "", false
	}
}
