package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"registration-payment-relay/internal/client"
	"registration-payment-relay/internal/dto"
	"registration-payment-relay/internal/logger"
	"registration-payment-relay/internal/model"
	"registration-payment-relay/internal/repository"

	"github.com/shopspring/decimal"
)

type RegistrationService interface {
	Intake(ctx context.Context, req *dto.IntakeRequest) (*dto.IntakeResponse, error)
	Resolve(ctx context.Context, submissionID string) (*Resolution, error)
	GetStatus(ctx context.Context, submissionID string) (*dto.PaymentStatusResponse, error)
	RegeneratePayment(ctx context.Context, submissionID string, req *dto.RegenerateRequest) (*dto.RegenerateResponse, error)
	ListPending(ctx context.Context) (*dto.PendingPaymentsResponse, error)
}

type ResolutionKind int

const (
	ResolutionNotFound ResolutionKind = iota
	ResolutionRedirect
	ResolutionSuccess
	ResolutionFree
	ResolutionFailed
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolutionRedirect:
		return "redirect"
	case ResolutionSuccess:
		return "success"
	case ResolutionFree:
		return "free"
	case ResolutionFailed:
		return "failed"
	default:
		return "not_found"
	}
}

// Resolution is the next step for a payer who opens /pay/{id}.
type Resolution struct {
	Kind         ResolutionKind
	SubmissionID string
	RedirectURL  string
	Registration *model.Registration // nil for ResolutionNotFound
}

type registrationServiceImpl struct {
	repo         repository.RegistrationRepository
	liqpayClient client.LiqpayClient
	log          *slog.Logger
	now          func() time.Time
}

func NewRegistrationService(
	repo repository.RegistrationRepository,
	liqpayClient client.LiqpayClient,
	log *slog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		repo:         repo,
		liqpayClient: liqpayClient,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *registrationServiceImpl) Intake(ctx context.Context, req *dto.IntakeRequest) (*dto.IntakeResponse, error) {
	submissionID := strings.TrimSpace(req.SubmissionID)
	if submissionID == "" {
		return nil, fmt.Errorf("%w: missing submission_id", ErrValidation)
	}
	log := logger.FromContext(ctx, s.log).With(slog.String("submission_id", submissionID))

	reg, err := s.repo.FindBySubmissionID(ctx, submissionID)
	switch {
	case err == nil:
		if reg.PaymentStatus != model.PaymentStatusNone {
			log.Info("submission already received, returning stored state",
				slog.String("status", string(reg.PaymentStatus)))
			return intakeResponse(reg), nil
		}
		log.Warn("resuming intake of a submission left without payment status")

	case errors.Is(err, repository.ErrRecordNotFound):
		reg = newRegistration(submissionID, req)
		if err := s.repo.Append(ctx, reg); err != nil {
			if !errors.Is(err, repository.ErrDuplicateRecord) {
				return nil, upstream("append registration", err)
			}
			// a concurrent retry of the same submission won the append
			existing, err := s.repo.FindBySubmissionID(ctx, submissionID)
			if err != nil {
				return nil, upstream("reload registration", err)
			}
			if existing.PaymentStatus != model.PaymentStatusNone {
				return intakeResponse(existing), nil
			}
			reg = existing
		}
		log.Info("registration stored", slog.String("amount", reg.Amount.String()))

	default:
		return nil, upstream("find registration", err)
	}

	if err := s.settle(ctx, log, reg); err != nil {
		return nil, err
	}
	return intakeResponse(reg), nil
}

// settle moves a NONE record to FREE or PENDING. The record is already persisted,
// so a link is never handed out for a submission the store does not know about.
func (s *registrationServiceImpl) settle(ctx context.Context, log *slog.Logger, reg *model.Registration) error {
	now := s.now()

	if !reg.NeedsPayment() {
		upd := &model.PaymentUpdate{
			Status:      model.Ptr(model.PaymentStatusFree),
			Amount:      model.Ptr(decimal.Zero),
			PaymentLink: model.Ptr(""),
			PaymentDate: &now,
		}
		if err := s.repo.UpdatePayment(ctx, reg.SubmissionID, upd); err != nil {
			return upstream("mark registration free", err)
		}
		upd.Apply(reg)
		log.Info("free registration, no payment needed",
			slog.String("category", reg.RegistrationCategory))
		return nil
	}

	link, err := s.liqpayClient.CreateCheckoutURL(&client.CheckoutRequest{
		OrderID: reg.SubmissionID,
		Amount:  reg.Amount,
		Email:   reg.Email,
		Name:    reg.Name,
		Phone:   reg.Phone,
	})
	if err != nil {
		return fmt.Errorf("create payment link: %w", err)
	}

	upd := &model.PaymentUpdate{
		Status:      model.Ptr(model.PaymentStatusPending),
		Amount:      model.Ptr(reg.Amount),
		PaymentLink: &link,
		PaymentDate: &now,
	}
	if err := s.repo.UpdatePayment(ctx, reg.SubmissionID, upd); err != nil {
		return upstream("store payment link", err)
	}
	upd.Apply(reg)
	log.Info("payment link issued", slog.String("amount", reg.Amount.String()))

	return nil
}

func (s *registrationServiceImpl) Resolve(ctx context.Context, submissionID string) (*Resolution, error) {
	log := logger.FromContext(ctx, s.log).With(slog.String("submission_id", submissionID))

	reg, err := s.repo.FindBySubmissionID(ctx, submissionID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		// the intake write may still be in flight
		log.Warn("submission not found for payment redirect")
		return &Resolution{Kind: ResolutionNotFound, SubmissionID: submissionID}, nil
	}
	if err != nil {
		return nil, upstream("find registration", err)
	}

	res := &Resolution{SubmissionID: submissionID, Registration: reg}
	switch {
	case reg.PaymentStatus == model.PaymentStatusPending && reg.PaymentLink != "":
		res.Kind = ResolutionRedirect
		res.RedirectURL = reg.PaymentLink
	case reg.PaymentStatus == model.PaymentStatusCompleted:
		res.Kind = ResolutionSuccess
	case reg.PaymentStatus == model.PaymentStatusFree:
		res.Kind = ResolutionFree
	case reg.PaymentStatus == model.PaymentStatusFailed:
		res.Kind = ResolutionFailed
	default:
		log.Warn("inconsistent payment state, asking payer to retry",
			slog.String("status", string(reg.PaymentStatus)),
			slog.Bool("has_link", reg.PaymentLink != ""))
		return &Resolution{Kind: ResolutionNotFound, SubmissionID: submissionID}, nil
	}

	log.Info("resolved payment page", slog.String("resolution", res.Kind.String()))
	return res, nil
}

func (s *registrationServiceImpl) GetStatus(ctx context.Context, submissionID string) (*dto.PaymentStatusResponse, error) {
	reg, err := s.repo.FindBySubmissionID(ctx, submissionID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, submissionID)
	}
	if err != nil {
		return nil, upstream("find registration", err)
	}

	return &dto.PaymentStatusResponse{
		SubmissionID:  reg.SubmissionID,
		Status:        string(reg.PaymentStatus),
		Amount:        reg.Amount.String(),
		PaymentDate:   formatDate(reg.PaymentDate),
		PaymentLink:   reg.PaymentLink,
		TransactionID: reg.TransactionID,
	}, nil
}

func (s *registrationServiceImpl) RegeneratePayment(ctx context.Context, submissionID string, req *dto.RegenerateRequest) (*dto.RegenerateResponse, error) {
	log := logger.FromContext(ctx, s.log).With(slog.String("submission_id", submissionID))

	reg, err := s.repo.FindBySubmissionID(ctx, submissionID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, submissionID)
	}
	if err != nil {
		return nil, upstream("find registration", err)
	}

	if reg.PaymentStatus == model.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: %s is already paid", ErrConflict, submissionID)
	}

	checkout := &client.CheckoutRequest{
		OrderID: reg.SubmissionID,
		Amount:  reg.Amount,
		Email:   reg.Email,
		Name:    reg.Name,
		Phone:   reg.Phone,
	}
	if req != nil {
		if req.Amount != nil {
			// callers are unauthenticated, so an override may raise the fee but never lower it
			override := model.CoerceAmount(req.Amount)
			if override.LessThan(reg.Amount) {
				return nil, fmt.Errorf("%w: amount %s is below the registration fee %s", ErrValidation, override, reg.Amount)
			}
			checkout.Amount = override
		}
		if req.Email != "" {
			checkout.Email = req.Email
		}
		if req.Name != "" {
			checkout.Name = req.Name
		}
		if req.Phone != "" {
			checkout.Phone = req.Phone
		}
	}
	if !model.NeedsPayment(checkout.Amount) {
		return nil, fmt.Errorf("%w: amount %s does not require payment", ErrValidation, checkout.Amount)
	}

	link, err := s.liqpayClient.CreateCheckoutURL(checkout)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}

	now := s.now()
	err = s.repo.UpdatePayment(ctx, submissionID, &model.PaymentUpdate{
		Status:      model.Ptr(model.PaymentStatusPending),
		Amount:      model.Ptr(checkout.Amount),
		PaymentLink: &link,
		PaymentDate: &now,
	})
	if err != nil {
		return nil, upstream("store regenerated payment link", err)
	}

	log.Info("payment link regenerated",
		slog.String("previous_status", string(reg.PaymentStatus)),
		slog.String("amount", checkout.Amount.String()))

	return &dto.RegenerateResponse{Success: true, PaymentLink: link}, nil
}

func (s *registrationServiceImpl) ListPending(ctx context.Context) (*dto.PendingPaymentsResponse, error) {
	regs, err := s.repo.ListByStatus(ctx, model.PaymentStatusPending)
	if err != nil {
		return nil, upstream("list pending registrations", err)
	}

	pending := make([]*dto.PendingPayment, 0, len(regs))
	for _, reg := range regs {
		pending = append(pending, &dto.PendingPayment{
			SubmissionID: reg.SubmissionID,
			Status:       string(reg.PaymentStatus),
			Amount:       reg.Amount.String(),
			PaymentDate:  formatDate(reg.PaymentDate),
			PaymentLink:  reg.PaymentLink,
		})
	}

	return &dto.PendingPaymentsResponse{
		PendingPayments: pending,
		TotalPending:    len(pending),
	}, nil
}

func newRegistration(submissionID string, req *dto.IntakeRequest) *model.Registration {
	return &model.Registration{
		SubmissionID:         submissionID,
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		RegistrationCategory: req.RegistrationCategory,
		ParticipationType:    req.ParticipationType,
		Education:            req.Education,
		Specialty:            req.Specialty,
		Workplace:            req.Workplace,
		Position:             req.Position,
		City:                 req.City,
		Region:               req.Region,
		Country:              req.Country,
		BirthDate:            req.BirthDate,
		Amount:               model.CoerceAmount(req.Amount),
		PaymentStatus:        model.PaymentStatusNone,
	}
}

func intakeResponse(reg *model.Registration) *dto.IntakeResponse {
	resp := &dto.IntakeResponse{
		Success:              true,
		SubmissionID:         reg.SubmissionID,
		NeedsPayment:         reg.NeedsPayment(),
		Amount:               reg.Amount.String(),
		RegistrationCategory: reg.RegistrationCategory,
		PaymentLink:          reg.PaymentLink, // FAILED keeps its link for a retry; COMPLETED and FREE have none
	}
	return resp
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
