package repository

import (
	"context"
	"registration-payment-relay/internal/model"
	"time"
)

type timeoutRepoImpl struct {
	next    RegistrationRepository
	timeout time.Duration
}

// WithTimeout bounds every store call by d. A zero d returns next unchanged.
func WithTimeout(next RegistrationRepository, d time.Duration) RegistrationRepository {
	if d <= 0 {
		return next
	}
	return &timeoutRepoImpl{next: next, timeout: d}
}

func (r *timeoutRepoImpl) FindBySubmissionID(ctx context.Context, submissionID string) (*model.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.FindBySubmissionID(ctx, submissionID)
}

func (r *timeoutRepoImpl) Append(ctx context.Context, reg *model.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Append(ctx, reg)
}

func (r *timeoutRepoImpl) UpdatePayment(ctx context.Context, submissionID string, upd *model.PaymentUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.UpdatePayment(ctx, submissionID, upd)
}

func (r *timeoutRepoImpl) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.ListByStatus(ctx, status)
}
