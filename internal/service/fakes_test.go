package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"registration-payment-relay/internal/client"
	"registration-payment-relay/internal/model"
	"registration-payment-relay/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryRepo is an in-memory RegistrationRepository. The err hooks, when set,
// short-circuit the matching call.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]*model.Registration

	findErr   error
	appendErr error
	updateErr error

	appends int
	updates []*model.PaymentUpdate
}

func newMemoryRepo(regs ...*model.Registration) *memoryRepo {
	r := &memoryRepo{rows: map[string]*model.Registration{}}
	for _, reg := range regs {
		cp := *reg
		r.rows[reg.SubmissionID] = &cp
	}
	return r
}

func (r *memoryRepo) FindBySubmissionID(_ context.Context, id string) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	reg, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *memoryRepo) Append(_ context.Context, reg *model.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	if _, ok := r.rows[reg.SubmissionID]; ok {
		return repository.ErrDuplicateRecord
	}
	cp := *reg
	r.rows[reg.SubmissionID] = &cp
	r.appends++
	return nil
}

func (r *memoryRepo) UpdatePayment(_ context.Context, id string, upd *model.PaymentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	reg, ok := r.rows[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	upd.Apply(reg)
	r.updates = append(r.updates, upd)
	return nil
}

func (r *memoryRepo) ListByStatus(_ context.Context, status model.PaymentStatus) ([]*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*model.Registration
	for _, reg := range r.rows {
		if reg.PaymentStatus == status {
			cp := *reg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) get(id string) *model.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg, ok := r.rows[id]; ok {
		cp := *reg
		return &cp
	}
	return nil
}

type fakeLiqpayClient struct {
	createFn func(req *client.CheckoutRequest) (string, error)
	calls    []*client.CheckoutRequest
}

func (f *fakeLiqpayClient) CreateCheckoutURL(req *client.CheckoutRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.createFn != nil {
		return f.createFn(req)
	}
	return "https://gateway.test/checkout?order=" + req.OrderID + "&amount=" + req.Amount.String(), nil
}
