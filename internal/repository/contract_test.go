package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"registration-payment-relay/internal/model"

	"github.com/shopspring/decimal"
)

// runRepositoryContract exercises the behaviour every store backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) RegistrationRepository) {
	ctx := context.Background()

	t.Run("find missing", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.FindBySubmissionID(ctx, "nope"); !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("FindBySubmissionID error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("append then find", func(t *testing.T) {
		repo := newRepo(t)
		reg := &model.Registration{
			SubmissionID:         "sub-1",
			Name:                 "Jane Doe",
			Email:                "jane@example.org",
			Phone:                "+380000000000",
			RegistrationCategory: "Participant",
			City:                 "Kyiv",
			Amount:               decimal.NewFromInt(1500),
			PaymentStatus:        model.PaymentStatusNone,
		}
		if err := repo.Append(ctx, reg); err != nil {
			t.Fatalf("Append: %v", err)
		}

		got, err := repo.FindBySubmissionID(ctx, "sub-1")
		if err != nil {
			t.Fatalf("FindBySubmissionID: %v", err)
		}
		if got.Name != "Jane Doe" || got.Email != "jane@example.org" || got.City != "Kyiv" {
			t.Fatalf("profile not persisted: %+v", got)
		}
		if got.PaymentStatus != model.PaymentStatusNone {
			t.Fatalf("status = %s, want NONE", got.PaymentStatus)
		}
		if !got.Amount.Equal(decimal.NewFromInt(1500)) {
			t.Fatalf("amount = %s, want 1500", got.Amount)
		}
	})

	t.Run("append duplicate", func(t *testing.T) {
		repo := newRepo(t)
		reg := &model.Registration{SubmissionID: "dup", PaymentStatus: model.PaymentStatusNone}
		if err := repo.Append(ctx, reg); err != nil {
			t.Fatalf("Append: %v", err)
		}
		again := &model.Registration{SubmissionID: "dup", PaymentStatus: model.PaymentStatusNone}
		if err := repo.Append(ctx, again); !errors.Is(err, ErrDuplicateRecord) {
			t.Fatalf("second Append error = %v, want ErrDuplicateRecord", err)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Append(ctx, &model.Registration{
			SubmissionID:  "sub-2",
			Name:          "John",
			Amount:        decimal.NewFromInt(200),
			PaymentStatus: model.PaymentStatusNone,
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}

		now := time.Now().UTC().Truncate(time.Second)
		err := repo.UpdatePayment(ctx, "sub-2", &model.PaymentUpdate{
			Status:      model.Ptr(model.PaymentStatusPending),
			PaymentLink: model.Ptr("https://gateway/checkout?data=x"),
			PaymentDate: &now,
		})
		if err != nil {
			t.Fatalf("UpdatePayment pending: %v", err)
		}

		err = repo.UpdatePayment(ctx, "sub-2", &model.PaymentUpdate{
			Status:        model.Ptr(model.PaymentStatusFailed),
			TransactionID: model.Ptr("tx-1"),
		})
		if err != nil {
			t.Fatalf("UpdatePayment failed: %v", err)
		}

		got, err := repo.FindBySubmissionID(ctx, "sub-2")
		if err != nil {
			t.Fatalf("FindBySubmissionID: %v", err)
		}
		if got.PaymentStatus != model.PaymentStatusFailed || got.TransactionID != "tx-1" {
			t.Fatalf("update not applied: %+v", got)
		}
		if got.PaymentLink != "https://gateway/checkout?data=x" {
			t.Fatalf("link should survive a partial update, got %q", got.PaymentLink)
		}
		if !got.Amount.Equal(decimal.NewFromInt(200)) {
			t.Fatalf("amount should survive a partial update, got %s", got.Amount)
		}
		if got.PaymentDate == nil || !got.PaymentDate.Equal(now) {
			t.Fatalf("payment date = %v, want %v", got.PaymentDate, now)
		}
		if got.Name != "John" {
			t.Fatalf("profile changed: %+v", got)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.UpdatePayment(ctx, "ghost", &model.PaymentUpdate{Status: model.Ptr(model.PaymentStatusCompleted)})
		if !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("UpdatePayment error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("list by status", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range []string{"a", "b", "c"} {
			if err := repo.Append(ctx, &model.Registration{SubmissionID: id, PaymentStatus: model.PaymentStatusNone}); err != nil {
				t.Fatalf("Append %s: %v", id, err)
			}
		}
		for _, id := range []string{"a", "c"} {
			err := repo.UpdatePayment(ctx, id, &model.PaymentUpdate{
				Status:      model.Ptr(model.PaymentStatusPending),
				PaymentLink: model.Ptr("https://gateway/" + id),
			})
			if err != nil {
				t.Fatalf("UpdatePayment %s: %v", id, err)
			}
		}

		pending, err := repo.ListByStatus(ctx, model.PaymentStatusPending)
		if err != nil {
			t.Fatalf("ListByStatus: %v", err)
		}
		if len(pending) != 2 {
			t.Fatalf("got %d pending, want 2", len(pending))
		}
		ids := map[string]bool{}
		for _, reg := range pending {
			ids[reg.SubmissionID] = true
		}
		if !ids["a"] || !ids["c"] {
			t.Fatalf("unexpected pending set: %v", ids)
		}
	})
}
