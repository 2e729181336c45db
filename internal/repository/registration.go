package repository

import (
	"context"
	"errors"
	"registration-payment-relay/internal/model"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound  = errors.New("registration record not found")
	ErrDuplicateRecord = errors.New("registration record already exists")
)

// RegistrationRepository is the keyed record store. Every backend locates rows by
// submission id only.
type RegistrationRepository interface {
	FindBySubmissionID(ctx context.Context, submissionID string) (*model.Registration, error)
	Append(ctx context.Context, reg *model.Registration) error
	UpdatePayment(ctx context.Context, submissionID string, upd *model.PaymentUpdate) error
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Registration, error)
}

type registrationRepoImpl struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepoImpl{
		db: db,
	}
}

func (r *registrationRepoImpl) FindBySubmissionID(ctx context.Context, submissionID string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&reg).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &reg, nil
}

func (r *registrationRepoImpl) Append(ctx context.Context, reg *model.Registration) error {
	err := r.db.WithContext(ctx).Create(reg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRecord
	}
	return err
}

func (r *registrationRepoImpl) UpdatePayment(ctx context.Context, submissionID string, upd *model.PaymentUpdate) error {
	columns := paymentColumns(upd)
	if len(columns) == 0 {
		return nil
	}
	columns["updated_at"] = time.Now()

	result := r.db.
		WithContext(ctx).
		Model(&model.Registration{}).
		Where("submission_id = ?", submissionID).
		Updates(columns)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// mysql reports changed rows, not matched rows
		var count int64
		err := r.db.WithContext(ctx).
			Model(&model.Registration{}).
			Where("submission_id = ?", submissionID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrRecordNotFound
		}
	}

	return nil
}

func (r *registrationRepoImpl) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Registration, error) {
	var regs []*model.Registration
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", status).
		Order("created_at").
		Find(&regs).
		Error

	if err != nil {
		return nil, err
	}

	return regs, nil
}

func paymentColumns(upd *model.PaymentUpdate) map[string]interface{} {
	columns := map[string]interface{}{}
	if upd.Status != nil {
		columns["payment_status"] = *upd.Status
	}
	if upd.Amount != nil {
		columns["amount"] = *upd.Amount
	}
	if upd.PaymentDate != nil {
		columns["payment_date"] = *upd.PaymentDate
	}
	if upd.PaymentLink != nil {
		columns["payment_link"] = *upd.PaymentLink
	}
	if upd.TransactionID != nil {
		columns["transaction_id"] = *upd.TransactionID
	}
	return columns
}
