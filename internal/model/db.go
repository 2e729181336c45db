package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "NONE"
	PaymentStatusFree      PaymentStatus = "FREE"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsTerminal reports whether no further automatic transition is expected.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type Registration struct {
	SubmissionID string `gorm:"primaryKey;size:128;not null"` // assigned by the form provider

	Name                 string `gorm:"size:255"`
	Email                string `gorm:"size:255;index"`
	Phone                string `gorm:"size:64"`
	RegistrationCategory string `gorm:"size:128"`
	ParticipationType    string `gorm:"size:128"`
	Education            string `gorm:"size:255"`
	Specialty            string `gorm:"size:255"`
	Workplace            string `gorm:"size:255"`
	Position             string `gorm:"size:255"`
	City                 string `gorm:"size:128"`
	Region               string `gorm:"size:128"`
	Country              string `gorm:"size:128"`
	BirthDate            string `gorm:"size:32"`

	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentStatus PaymentStatus   `gorm:"size:16;index;not null"` // NONE, FREE, PENDING, COMPLETED, FAILED
	PaymentDate   *time.Time
	PaymentLink   string `gorm:"type:text"`
	TransactionID string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Registration) NeedsPayment() bool {
	return NeedsPayment(r.Amount)
}

// PaymentUpdate is a partial write of the payment columns. Nil fields are left untouched.
type PaymentUpdate struct {
	Status        *PaymentStatus
	Amount        *decimal.Decimal
	PaymentDate   *time.Time
	PaymentLink   *string
	TransactionID *string
}

// Apply copies the non-nil fields of u onto r.
func (u *PaymentUpdate) Apply(r *Registration) {
	if u.Status != nil {
		r.PaymentStatus = *u.Status
	}
	if u.Amount != nil {
		r.Amount = *u.Amount
	}
	if u.PaymentDate != nil {
		date := *u.PaymentDate
		r.PaymentDate = &date
	}
	if u.PaymentLink != nil {
		r.PaymentLink = *u.PaymentLink
	}
	if u.TransactionID != nil {
		r.TransactionID = *u.TransactionID
	}
}

func Ptr[T any](v T) *T {
	return &v
}

type CallbackOutcome string

const (
	CallbackOutcomeCompleted CallbackOutcome = "completed"
	CallbackOutcomeFailed    CallbackOutcome = "failed"
	CallbackOutcomeIgnored   CallbackOutcome = "ignored"
	CallbackOutcomeOrphaned  CallbackOutcome = "orphaned" // verified, but no record matches order_id
)
