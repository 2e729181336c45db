package dto

// IntakeRequest is a registration already normalized by the form field mapper.
// Amount stays loosely typed; the service coerces it.
type IntakeRequest struct {
	SubmissionID         string `json:"submission_id"`
	Amount               any    `json:"amount"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	RegistrationCategory string `json:"registration_category"`
	ParticipationType    string `json:"participation_type"`
	Education            string `json:"education"`
	Specialty            string `json:"specialty"`
	Workplace            string `json:"workplace"`
	Position             string `json:"position"`
	City                 string `json:"city"`
	Region               string `json:"region"`
	Country              string `json:"country"`
	BirthDate            string `json:"birth_date"`
}

type IntakeResponse struct {
	Success              bool   `json:"success"`
	SubmissionID         string `json:"submission_id"`
	NeedsPayment         bool   `json:"needs_payment"`
	PaymentLink          string `json:"payment_link,omitempty"`
	Amount               string `json:"amount"`
	RegistrationCategory string `json:"registration_category,omitempty"`
}

// CallbackRequest is the gateway server-to-server notification. LiqPay posts it form encoded.
type CallbackRequest struct {
	Data      string `json:"data" form:"data"`
	Signature string `json:"signature" form:"signature"`
}

type PaymentStatusResponse struct {
	SubmissionID  string `json:"submission_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	PaymentLink   string `json:"payment_link"`
	TransactionID string `json:"transaction_id"`
}

// RegenerateRequest fields override the stored registration when present.
type RegenerateRequest struct {
	Amount any    `json:"amount"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

type RegenerateResponse struct {
	Success     bool   `json:"success"`
	PaymentLink string `json:"payment_link"`
}

type PendingPayment struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Amount       string `json:"amount"`
	PaymentDate  string `json:"payment_date"`
	PaymentLink  string `json:"payment_link"`
}

type PendingPaymentsResponse struct {
	PendingPayments []*PendingPayment `json:"pending_payments"`
	TotalPending    int               `json:"total_pending"`
}
