package repository

import (
	"fmt"
	"strings"
	"time"

	"registration-payment-relay/internal/model"

	"github.com/spf13/cast"
)

// Sheet layout shared by the workbook and Google Sheets stores:
// A-M profile, N submission id, U-Y payment columns. Row 1 holds headers.
const (
	colName = iota
	colEmail
	colPhone
	colRegistrationCategory
	colParticipationType
	colEducation
	colSpecialty
	colWorkplace
	colPosition
	colCity
	colRegion
	colCountry
	colBirthDate
	colSubmissionID
)

const (
	colPaymentStatus = iota + 20
	colPaymentAmount
	colPaymentDate
	colPaymentLink
	colTransactionID

	rowWidth = colTransactionID + 1
)

const (
	firstPaymentColumn = "U"
	lastPaymentColumn  = "Y"
	lastColumn         = "Y"
)

var sheetHeaders = func() []string {
	h := make([]string, rowWidth)
	h[colName] = "Name"
	h[colEmail] = "Email"
	h[colPhone] = "Phone"
	h[colRegistrationCategory] = "Registration Category"
	h[colParticipationType] = "Participation Type"
	h[colEducation] = "Education"
	h[colSpecialty] = "Specialty"
	h[colWorkplace] = "Workplace"
	h[colPosition] = "Position"
	h[colCity] = "City"
	h[colRegion] = "Region"
	h[colCountry] = "Country"
	h[colBirthDate] = "Birth Date"
	h[colSubmissionID] = "Submission ID"
	h[colPaymentStatus] = "Payment Status"
	h[colPaymentAmount] = "Payment Amount"
	h[colPaymentDate] = "Payment Date"
	h[colPaymentLink] = "Payment Link"
	h[colTransactionID] = "Transaction ID"
	return h
}()

func encodeRow(reg *model.Registration) []string {
	row := make([]string, rowWidth)
	row[colName] = reg.Name
	row[colEmail] = reg.Email
	row[colPhone] = reg.Phone
	row[colRegistrationCategory] = reg.RegistrationCategory
	row[colParticipationType] = reg.ParticipationType
	row[colEducation] = reg.Education
	row[colSpecialty] = reg.Specialty
	row[colWorkplace] = reg.Workplace
	row[colPosition] = reg.Position
	row[colCity] = reg.City
	row[colRegion] = reg.Region
	row[colCountry] = reg.Country
	row[colBirthDate] = reg.BirthDate
	row[colSubmissionID] = reg.SubmissionID
	copy(row[colPaymentStatus:], encodePaymentCells(reg))
	return row
}

// encodePaymentCells renders columns U-Y.
func encodePaymentCells(reg *model.Registration) []string {
	date := ""
	if reg.PaymentDate != nil {
		date = reg.PaymentDate.UTC().Format(time.RFC3339)
	}
	return []string{
		string(reg.PaymentStatus),
		reg.Amount.String(),
		date,
		reg.PaymentLink,
		reg.TransactionID,
	}
}

func decodeRow(row []string) *model.Registration {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	reg := &model.Registration{
		Name:                 cell(colName),
		Email:                cell(colEmail),
		Phone:                cell(colPhone),
		RegistrationCategory: cell(colRegistrationCategory),
		ParticipationType:    cell(colParticipationType),
		Education:            cell(colEducation),
		Specialty:            cell(colSpecialty),
		Workplace:            cell(colWorkplace),
		Position:             cell(colPosition),
		City:                 cell(colCity),
		Region:               cell(colRegion),
		Country:              cell(colCountry),
		BirthDate:            cell(colBirthDate),
		SubmissionID:         cell(colSubmissionID),
		PaymentStatus:        model.PaymentStatus(cell(colPaymentStatus)),
		Amount:               model.CoerceAmount(cell(colPaymentAmount)),
		PaymentLink:          cell(colPaymentLink),
		TransactionID:        cell(colTransactionID),
	}
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = model.PaymentStatusNone
	}
	if date, err := time.Parse(time.RFC3339, cell(colPaymentDate)); err == nil {
		reg.PaymentDate = &date
	}

	return reg
}

// stringCells converts API cell values (strings, numbers, bools) to strings.
func stringCells(values []interface{}) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = cast.ToString(v)
	}
	return row
}

func anyCells(row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return values
}

// findRow returns the 1-based sheet row holding submissionID, skipping the header.
func findRow(rows [][]string, submissionID string) (int, bool) {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > colSubmissionID && strings.TrimSpace(rows[i][colSubmissionID]) == submissionID {
			return i + 1, true
		}
	}
	return 0, false
}

func paymentRange(sheet string, rowNumber int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(sheet), firstPaymentColumn, rowNumber, lastPaymentColumn, rowNumber)
}

// rowsRange covers every layout column of sheet.
func rowsRange(sheet string) string {
	return fmt.Sprintf("%s!A:%s", quoteSheet(sheet), lastColumn)
}

// quoteSheet quotes a sheet name for A1 notation so names with spaces or
// punctuation parse; embedded quotes are doubled.
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
