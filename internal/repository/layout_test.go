package repository

import (
	"testing"
	"time"

	"registration-payment-relay/internal/model"
)

func TestDecodeRowToleratesShortAndLooseRows(t *testing.T) {
	// rows returned by the Sheets API stop at the last non-empty cell
	short := make([]string, colSubmissionID+1)
	short[colName] = " Jane "
	short[colSubmissionID] = "sub-1"

	reg := decodeRow(short)
	if reg.SubmissionID != "sub-1" || reg.Name != "Jane" {
		t.Fatalf("unexpected decode: %+v", reg)
	}
	if reg.PaymentStatus != model.PaymentStatusNone {
		t.Fatalf("status = %q, want NONE", reg.PaymentStatus)
	}
	if !reg.Amount.IsZero() || reg.PaymentDate != nil {
		t.Fatalf("payment cells should be empty: %+v", reg)
	}
}

func TestStringCellsAndFindRow(t *testing.T) {
	values := make([]interface{}, rowWidth)
	for i := range values {
		values[i] = ""
	}
	values[colSubmissionID] = "sub-9"
	values[colPaymentStatus] = "PENDING"
	values[colPaymentAmount] = float64(1500)
	values[colPaymentDate] = "2025-10-01T10:00:00Z"

	rows := [][]string{sheetHeaders, {"", ""}, stringCells(values)}

	rowNumber, ok := findRow(rows, "sub-9")
	if !ok || rowNumber != 3 {
		t.Fatalf("findRow = %d, %v; want 3, true", rowNumber, ok)
	}
	if _, ok := findRow(rows, "Submission ID"); ok {
		t.Fatal("findRow matched the header row")
	}

	reg := decodeRow(rows[rowNumber-1])
	if reg.Amount.String() != "1500" {
		t.Fatalf("amount = %s, want 1500", reg.Amount)
	}
	want := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	if reg.PaymentDate == nil || !reg.PaymentDate.Equal(want) {
		t.Fatalf("payment date = %v, want %v", reg.PaymentDate, want)
	}
	if got := paymentRange("Sheet1", rowNumber); got != "'Sheet1'!U3:Y3" {
		t.Fatalf("paymentRange = %q", got)
	}
}

func TestRangesQuoteSheetNames(t *testing.T) {
	tests := []struct {
		sheet     string
		wantRows  string
		wantCells string
	}{
		{sheet: "Sheet1", wantRows: "'Sheet1'!A:Y", wantCells: "'Sheet1'!U2:Y2"},
		{sheet: "Registrations 2025", wantRows: "'Registrations 2025'!A:Y", wantCells: "'Registrations 2025'!U2:Y2"},
		{sheet: "Olena's list", wantRows: "'Olena''s list'!A:Y", wantCells: "'Olena''s list'!U2:Y2"},
	}
	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			if got := rowsRange(tt.sheet); got != tt.wantRows {
				t.Fatalf("rowsRange = %q, want %q", got, tt.wantRows)
			}
			if got := paymentRange(tt.sheet, 2); got != tt.wantCells {
				t.Fatalf("paymentRange = %q, want %q", got, tt.wantCells)
			}
		})
	}
}
