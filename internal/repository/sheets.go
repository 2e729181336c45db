package repository

import (
	"context"
	"fmt"

	"registration-payment-relay/internal/model"

	"google.golang.org/api/sheets/v4"
)

// sheetsRepoImpl stores registrations in a hosted Google spreadsheet. There is no
// index, so every lookup scans the submission id column. A freshly appended row
// may not be visible to the next read for a short while.
type sheetsRepoImpl struct {
	srv           *sheets.Service
	spreadsheetID string
	sheet         string
}

func NewSheetsRepository(srv *sheets.Service, spreadsheetID, sheet string) RegistrationRepository {
	return &sheetsRepoImpl{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
	}
}

func (r *sheetsRepoImpl) readRows(ctx context.Context) ([][]string, error) {
	resp, err := r.srv.Spreadsheets.Values.
		Get(r.spreadsheetID, rowsRange(r.sheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		rows[i] = stringCells(values)
	}
	return rows, nil
}

func (r *sheetsRepoImpl) FindBySubmissionID(ctx context.Context, submissionID string) (*model.Registration, error) {
	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	rowNumber, ok := findRow(rows, submissionID)
	if !ok {
		return nil, ErrRecordNotFound
	}

	return decodeRow(rows[rowNumber-1]), nil
}

// Append checks for an existing row first; concurrent appends of the same id can
// still race, which the intake flow tolerates by re-reading.
func (r *sheetsRepoImpl) Append(ctx context.Context, reg *model.Registration) error {
	rows, err := r.readRows(ctx)
	if err != nil {
		return err
	}
	if _, exists := findRow(rows, reg.SubmissionID); exists {
		return ErrDuplicateRecord
	}

	_, err = r.srv.Spreadsheets.Values.
		Append(r.spreadsheetID, rowsRange(r.sheet), &sheets.ValueRange{
			Values: [][]interface{}{anyCells(encodeRow(reg))},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}

	return nil
}

func (r *sheetsRepoImpl) UpdatePayment(ctx context.Context, submissionID string, upd *model.PaymentUpdate) error {
	rows, err := r.readRows(ctx)
	if err != nil {
		return err
	}

	rowNumber, ok := findRow(rows, submissionID)
	if !ok {
		return ErrRecordNotFound
	}

	// U-Y is written as one range, so untouched fields are carried over from the read
	reg := decodeRow(rows[rowNumber-1])
	upd.Apply(reg)

	_, err = r.srv.Spreadsheets.Values.
		Update(r.spreadsheetID, paymentRange(r.sheet, rowNumber), &sheets.ValueRange{
			Values: [][]interface{}{anyCells(encodePaymentCells(reg))},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update sheet payment cells: %w", err)
	}

	return nil
}

func (r *sheetsRepoImpl) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Registration, error) {
	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	var regs []*model.Registration
	for _, row := range rows[min(1, len(rows)):] {
		reg := decodeRow(row)
		if reg.SubmissionID != "" && reg.PaymentStatus == status {
			regs = append(regs, reg)
		}
	}

	return regs, nil
}
