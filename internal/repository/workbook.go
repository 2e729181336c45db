package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"registration-payment-relay/internal/model"

	"github.com/xuri/excelize/v2"
)

// workbookRepoImpl keeps registrations in a local .xlsx file using the same column
// layout as the hosted spreadsheet. The file is reopened on every call so edits made
// by organisers in a spreadsheet app are picked up.
type workbookRepoImpl struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func NewWorkbookRepository(path, sheet string) (RegistrationRepository, error) {
	r := &workbookRepoImpl{path: path, sheet: sheet}
	if err := r.ensureSheet(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *workbookRepoImpl) ensureSheet() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var f *excelize.File
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if r.sheet != "Sheet1" {
			if err := f.SetSheetName("Sheet1", r.sheet); err != nil {
				return fmt.Errorf("rename workbook sheet: %w", err)
			}
		}
	} else {
		f, err = excelize.OpenFile(r.path)
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil {
		return fmt.Errorf("lookup workbook sheet: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(r.sheet); err != nil {
			return fmt.Errorf("create workbook sheet: %w", err)
		}
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return fmt.Errorf("read workbook rows: %w", err)
	}
	if len(rows) == 0 {
		header := anyCells(sheetHeaders)
		if err := f.SetSheetRow(r.sheet, "A1", &header); err != nil {
			return fmt.Errorf("write workbook header: %w", err)
		}
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (r *workbookRepoImpl) open(ctx context.Context) (*excelize.File, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read workbook rows: %w", err)
	}

	return f, rows, nil
}

func (r *workbookRepoImpl) FindBySubmissionID(ctx context.Context, submissionID string) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, rows, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rowNumber, ok := findRow(rows, submissionID)
	if !ok {
		return nil, ErrRecordNotFound
	}

	return decodeRow(rows[rowNumber-1]), nil
}

func (r *workbookRepoImpl) Append(ctx context.Context, reg *model.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, rows, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, exists := findRow(rows, reg.SubmissionID); exists {
		return ErrDuplicateRecord
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("resolve append cell: %w", err)
	}
	values := anyCells(encodeRow(reg))
	if err := f.SetSheetRow(r.sheet, cell, &values); err != nil {
		return fmt.Errorf("append workbook row: %w", err)
	}

	return f.Save()
}

func (r *workbookRepoImpl) UpdatePayment(ctx context.Context, submissionID string, upd *model.PaymentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, rows, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	rowNumber, ok := findRow(rows, submissionID)
	if !ok {
		return ErrRecordNotFound
	}

	reg := decodeRow(rows[rowNumber-1])
	upd.Apply(reg)

	values := anyCells(encodePaymentCells(reg))
	if err := f.SetSheetRow(r.sheet, fmt.Sprintf("%s%d", firstPaymentColumn, rowNumber), &values); err != nil {
		return fmt.Errorf("update workbook payment cells: %w", err)
	}

	return f.Save()
}

func (r *workbookRepoImpl) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, rows, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var regs []*model.Registration
	for _, row := range rows[min(1, len(rows)):] {
		reg := decodeRow(row)
		if reg.SubmissionID != "" && reg.PaymentStatus == status {
			regs = append(regs, reg)
		}
	}

	return regs, nil
}
