package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/shelvinliu/banlogger-bot-sub000/internal/domain/model"
)

const sheetName = "Sheet1"

var headerRow = []interface{}{"time", "chat", "target", "operator", "reason"}

// AuditRepo is the append-only kick log, one xlsx workbook on disk. A single
// mutex serializes Append against Snapshot; rows are never rewritten.
type AuditRepo struct {
	mu   sync.Mutex
	path string
}

func NewAuditRepo(path string) *AuditRepo {
	return &AuditRepo{path: path}
}

func (r *AuditRepo) Append(_ context.Context, event model.KickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.openOrCreate()
	if err != nil {
		return err
	}
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("read audit sheet: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("locate next audit row: %w", err)
	}

	row := []interface{}{event.Time, event.ChatTitle, event.TargetDisplay, event.OperatorDisplay, event.Reason}
	if err := file.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}

	if err := file.SaveAs(r.path); err != nil {
		return fmt.Errorf("save audit workbook: %w", err)
	}
	return nil
}

// Snapshot returns the workbook bytes as-is. The error wraps fs.ErrNotExist
// when no row was ever appended.
func (r *AuditRepo) Snapshot(_ context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read audit workbook: %w", err)
	}
	return data, nil
}

func (r *AuditRepo) openOrCreate() (*excelize.File, error) {
	_, err := os.Stat(r.path)
	if errors.Is(err, os.ErrNotExist) {
		file := excelize.NewFile()
		if err := file.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("write audit header: %w", err)
		}
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat audit workbook: %w", err)
	}

	file, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open audit workbook: %w", err)
	}
	return file, nil
}
