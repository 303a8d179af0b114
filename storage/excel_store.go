package storage

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelStore keeps the whole database in one Excel workbook, one sheet per
// logical table with the column layout as the first row. Access is
// serialized with a process-local mutex; the workbook format has no
// row-level locking of its own.
type ExcelStore struct {
	path string
	mu   sync.Mutex
}

// NewExcelStore returns a store backed by the workbook at path. The file is
// created on first use.
func NewExcelStore(path string) *ExcelStore {
	return &ExcelStore{path: path}
}

// open loads the workbook, creating a fresh one when the file does not
// exist yet. The bool reports whether the workbook is new and must be saved
// with SaveAs.
func (s *ExcelStore) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, storeErr("stat workbook", err)
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, false, storeErr("open workbook", err)
	}
	return f, false, nil
}

func (s *ExcelStore) save(f *excelize.File, isNew bool) error {
	if isNew {
		if err := f.SaveAs(s.path); err != nil {
			return storeErr("save workbook", err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return storeErr("save workbook", err)
	}
	return nil
}

// ensureSheet creates the sheet with its header row when absent. Returns
// whether the workbook was modified.
func (s *ExcelStore) ensureSheet(f *excelize.File, name string, cols []string) (bool, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return false, storeErr("sheet index", err)
	}
	if idx >= 0 {
		return false, nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return false, storeErr("create sheet", err)
	}
	if err := f.SetSheetRow(name, "A1", toCells(cols)); err != nil {
		return false, storeErr("write header", err)
	}
	// Drop the default sheet once a real table exists.
	if di, _ := f.GetSheetIndex("Sheet1"); di >= 0 {
		_ = f.DeleteSheet("Sheet1")
	}
	return true, nil
}

func (s *ExcelStore) ReadTable(ctx context.Context, name string, cols []string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("read "+name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, isNew, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	created, err := s.ensureSheet(f, name, cols)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.save(f, isNew); err != nil {
			return nil, err
		}
		return []Row{}, nil
	}

	raw, err := f.GetRows(name)
	if err != nil {
		return nil, storeErr("read "+name, err)
	}
	rows := make([]Row, 0, len(raw))
	for i, r := range raw {
		if i == 0 {
			continue // header
		}
		if isEmpty(r) {
			continue
		}
		rows = append(rows, normalizeRow(r, len(cols)))
	}
	return rows, nil
}

func (s *ExcelStore) WriteTable(ctx context.Context, name string, rows []Row) error {
	cols, ok := TableColumns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if err := ctx.Err(); err != nil {
		return storeErr("write "+name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, isNew, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	// Full overwrite: drop every existing data row so stale trailing rows
	// cannot survive a shrink. The sheet itself is kept in place because
	// excelize refuses to delete a workbook's only sheet.
	if idx, _ := f.GetSheetIndex(name); idx >= 0 {
		existing, err := f.GetRows(name)
		if err != nil {
			return storeErr("write "+name, err)
		}
		for i := len(existing); i >= 2; i-- {
			if err := f.RemoveRow(name, i); err != nil {
				return storeErr("clear "+name, err)
			}
		}
	}
	if _, err := s.ensureSheet(f, name, cols); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, toCells(row)); err != nil {
			return storeErr("write "+name, err)
		}
	}
	return s.save(f, isNew)
}

func (s *ExcelStore) AppendRow(ctx context.Context, name string, row Row) error {
	return s.AppendRows(ctx, name, []Row{row})
}

func (s *ExcelStore) AppendRows(ctx context.Context, name string, rows []Row) error {
	cols, ok := TableColumns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if err := ctx.Err(); err != nil {
		return storeErr("append "+name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, isNew, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := s.ensureSheet(f, name, cols); err != nil {
		return err
	}
	existing, err := f.GetRows(name)
	if err != nil {
		return storeErr("append "+name, err)
	}
	next := len(existing) + 1
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, next+i)
		if err := f.SetSheetRow(name, cell, toCells(normalizeRow(row, len(cols)))); err != nil {
			return storeErr("append "+name, err)
		}
	}
	return s.save(f, isNew)
}

func toCells(row []string) *[]interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &cells
}

func isEmpty(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
