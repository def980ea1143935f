package wordbank

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ExcelStore keeps the bank in one worksheet of an .xlsx workbook
type ExcelStore struct {
	Path    string
	Sheet   string // Worksheet name; the active sheet when empty
	Columns Columns
}

// Load reads the configured sheet of the workbook at Path
func (s *ExcelStore) Load(ctx context.Context) (*Bank, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMissingColumn, sheet)
	}

	bank, err := decodeTable(rows[0], rows[1:], s.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return bank, nil
}

// Save writes b to a fresh workbook at Path. Counters are stored as numbers.
func (s *ExcelStore) Save(ctx context.Context, b *Bank) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if s.Sheet != "" && s.Sheet != defaultSheet {
		f.SetSheetName(defaultSheet, s.Sheet)
		sheet = s.Sheet
	}

	header, rows := encodeTable(b, s.Columns)
	if err := setRow(f, sheet, 1, stringsToCells(header)); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, recordCells(row)); err != nil {
			return err
		}
	}

	return writeFileAtomic(s.Path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("failed to write Excel file: %w", err)
		}
		return nil
	})
}

// Close implements Store
func (s *ExcelStore) Close() error {
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func stringsToCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// recordCells converts an encoded row, turning the trailing counters back into ints
func recordCells(row []string) []interface{} {
	cells := stringsToCells(row)
	for i := len(row) - 2; i >= 0 && i < len(row); i++ {
		if n, err := strconv.Atoi(row[i]); err == nil {
			cells[i] = n
		}
	}
	return cells
}
