package wordbank

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/example/flashbank/pkg/models"
)

// decodeTable turns a header and data rows into a bank. Missing counter
// columns and empty counter cells become zero.
func decodeTable(header []string, rows [][]string, cols Columns) (*Bank, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	sourceIdx, targetIdx := -1, -1
	correctIdx, incorrectIdx := -1, -1
	var extra []string
	extraIdx := make(map[string]int)

	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case cols.Source:
			sourceIdx = i
		case cols.Target:
			targetIdx = i
		case CorrectColumn:
			correctIdx = i
		case IncorrectColumn:
			incorrectIdx = i
		case ratioColumn, "":
		default:
			if _, dup := extraIdx[name]; !dup {
				extra = append(extra, name)
				extraIdx[name] = i
			}
		}
	}

	if sourceIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Source)
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Target)
	}

	records := make([]*models.VocabRecord, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header

		source := strings.TrimSpace(cell(row, sourceIdx))
		target := strings.TrimSpace(cell(row, targetIdx))
		if source == "" && target == "" {
			continue
		}

		correct, err := parseCounter(cell(row, correctIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", rowNum, CorrectColumn, err)
		}
		incorrect, err := parseCounter(cell(row, incorrectIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", rowNum, IncorrectColumn, err)
		}

		rec := &models.VocabRecord{
			Source:    source,
			Target:    target,
			Correct:   correct,
			Incorrect: incorrect,
		}
		if len(extra) > 0 {
			rec.Extra = make(map[string]string, len(extra))
			for _, name := range extra {
				rec.Extra[name] = cell(row, extraIdx[name])
			}
		}
		records = append(records, rec)
	}

	return NewBank(records, extra...), nil
}

// encodeTable renders a bank as a header and rows, without an index column
func encodeTable(b *Bank, cols Columns) ([]string, [][]string) {
	header := make([]string, 0, 4+len(b.extra))
	header = append(header, cols.Source, cols.Target)
	header = append(header, b.extra...)
	header = append(header, CorrectColumn, IncorrectColumn)

	rows := make([][]string, 0, len(b.records))
	for _, rec := range b.records {
		row := make([]string, 0, len(header))
		row = append(row, rec.Source, rec.Target)
		for _, name := range b.extra {
			row = append(row, rec.Extra[name])
		}
		row = append(row, strconv.Itoa(rec.Correct), strconv.Itoa(rec.Incorrect))
		rows = append(rows, row)
	}
	return header, rows
}

// cell returns row[idx], or "" when the column is absent or the row is short
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// maxCounter bounds counter cells on every path
const maxCounter = math.MaxInt32

// parseCounter parses a counter cell. Empty and NaN cells are zero. Integral
// floats such as "3.0" are accepted because files rewritten after a null fill
// store counters that way.
func parseCounter(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative counter %q", ErrMalformed, s)
		}
		if n > maxCounter {
			return 0, fmt.Errorf("%w: counter %q is too large", ErrMalformed, s)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: counter %q is not a number", ErrMalformed, s)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: counter %q is not an integer", ErrMalformed, s)
	}
	if f > maxCounter {
		return 0, fmt.Errorf("%w: counter %q is too large", ErrMalformed, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: negative counter %q", ErrMalformed, s)
	}
	return int(f), nil
}
