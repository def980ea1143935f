package wordbank

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVStore keeps the bank in a delimited text file with a header row
type CSVStore struct {
	Path    string
	Comma   rune // Field delimiter; ',' when zero
	Columns Columns
}

// Load reads the file at Path
func (s *CSVStore) Load(ctx context.Context) (*Bank, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word bank: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = s.comma()
	reader.FieldsPerRecord = -1 // Allow short rows
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMissingColumn, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rows = append(rows, row)
	}

	bank, err := decodeTable(header, rows, s.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return bank, nil
}

// Save rewrites the file at Path with b
func (s *CSVStore) Save(ctx context.Context, b *Bank) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	header, rows := encodeTable(b, s.Columns)

	return writeFileAtomic(s.Path, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		writer.Comma = s.comma()
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := writer.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write records: %w", err)
		}
		return nil
	})
}

// Close implements Store
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) comma() rune {
	if s.Comma == 0 {
		return ','
	}
	return s.Comma
}
