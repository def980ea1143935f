package wordbank

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists a word bank
type Store interface {
	// Load reads the whole bank
	Load(ctx context.Context) (*Bank, error)
	// Save replaces the stored bank with b
	Save(ctx context.Context, b *Bank) error
	// Close releases any resources held by the store
	Close() error
}

// Options configures how a store maps its data onto a bank
type Options struct {
	Columns Columns // Term columns for tabular formats
	Sheet   string  // Worksheet for .xlsx files; the active sheet when empty
}

// DefaultOptions returns the default store options
func DefaultOptions() Options {
	return Options{Columns: DefaultColumns()}
}

// Open returns the store for path, chosen by file extension or DSN scheme
func Open(path string, opts Options) (Store, error) {
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}

	if isPostgresDSN(path) {
		return OpenSQL("postgres", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return &CSVStore{Path: path, Comma: ',', Columns: opts.Columns}, nil
	case ".tsv":
		return &CSVStore{Path: path, Comma: '\t', Columns: opts.Columns}, nil
	case ".xlsx":
		return &ExcelStore{Path: path, Sheet: opts.Sheet, Columns: opts.Columns}, nil
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQL("sqlite3", path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// OpenExisting is Open for a bank that must already exist. A missing file is
// an error; the session cannot run without a word bank.
func OpenExisting(path string, opts Options) (Store, error) {
	if !isPostgresDSN(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open word bank: %w", err)
		}
	}
	return Open(path, opts)
}

// Load reads the bank stored at path
func Load(ctx context.Context, path string, opts Options) (*Bank, error) {
	store, err := OpenExisting(path, opts)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Load(ctx)
}

// Save overwrites the bank stored at path with b
func Save(ctx context.Context, path string, opts Options, b *Bank) error {
	store, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(ctx, b)
}

func isPostgresDSN(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}
