package wordbank

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/flashbank/pkg/models"
)

// SQLStore keeps the bank in a "vocab" table of a SQLite or PostgreSQL database
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQL connects to the database and creates the schema if needed.
// driver is "sqlite3" or "postgres".
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	if driver == "sqlite3" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	store := &SQLStore{db: db}
	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initializeSchema creates the vocab table if it doesn't exist
func (s *SQLStore) initializeSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS vocab (
			position INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			correct INTEGER NOT NULL DEFAULT 0,
			incorrect INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocab table: %w", err)
	}
	return nil
}

// Load returns the stored bank in saved order
func (s *SQLStore) Load(ctx context.Context) (*Bank, error) {
	if err := s.initializeSchema(); err != nil {
		return nil, err
	}

	var rows []models.VocabRecord
	err := s.db.SelectContext(ctx, &rows,
		"SELECT source, target, correct, incorrect FROM vocab ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to get vocab: %w", err)
	}

	records := make([]*models.VocabRecord, len(rows))
	for i := range rows {
		if rows[i].Correct < 0 || rows[i].Incorrect < 0 {
			return nil, fmt.Errorf("%w: negative counter for %q", ErrMalformed, rows[i].Source)
		}
		records[i] = &rows[i]
	}
	return NewBank(records), nil
}

// Save replaces the table contents with b in one transaction
func (s *SQLStore) Save(ctx context.Context, b *Bank) error {
	if err := s.initializeSchema(); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vocab"); err != nil {
		return fmt.Errorf("failed to clear vocab: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(
		"INSERT INTO vocab (position, source, target, correct, incorrect) VALUES (?, ?, ?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range b.Records() {
		if _, err := stmt.ExecContext(ctx, i, rec.Source, rec.Target, rec.Correct, rec.Incorrect); err != nil {
			return fmt.Errorf("failed to insert %q: %w", rec.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vocab: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
