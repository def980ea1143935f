package wordbank

import (
	"github.com/example/flashbank/pkg/models"
)

// Counter column names shared by every tabular format
const (
	CorrectColumn   = "Correct"
	IncorrectColumn = "Incorrect"

	// ratioColumn is derived data older files may carry. It is dropped on load.
	ratioColumn = "Ratio"
)

// Columns names the term columns of a tabular word bank
type Columns struct {
	Source string // Column with the term shown first
	Target string // Column with the term revealed on flip
}

// DefaultColumns returns the default term columns
func DefaultColumns() Columns {
	return Columns{
		Source: "French",
		Target: "English",
	}
}

// Bank is the ordered in-memory word bank. The order is owned by the caller
// (the session reranks it in place); the bank itself never reorders records.
type Bank struct {
	extra   []string
	records []*models.VocabRecord
}

// NewBank creates a bank from records. extra lists additional column names,
// in output order, whose values live in each record's Extra map.
func NewBank(records []*models.VocabRecord, extra ...string) *Bank {
	for _, rec := range records {
		if rec.Extra == nil && len(extra) > 0 {
			rec.Extra = make(map[string]string, len(extra))
		}
	}
	return &Bank{
		extra:   append([]string(nil), extra...),
		records: records,
	}
}

// Records returns the live record slice. Sorting it in place reorders the bank.
func (b *Bank) Records() []*models.VocabRecord {
	return b.records
}

// Len returns the number of records
func (b *Bank) Len() int {
	return len(b.records)
}

// ExtraColumns returns the names of the preserved non-term columns
func (b *Bank) ExtraColumns() []string {
	return append([]string(nil), b.extra...)
}

// Find returns the first record with the given source term, or nil
func (b *Bank) Find(source string) *models.VocabRecord {
	for _, rec := range b.records {
		if rec.Source == source {
			return rec
		}
	}
	return nil
}

// Snapshot returns a deep copy of the records in their current order
func (b *Bank) Snapshot() []models.VocabRecord {
	out := make([]models.VocabRecord, len(b.records))
	for i, rec := range b.records {
		out[i] = *rec
		if rec.Extra != nil {
			out[i].Extra = make(map[string]string, len(rec.Extra))
			for k, v := range rec.Extra {
				out[i].Extra[k] = v
			}
		}
	}
	return out
}
