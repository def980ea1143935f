package models

// VocabRecord represents one term pair of the word bank together with its answer history
type VocabRecord struct {
	Source    string `json:"source" db:"source"`       // Term shown on the front of the card
	Target    string `json:"target" db:"target"`       // Term shown on the back of the card
	Correct   int    `json:"correct" db:"correct"`     // Cumulative correct judgments
	Incorrect int    `json:"incorrect" db:"incorrect"` // Cumulative incorrect judgments

	// Extra holds any additional columns of the source file, keyed by header name
	Extra map[string]string `json:"extra,omitempty" db:"-"`
}

// Attempts returns the total number of judgments recorded for the record
func (r *VocabRecord) Attempts() int {
	return r.Correct + r.Incorrect
}

// Ratio returns Correct/(Correct+Incorrect). ok is false when the record has
// never been attempted and the ratio is undefined.
func (r *VocabRecord) Ratio() (ratio float64, ok bool) {
	attempts := r.Attempts()
	if attempts == 0 {
		return 0, false
	}
	return float64(r.Correct) / float64(attempts), true
}
