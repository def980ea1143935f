package models

// BankStats summarizes mastery across a word bank
type BankStats struct {
	Total       int     `json:"total"`
	Mastered    int     `json:"mastered"`    // Ratio at or above the difficulty threshold
	Learning    int     `json:"learning"`    // Attempted, ratio below the threshold
	Unattempted int     `json:"unattempted"` // Never judged
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Threshold   float64 `json:"threshold"`
}

// Accuracy returns the share of correct judgments over all judgments, or 0 when nothing was judged
func (s BankStats) Accuracy() float64 {
	if s.Correct+s.Incorrect == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Correct+s.Incorrect)
}
