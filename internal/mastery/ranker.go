package mastery

import (
	"math"
	"sort"

	"github.com/example/flashbank/pkg/models"
)

// Judgment is the user's verdict on a revealed card
type Judgment int

const (
	// JudgmentNone carries no answer. Used once at session start so the bank
	// is ranked before the first card is chosen.
	JudgmentNone Judgment = iota
	// JudgmentCorrect means the user knew the target term
	JudgmentCorrect
	// JudgmentIncorrect means the user did not know the target term
	JudgmentIncorrect
)

// FromBool converts a correct/incorrect answer into a Judgment
func FromBool(correct bool) Judgment {
	if correct {
		return JudgmentCorrect
	}
	return JudgmentIncorrect
}

// String implements fmt.Stringer
func (j Judgment) String() string {
	switch j {
	case JudgmentCorrect:
		return "correct"
	case JudgmentIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// RecordJudgment tallies j on rec. It reports whether a counter changed.
// JudgmentNone and a nil record never change anything.
func RecordJudgment(rec *models.VocabRecord, j Judgment) bool {
	if rec == nil {
		return false
	}
	switch j {
	case JudgmentCorrect:
		rec.Correct++
	case JudgmentIncorrect:
		rec.Incorrect++
	default:
		return false
	}
	return true
}

// SortKey returns the value records are ranked by. Unattempted records map to
// -Inf so they rank below every attempted record, including a ratio of 0.
func SortKey(rec *models.VocabRecord) float64 {
	ratio, ok := rec.Ratio()
	if !ok {
		return math.Inf(-1)
	}
	return ratio
}

// Rerank stable-sorts records by descending mastery ratio, in place.
// Records with equal keys keep their relative order, so repeated calls
// without intervening judgments leave the order unchanged.
func Rerank(records []*models.VocabRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return SortKey(records[i]) > SortKey(records[j])
	})
}

// IsRanked reports whether records are in non-increasing mastery order
func IsRanked(records []*models.VocabRecord) bool {
	for i := 1; i < len(records); i++ {
		if SortKey(records[i-1]) < SortKey(records[i]) {
			return false
		}
	}
	return true
}

// IsMastered reports whether rec meets the difficulty threshold.
// An unattempted record is never mastered.
func IsMastered(rec *models.VocabRecord, threshold float64) bool {
	ratio, ok := rec.Ratio()
	return ok && ratio >= threshold
}

// Stats summarizes records against the difficulty threshold
func Stats(records []*models.VocabRecord, threshold float64) models.BankStats {
	stats := models.BankStats{Total: len(records), Threshold: threshold}
	for _, rec := range records {
		stats.Correct += rec.Correct
		stats.Incorrect += rec.Incorrect

		switch {
		case rec.Attempts() == 0:
			stats.Unattempted++
		case IsMastered(rec, threshold):
			stats.Mastered++
		default:
			stats.Learning++
		}
	}
	return stats
}
