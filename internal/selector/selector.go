package selector

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/example/flashbank/internal/mastery"
	"github.com/example/flashbank/pkg/models"
)

// DefaultSigma is the standard deviation of the index distribution
const DefaultSigma = 20.0

// ErrEmptyBank is returned when there is nothing to select from
var ErrEmptyBank = errors.New("selector: word bank is empty")

// Selector draws the next card from a ranked bank. Draws are centered on the
// boundary between mastered and unmastered records, so weak records come up
// often and mastered ones still appear now and then for review.
//
// A Selector is not safe for concurrent use.
type Selector struct {
	// Sigma is the spread of the draw around the boundary
	Sigma float64

	rng *rand.Rand
}

// New creates a selector with the given random source. A nil source is
// seeded from the clock.
func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{
		Sigma: DefaultSigma,
		rng:   rand.New(src),
	}
}

// NewSeeded creates a selector with a deterministic seed
func NewSeeded(seed int64) *Selector {
	return New(rand.NewSource(seed))
}

// Boundary returns the count of records whose ratio meets threshold, found by
// walking up from the least mastered end. records must already be ranked.
func Boundary(records []*models.VocabRecord, threshold float64) int {
	boundary := len(records)
	for i := len(records) - 1; i >= 0; i-- {
		if !mastery.IsMastered(records[i], threshold) {
			boundary--
		}
	}
	return boundary
}

// Index draws a position in [0, n). The draw is round(N(mean, sigma)),
// redrawn while it falls outside [0, n]. A draw of exactly n is accepted by
// the loop and then clamped to n-1 before it is used.
func (s *Selector) Index(n int, mean float64) int {
	if n <= 0 {
		return -1
	}
	sigma := s.Sigma
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		sigma = DefaultSigma
	}

	index := s.draw(mean, sigma)
	for index < 0 || index > n {
		index = s.draw(mean, sigma)
	}
	if index == n {
		index = n - 1
	}
	return index
}

func (s *Selector) draw(mean, sigma float64) int {
	return int(math.Round(s.rng.NormFloat64()*sigma + mean))
}

// Select picks the next record to present from ranked records
func (s *Selector) Select(records []*models.VocabRecord, threshold float64) (*models.VocabRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBank
	}
	boundary := Boundary(records, threshold)
	return records[s.Index(len(records), float64(boundary))], nil
}
