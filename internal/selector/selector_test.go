package selector

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashbank/internal/mastery"
	"github.com/example/flashbank/pkg/models"
)

// rankedBank builds a ranked bank with mastered records first
func rankedBank(mastered, learning, unattempted int) []*models.VocabRecord {
	var records []*models.VocabRecord
	for i := 0; i < mastered; i++ {
		records = append(records, &models.VocabRecord{Source: "m", Correct: 9, Incorrect: 1})
	}
	for i := 0; i < learning; i++ {
		records = append(records, &models.VocabRecord{Source: "l", Correct: 1, Incorrect: 3})
	}
	for i := 0; i < unattempted; i++ {
		records = append(records, &models.VocabRecord{Source: "u"})
	}
	mastery.Rerank(records)
	return records
}

func TestBoundary(t *testing.T) {
	tests := []struct {
		name                            string
		mastered, learning, unattempted int
		want                            int
	}{
		{"empty", 0, 0, 0, 0},
		{"all unattempted", 0, 0, 5, 0},
		{"all mastered", 4, 0, 0, 4},
		{"three of ten", 3, 7, 0, 3},
		{"mixed", 3, 4, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := rankedBank(tt.mastered, tt.learning, tt.unattempted)
			assert.Equal(t, tt.want, Boundary(records, 0.8))
		})
	}
}

func TestBoundary_ThresholdIsInclusive(t *testing.T) {
	records := []*models.VocabRecord{
		{Source: "exact", Correct: 4, Incorrect: 1},
		{Source: "below", Correct: 3, Incorrect: 1},
	}
	assert.Equal(t, 1, Boundary(records, 0.8))
}

func TestSelect_EmptyBank(t *testing.T) {
	s := NewSeeded(1)
	_, err := s.Select(nil, 0.8)
	require.ErrorIs(t, err, ErrEmptyBank)
	assert.Equal(t, -1, s.Index(0, 0))
}

func TestSelect_SingleRecord(t *testing.T) {
	only := &models.VocabRecord{Source: "chat", Target: "cat"}
	records := []*models.VocabRecord{only}

	s := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		got, err := s.Select(records, 0.8)
		require.NoError(t, err)
		require.Same(t, only, got)
	}
}

func TestIndex_AlwaysInRange(t *testing.T) {
	s := NewSeeded(42)
	for _, n := range []int{1, 2, 10, 57} {
		for _, mean := range []float64{0, float64(n) / 2, float64(n)} {
			for i := 0; i < 2000; i++ {
				idx := s.Index(n, mean)
				require.GreaterOrEqual(t, idx, 0)
				require.Less(t, idx, n)
			}
		}
	}
}

func TestSelect_SmallBankMeanNearBoundary(t *testing.T) {
	records := rankedBank(3, 7, 0)
	require.Equal(t, 3, Boundary(records, 0.8))

	s := NewSeeded(2024)
	const draws = 100000
	sum := 0
	for i := 0; i < draws; i++ {
		sum += s.Index(len(records), float64(Boundary(records, 0.8)))
	}
	mean := float64(sum) / draws

	// With sigma=20 over ten records the draw is close to uniform, so the
	// empirical mean drifts toward the middle but stays within two ranks.
	assert.InDelta(t, 3.0, mean, 2.0)
}

func TestSelect_LargeBankConcentratesNearBoundary(t *testing.T) {
	records := rankedBank(50, 100, 50)
	boundary := Boundary(records, 0.8)
	require.Equal(t, 50, boundary)

	s := NewSeeded(99)
	const draws = 50000
	sum, near := 0, 0
	for i := 0; i < draws; i++ {
		idx := s.Index(len(records), float64(boundary))
		sum += idx
		if idx >= boundary-20 && idx <= boundary+20 {
			near++
		}
	}

	assert.InDelta(t, 50.3, float64(sum)/draws, 1.0)
	// About 68% of mass lies within one sigma.
	assert.Greater(t, float64(near)/draws, 0.6)
}

func TestSelect_ReturnsBankMember(t *testing.T) {
	records := rankedBank(2, 2, 2)
	s := NewSeeded(5)
	for i := 0; i < 200; i++ {
		got, err := s.Select(records, 0.8)
		require.NoError(t, err)
		assert.Contains(t, records, got)
	}
}

func TestIndex_InvalidSigmaFallsBack(t *testing.T) {
	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := NewSeeded(3)
		s.Sigma = sigma

		done := make(chan int, 1)
		go func() { done <- s.Index(10, 3) }()

		select {
		case idx := <-done:
			assert.GreaterOrEqual(t, idx, 0, "sigma %v", sigma)
			assert.Less(t, idx, 10, "sigma %v", sigma)
		case <-time.After(2 * time.Second):
			t.Fatalf("Index did not return with sigma %v", sigma)
		}
	}
}
