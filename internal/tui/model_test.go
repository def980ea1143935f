package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashbank/internal/selector"
	"github.com/example/flashbank/internal/session"
	"github.com/example/flashbank/internal/wordbank"
	"github.com/example/flashbank/pkg/models"
)

type memStore struct {
	saves int
	err   error
}

func (s *memStore) Load(ctx context.Context) (*wordbank.Bank, error) { return nil, nil }
func (s *memStore) Save(ctx context.Context, b *wordbank.Bank) error {
	s.saves++
	return s.err
}
func (s *memStore) Close() error { return nil }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func setup(t *testing.T, records ...*models.VocabRecord) (*Model, *session.Controller, *memStore) {
	t.Helper()
	if len(records) == 0 {
		records = []*models.VocabRecord{{Source: "chat", Target: "cat"}}
	}
	m := New()
	st := &memStore{}
	ctrl := session.New(wordbank.NewBank(records), st, m, session.Options{
		RevealDelay: time.Millisecond,
		Selector:    selector.NewSeeded(1),
	})
	m.Attach(ctrl)
	return m, ctrl, st
}

func TestModel_TimerRevealsCard(t *testing.T) {
	m, ctrl, _ := setup(t)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "chat")
	assert.Equal(t, session.StateShowingFront, ctrl.State())

	msg := cmd()
	require.IsType(t, revealMsg{}, msg)
	m.Update(msg)

	assert.Equal(t, session.StateShowingBack, ctrl.State())
	assert.Contains(t, m.View(), "cat")
}

func TestModel_ManualFlipCancelsTick(t *testing.T) {
	m, ctrl, _ := setup(t)
	tick := m.Init()

	m.Update(runes(" "))
	assert.Equal(t, session.StateShowingBack, ctrl.State())

	_, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd, "next round arms a new reveal")
	assert.Equal(t, session.StateShowingFront, ctrl.State())

	// The tick of the first round arrives late and must not flip the new card.
	m.Update(tick())
	assert.Equal(t, session.StateShowingFront, ctrl.State())
}

func TestModel_JudgeBeforeFlip(t *testing.T) {
	m, ctrl, _ := setup(t)
	m.Init()

	m.Update(runes("n"))
	assert.Equal(t, session.StateShowingFront, ctrl.State())
	assert.Contains(t, m.View(), "flip the card first")
}

func TestModel_JudgmentsReachBank(t *testing.T) {
	rec := &models.VocabRecord{Source: "chat", Target: "cat"}
	m, _, _ := setup(t, rec)
	m.Init()

	m.Update(runes(" "))
	m.Update(runes("y"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, 1, rec.Correct)
	assert.Equal(t, 1, rec.Incorrect)
	assert.Contains(t, m.View(), "2 judged")
}

func TestModel_SkipDealsNewCardWithoutJudgment(t *testing.T) {
	rec := &models.VocabRecord{Source: "chat", Target: "cat"}
	m, ctrl, _ := setup(t, rec)
	tick := m.Init()

	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd, "new round arms a new reveal")
	assert.Equal(t, session.StateShowingFront, ctrl.State())
	assert.Zero(t, rec.Attempts())

	started, judged := ctrl.Rounds()
	assert.Equal(t, 2, started)
	assert.Zero(t, judged)

	// The skipped round's tick is stale.
	m.Update(tick())
	assert.Equal(t, session.StateShowingFront, ctrl.State())
}

func TestModel_QuitSaves(t *testing.T) {
	m, ctrl, st := setup(t)
	m.Init()

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, session.StateClosed, ctrl.State())
	assert.NoError(t, m.SaveErr())
	assert.False(t, m.Discarded())
	assert.Empty(t, m.View())
}

func TestModel_QuitReportsSaveError(t *testing.T) {
	m, _, st := setup(t)
	st.err = errors.New("permission denied")
	m.Init()

	m.Update(runes("q"))
	require.Error(t, m.SaveErr())
	assert.ErrorIs(t, m.SaveErr(), st.err)
}

func TestModel_AbortSkipsSave(t *testing.T) {
	m, _, st := setup(t)
	m.Init()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.Discarded())
	assert.Zero(t, st.saves)
}

func TestModel_StatsToggle(t *testing.T) {
	m, _, _ := setup(t)
	m.Init()

	assert.NotContains(t, m.View(), "Unattempted")
	m.Update(runes("s"))
	assert.Contains(t, m.View(), "Unattempted")
	m.Update(runes("s"))
	assert.NotContains(t, m.View(), "Unattempted")
}

func TestModel_EmptyBankQuits(t *testing.T) {
	m := New()
	ctrl := session.New(wordbank.NewBank(nil), &memStore{}, m, session.Options{})
	m.Attach(ctrl)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.Err(), selector.ErrEmptyBank)
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(models.BankStats{Total: 10, Mastered: 3, Correct: 3, Incorrect: 1, Threshold: 0.8})
	assert.Contains(t, out, "Mastered")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "80%")
}
