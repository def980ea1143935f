package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/flashbank/internal/session"
	"github.com/example/flashbank/pkg/models"
)

// Session is the part of the session controller the terminal UI drives
type Session interface {
	StartRound() error
	Reveal() error
	Judge(correct bool) error
	Abandon() error
	Shutdown(ctx context.Context) error
	Stats() models.BankStats
	Rounds() (started, judged int)
}

// revealMsg is delivered when the reveal timer of round token elapses
type revealMsg struct {
	token int
}

// Model is the bubbletea model for a drill session. It is also the session's
// presenter: the controller calls ShowFront/ShowBack/ArmReveal from inside
// Update, and the reveal timer is a tea.Tick that comes back through Update.
type Model struct {
	session Session
	keys    KeyMap
	help    help.Model

	front       string
	back        string
	showingBack bool

	// Reveal timer state. token identifies the armed tick; a tick whose token
	// no longer matches was cancelled.
	nextToken int
	armed     int
	reveal    func()
	queued    tea.Cmd

	status    string
	showStats bool
	quitting  bool
	discarded bool
	saveErr   error
	err       error
}

// New creates a model. Attach must be called before the program runs.
func New() *Model {
	return &Model{
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

// Attach connects the model to the session it presents
func (m *Model) Attach(s Session) {
	m.session = s
}

// ShowFront implements session.Presenter
func (m *Model) ShowFront(term string) {
	m.front = term
	m.back = ""
	m.showingBack = false
}

// ShowBack implements session.Presenter
func (m *Model) ShowBack(term string) {
	m.back = term
	m.showingBack = true
}

// ArmReveal implements session.Presenter. The tick is queued and returned
// from the Update call that armed it.
func (m *Model) ArmReveal(delay time.Duration, reveal func()) session.Timer {
	m.nextToken++
	token := m.nextToken
	m.armed = token
	m.reveal = reveal
	m.queued = tea.Tick(delay, func(time.Time) tea.Msg {
		return revealMsg{token: token}
	})
	return &tickTimer{m: m, token: token}
}

// tickTimer cancels a queued reveal tick
type tickTimer struct {
	m     *Model
	token int
}

// Stop implements session.Timer
func (t *tickTimer) Stop() bool {
	if t.m.armed != t.token {
		return false
	}
	t.m.armed = 0
	t.m.reveal = nil
	return true
}

// Init starts the first round
func (m *Model) Init() tea.Cmd {
	if err := m.session.StartRound(); err != nil {
		m.err = err
		m.quitting = true
		return tea.Quit
	}
	return m.takeQueued()
}

// Update handles timer ticks, key presses and window resizes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case revealMsg:
		if msg.token == m.armed && m.reveal != nil {
			reveal := m.reveal
			m.armed = 0
			m.reveal = nil
			reveal()
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.takeQueued()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.saveErr = m.session.Shutdown(context.Background())
		return m, tea.Quit

	case key.Matches(msg, m.keys.Abort):
		m.quitting = true
		m.discarded = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Flip):
		if err := m.session.Reveal(); err != nil {
			m.status = describe(err)
		}

	case key.Matches(msg, m.keys.Correct):
		m.judge(true)

	case key.Matches(msg, m.keys.Incorrect):
		m.judge(false)

	case key.Matches(msg, m.keys.Skip):
		m.skip()

	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
	}

	return m, m.takeQueued()
}

func (m *Model) judge(correct bool) {
	if err := m.session.Judge(correct); err != nil {
		m.status = describe(err)
		return
	}
	if correct {
		m.status = "✓ marked correct"
	} else {
		m.status = "✗ marked incorrect"
	}
}

// skip drops the current card without a judgment and deals the next one
func (m *Model) skip() {
	if err := m.session.Abandon(); err != nil {
		m.status = describe(err)
		return
	}
	if err := m.session.StartRound(); err != nil {
		m.status = describe(err)
		return
	}
	m.status = "skipped"
}

func (m *Model) takeQueued() tea.Cmd {
	cmd := m.queued
	m.queued = nil
	return cmd
}

func describe(err error) string {
	if errors.Is(err, session.ErrInvalidState) {
		return "flip the card first"
	}
	return err.Error()
}

// View renders the card, status line and key help
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	var card string
	if m.showingBack {
		card = lipgloss.JoinVertical(lipgloss.Center,
			LabelStyle.Render("back"),
			BackStyle.Render(m.back))
	} else {
		card = lipgloss.JoinVertical(lipgloss.Center,
			LabelStyle.Render("front"),
			FrontStyle.Render(m.front))
	}

	var b strings.Builder
	b.WriteString(card)
	b.WriteString("\n")

	started, judged := m.session.Rounds()
	b.WriteString(LabelStyle.Render(fmt.Sprintf("card %d · %d judged", started, judged)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.showStats {
		b.WriteString(RenderStats(m.session.Stats()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Err returns the error that stopped the session from starting, if any
func (m *Model) Err() error {
	return m.err
}

// SaveErr returns the error from saving the bank on quit
func (m *Model) SaveErr() error {
	return m.saveErr
}

// Discarded reports whether the user quit without saving
func (m *Model) Discarded() bool {
	return m.discarded
}
