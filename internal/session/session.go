package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/example/flashbank/internal/mastery"
	"github.com/example/flashbank/internal/selector"
	"github.com/example/flashbank/internal/wordbank"
	"github.com/example/flashbank/pkg/models"
)

// Defaults used when Options leave a field zero
const (
	DefaultThreshold   = 0.8
	DefaultRevealDelay = 3 * time.Second
)

// State is the phase of the current round
type State int

const (
	StateIdle         State = iota // Between rounds
	StateShowingFront              // Source term shown, waiting for reveal
	StateShowingBack               // Target term shown, waiting for a judgment
	StateClosed                    // Session ended, bank saved
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowingFront:
		return "showing_front"
	case StateShowingBack:
		return "showing_back"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a Controller
type Options struct {
	// Threshold is the mastery ratio at which a record counts as mastered
	Threshold float64
	// RevealDelay is how long the front stays up before it flips on its own.
	// Negative disables the automatic flip.
	RevealDelay time.Duration
	// Selector draws cards; a clock-seeded one is used when nil
	Selector *selector.Selector
	// Logger receives session events; discarded when nil
	Logger *slog.Logger
}

// Controller runs rounds over one word bank: show front, reveal back, take a
// judgment, rerank, next card. All methods are safe for concurrent use; they
// are applied one at a time.
type Controller struct {
	mu sync.Mutex

	bank        *wordbank.Bank
	store       wordbank.Store
	presenter   Presenter
	selector    *selector.Selector
	threshold   float64
	revealDelay time.Duration
	log         *slog.Logger

	state   State
	current *models.VocabRecord
	ready   bool
	pending Timer
	round   int
	judged  int
}

// New creates a controller for bank. store receives the bank on Checkpoint
// and Shutdown. The bank is ranked once before any card is drawn.
func New(bank *wordbank.Bank, store wordbank.Store, presenter Presenter, opts Options) *Controller {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.RevealDelay == 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.Selector == nil {
		opts.Selector = selector.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Controller{
		bank:        bank,
		store:       store,
		presenter:   presenter,
		selector:    opts.Selector,
		threshold:   opts.Threshold,
		revealDelay: opts.RevealDelay,
		log:         opts.Logger,
		state:       StateIdle,
		ready:       true,
	}

	// Startup step: rank the bank before the first card is drawn.
	mastery.Rerank(bank.Records())

	return c
}

// StartRound draws the next card and shows its front. It is allowed at
// session start, after a judgment, after Abandon, and once the current card
// has been revealed (skipping it without a judgment).
func (c *Controller) StartRound() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startRoundLocked()
}

func (c *Controller) startRoundLocked() error {
	if c.state == StateClosed {
		return ErrClosed
	}
	if !c.ready {
		return ErrNotReady
	}

	rec, err := c.selector.Select(c.bank.Records(), c.threshold)
	if err != nil {
		return fmt.Errorf("failed to select next card: %w", err)
	}

	c.stopTimer()
	c.current = rec
	c.state = StateShowingFront
	c.ready = false
	c.round++

	c.log.Debug("round started", "round", c.round, "source", rec.Source)
	c.presenter.ShowFront(rec.Source)

	if c.revealDelay > 0 {
		round := c.round
		c.pending = c.presenter.ArmReveal(c.revealDelay, func() {
			c.timerFired(round)
		})
	}
	return nil
}

// timerFired reveals the card of round unless that round is already over
func (c *Controller) timerFired(round int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateShowingFront || c.round != round {
		c.log.Debug("stale reveal ignored", "round", round, "state", c.state.String())
		return
	}
	c.pending = nil
	c.revealLocked()
}

// Reveal flips the current card to its back. The presenter calls it when the
// user asks to flip before the timer does.
func (c *Controller) Reveal() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	if c.state != StateShowingFront {
		return fmt.Errorf("%w: reveal in %s", ErrInvalidState, c.state)
	}
	c.revealLocked()
	return nil
}

func (c *Controller) revealLocked() {
	c.stopTimer()
	c.state = StateShowingBack
	c.ready = true
	c.presenter.ShowBack(c.current.Target)
}

// Judge records whether the user knew the revealed card, reranks the bank and
// starts the next round. The judgment is applied to the card that was shown,
// wherever reranking has since moved it.
func (c *Controller) Judge(correct bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	if c.state != StateShowingBack {
		return fmt.Errorf("%w: judgment in %s", ErrInvalidState, c.state)
	}

	rec := c.current
	j := mastery.FromBool(correct)
	mastery.RecordJudgment(rec, j)
	mastery.Rerank(c.bank.Records())
	c.judged++

	c.log.Info("card judged",
		"source", rec.Source,
		"judgment", j.String(),
		"correct", rec.Correct,
		"incorrect", rec.Incorrect)

	c.state = StateIdle
	c.current = nil
	c.ready = true

	return c.startRoundLocked()
}

// Abandon drops the current round without a judgment and cancels its pending
// reveal. StartRound begins a fresh round.
func (c *Controller) Abandon() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	c.stopTimer()
	c.state = StateIdle
	c.current = nil
	c.ready = true
	return nil
}

// Checkpoint saves the bank without ending the session
func (c *Controller) Checkpoint(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	return c.save(ctx)
}

// Shutdown ends the session from any state and saves the bank once. A reveal
// still pending is cancelled and a timer that fires anyway is ignored. The
// save error, if any, is returned so the caller can report possible data loss.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	c.stopTimer()
	c.state = StateClosed
	c.current = nil
	c.ready = false

	if err := c.save(ctx); err != nil {
		c.log.Error("word bank not saved", "error", err)
		return err
	}
	c.log.Info("data updated", "records", c.bank.Len(), "judged", c.judged)
	return nil
}

func (c *Controller) save(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, c.bank); err != nil {
		return fmt.Errorf("failed to save word bank: %w", err)
	}
	return nil
}

func (c *Controller) stopTimer() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// State returns the current round phase
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns a copy of the card in play. ok is false between rounds.
func (c *Controller) Current() (rec models.VocabRecord, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.VocabRecord{}, false
	}
	return *c.current, true
}

// Ready reports whether the next round may start
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Rounds returns how many rounds were started and how many were judged
func (c *Controller) Rounds() (started, judged int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round, c.judged
}

// Stats summarizes the bank against the session threshold
func (c *Controller) Stats() models.BankStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mastery.Stats(c.bank.Records(), c.threshold)
}

// Threshold returns the difficulty threshold of the session
func (c *Controller) Threshold() float64 {
	return c.threshold
}
