package session

import "time"

// Timer is a pending one-shot reveal. *time.Timer satisfies it.
type Timer interface {
	// Stop cancels the timer. It reports false if the timer already fired or was stopped.
	Stop() bool
}

// Presenter renders cards and owns the reveal timer. The controller calls it
// while holding its lock, so implementations must not call back into the
// controller synchronously; deliver events later from the UI loop or a timer.
type Presenter interface {
	// ShowFront displays the source term of a new card
	ShowFront(term string)
	// ShowBack displays the target term and offers the correct/incorrect choice
	ShowBack(term string)
	// ArmReveal schedules reveal to run once after delay and returns a handle to cancel it
	ArmReveal(delay time.Duration, reveal func()) Timer
}

// AfterFunc arms a reveal with time.AfterFunc. Presenters without their own
// event loop can use it as their ArmReveal.
func AfterFunc(delay time.Duration, reveal func()) Timer {
	return time.AfterFunc(delay, reveal)
}
