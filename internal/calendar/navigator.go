package calendar

import (
	"fmt"
	"time"
)

// Navigator tracks the visible month between the first journal month and
// the current month. It never moves into the future.
type Navigator struct {
	min     Month
	max     Month
	current Month
}

// NewNavigator starts on the month containing today.
func NewNavigator(today time.Time) *Navigator {
	minMonth := FirstJournalMonth()
	maxMonth := MonthOf(today)
	if maxMonth.Before(minMonth) {
		maxMonth = minMonth
	}
	return &Navigator{min: minMonth, max: maxMonth, current: maxMonth}
}

// Current returns the visible month.
func (n *Navigator) Current() Month { return n.current }

// Bounds returns the earliest and latest browsable months.
func (n *Navigator) Bounds() (Month, Month) { return n.min, n.max }

// CanPrev reports whether an earlier month is browsable.
func (n *Navigator) CanPrev() bool { return n.current.After(n.min) }

// CanNext reports whether a later month is browsable.
func (n *Navigator) CanNext() bool { return n.current.Before(n.max) }

// Prev moves one month back. It returns false at the lower bound.
func (n *Navigator) Prev() bool {
	if !n.CanPrev() {
		return false
	}
	n.current = n.current.Prev()
	return true
}

// Next moves one month forward. It returns false at the upper bound.
func (n *Navigator) Next() bool {
	if !n.CanNext() {
		return false
	}
	n.current = n.current.Next()
	return true
}

// Jump moves to m if it lies within the bounds.
func (n *Navigator) Jump(m Month) error {
	if m.Before(n.min) || m.After(n.max) {
		return fmt.Errorf("%w: %s is outside %s..%s", ErrOutOfRange, m, n.min, n.max)
	}
	n.current = m
	return nil
}

// Rebase moves the upper bound to today's month, e.g. after midnight passes.
func (n *Navigator) Rebase(today time.Time) {
	maxMonth := MonthOf(today)
	if maxMonth.Before(n.min) {
		maxMonth = n.min
	}
	n.max = maxMonth
	if n.current.After(n.max) {
		n.current = n.max
	}
}
