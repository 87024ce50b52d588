// Package unlock decides whether today's journal entry may be written.
package unlock

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/utils"
)

// Reason explains the outcome of an evaluation.
type Reason int

const (
	ReasonOpen Reason = iota
	ReasonBeforeWindow
	ReasonAlreadySubmitted
)

// User-facing lock messages.
const (
	MessageAlreadySubmitted = "You've already journaled today. Come back tomorrow!"
	messageUnlocksAt        = "Your gratitude journal unlocks at %s."
)

// Status is the result of evaluating the gate.
type Status struct {
	Locked   bool
	Reason   Reason
	OpensAt  time.Time
	ClosesAt time.Time
	Early    bool
}

// Message returns the text shown to the user for a locked status.
func (s Status) Message() string {
	switch s.Reason {
	case ReasonAlreadySubmitted:
		return MessageAlreadySubmitted
	case ReasonBeforeWindow:
		return LockedMessage(s.OpensAt.Hour())
	default:
		return ""
	}
}

// Countdown describes how long until the window opens, relative to now.
func (s Status) Countdown(now time.Time) string {
	if s.Reason != ReasonBeforeWindow {
		return ""
	}
	return "Opens " + humanize.RelTime(s.OpensAt, now, "ago", "from now") + "."
}

// ResolveHour returns the configured hour, or the default when unset or
// outside 0..23.
func ResolveHour(hour *int) int {
	if hour == nil || *hour < 0 || *hour > 23 {
		return constants.DefaultUnlockHour
	}
	return *hour
}

// Window returns today's unlock window in now's location:
// [today@hour:00:00, today@23:59:59].
func Window(now time.Time, hour *int) (time.Time, time.Time) {
	h := ResolveHour(hour)
	y, m, d := now.Date()
	loc := now.Location()
	start := time.Date(y, m, d, h, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, 0, loc)
	return start, end
}

// IsLocked reports whether now falls outside today's unlock window.
func IsLocked(now time.Time, hour *int) bool {
	start, end := Window(now, hour)
	return now.Before(start) || now.After(end)
}

// SubmittedToday reports whether the latest entry was written on now's local day.
func SubmittedToday(latest time.Time, now time.Time) bool {
	if latest.IsZero() {
		return false
	}
	return utils.SameDay(latest, now, now.Location())
}

// LockedMessage renders the "unlocks at" message for an hour, e.g. 8:00 PM.
func LockedMessage(hour int) string {
	t := time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC)
	return fmt.Sprintf(messageUnlocksAt, t.Format("3:04 PM"))
}
