package unlock

import "time"

// Gate combines the time window, the already-submitted check and the
// local "unlock early" override. The override is a convenience only; the
// backend still enforces one entry per day.
type Gate struct {
	hour  *int
	early bool
}

// NewGate creates a gate for the given preferred unlock hour (nil means default).
func NewGate(hour *int) *Gate {
	return &Gate{hour: hour}
}

// SetHour updates the preferred unlock hour, e.g. after settings change.
func (g *Gate) SetHour(hour *int) {
	g.hour = hour
}

// UnlockEarly opens the form before the configured hour.
func (g *Gate) UnlockEarly() {
	g.early = true
}

// Reset clears the early override.
func (g *Gate) Reset() {
	g.early = false
}

// Evaluate computes the gate status. latest is the timestamp of the most
// recent entry; latestErr is the error from fetching it. A failed fetch is
// treated as "not submitted".
func (g *Gate) Evaluate(now time.Time, latest time.Time, latestErr error) Status {
	start, end := Window(now, g.hour)
	st := Status{OpensAt: start, ClosesAt: end}

	if latestErr == nil && SubmittedToday(latest, now) {
		st.Locked = true
		st.Reason = ReasonAlreadySubmitted
		return st
	}

	if IsLocked(now, g.hour) {
		if g.early && now.Before(start) {
			st.Early = true
			st.Reason = ReasonOpen
			return st
		}
		st.Locked = true
		st.Reason = ReasonBeforeWindow
		return st
	}

	st.Reason = ReasonOpen
	return st
}
