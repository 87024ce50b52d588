package models

import (
	"fmt"
	"time"
)

// Reminder is the single daily journaling reminder. ID is always 1.
type Reminder struct {
	ID        int        `json:"id"`
	Hour      int        `json:"hour"`
	Minute    int        `json:"minute"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Active    bool       `json:"active"`
	LastSent  *time.Time `json:"last_sent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (r *Reminder) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("reminder hour must be between 0 and 23, got %d", r.Hour)
	}
	if r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("reminder minute must be between 0 and 59, got %d", r.Minute)
	}
	return nil
}

// FireTime returns the reminder's trigger time on the given day.
func (r *Reminder) FireTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), r.Hour, r.Minute, 0, 0, day.Location())
}

// SentOn reports whether the reminder was already delivered on the given day.
func (r *Reminder) SentOn(day time.Time) bool {
	if r.LastSent == nil {
		return false
	}
	sent := r.LastSent.In(day.Location())
	y1, m1, d1 := sent.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatTime renders the trigger time as HH:MM.
func (r *Reminder) FormatTime() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}
