package models

import (
	"errors"
	"strings"
	"time"
)

// Entry is a single day's gratitude journal entry as stored by the backend.
type Entry struct {
	ID                 int64     `json:"id"`
	Entry1             string    `json:"entry1"`
	Entry2             string    `json:"entry2"`
	Entry3             string    `json:"entry3"`
	UserPrompt         string    `json:"user_prompt"`
	UserPromptResponse string    `json:"user_prompt_response"`
	Timestamp          time.Time `json:"timestamp"`
}

// EntryRef is the lightweight id/timestamp pair returned when listing days with entries.
type EntryRef struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Field names used by the backend when reporting validation errors.
const (
	FieldEntry1         = "entry1"
	FieldEntry2         = "entry2"
	FieldEntry3         = "entry3"
	FieldPromptResponse = "promptResponse"
)

// FieldError reports a validation problem tied to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewEntry is the payload submitted when writing today's entry.
type NewEntry struct {
	Entry1             string `json:"entry1"`
	Entry2             string `json:"entry2"`
	Entry3             string `json:"entry3"`
	UserPrompt         string `json:"user_prompt"`
	UserPromptResponse string `json:"user_prompt_response"`
}

// Validate checks that every gratitude statement and the prompt response are filled in.
func (e *NewEntry) Validate() error {
	checks := []struct {
		field string
		value string
		msg   string
	}{
		{FieldEntry1, e.Entry1, "first gratitude entry cannot be empty"},
		{FieldEntry2, e.Entry2, "second gratitude entry cannot be empty"},
		{FieldEntry3, e.Entry3, "third gratitude entry cannot be empty"},
		{FieldPromptResponse, e.UserPromptResponse, "prompt response cannot be empty"},
	}
	var errs []error
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			errs = append(errs, &FieldError{Field: c.field, Message: c.msg})
		}
	}
	if strings.TrimSpace(e.UserPrompt) == "" {
		errs = append(errs, errors.New("reflection prompt is missing"))
	}
	return errors.Join(errs...)
}

// Trim removes surrounding whitespace from every field.
func (e *NewEntry) Trim() {
	e.Entry1 = strings.TrimSpace(e.Entry1)
	e.Entry2 = strings.TrimSpace(e.Entry2)
	e.Entry3 = strings.TrimSpace(e.Entry3)
	e.UserPrompt = strings.TrimSpace(e.UserPrompt)
	e.UserPromptResponse = strings.TrimSpace(e.UserPromptResponse)
}
