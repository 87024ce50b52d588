package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/common"
)

func (s *Store) GetReminder() (models.Reminder, error) {
	if s.db == nil {
		return models.Reminder{}, common.ErrNotInitialized
	}
	var (
		r         models.Reminder
		active    int
		lastSent  sql.NullString
		createdAt string
	)
	err := s.db.QueryRow(`
		SELECT id, hour, minute, title, body, active, last_sent, created_at
		FROM reminder WHERE id = 1`).
		Scan(&r.ID, &r.Hour, &r.Minute, &r.Title, &r.Body, &active, &lastSent, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, fmt.Errorf("reminder %w", common.ErrNotFound)
	}
	if err != nil {
		return models.Reminder{}, err
	}

	r.Active = active != 0
	if r.LastSent, err = common.ParseOptionalTime(lastSent); err != nil {
		return models.Reminder{}, err
	}
	if r.CreatedAt, err = common.ParseTime(createdAt); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

func (s *Store) SaveReminder(r models.Reminder) error {
	if s.db == nil {
		return common.ErrNotInitialized
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	active := 0
	if r.Active {
		active = 1
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO reminder (id, hour, minute, title, body, active, last_sent, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		r.Hour, r.Minute, r.Title, r.Body, active,
		common.FormatOptionalTime(r.LastSent), common.FormatTime(r.CreatedAt))
	return err
}

func (s *Store) DeleteReminder() error {
	if s.db == nil {
		return common.ErrNotInitialized
	}
	_, err := s.db.Exec("DELETE FROM reminder WHERE id = 1")
	return err
}

func (s *Store) MarkReminderSent(at time.Time) error {
	if s.db == nil {
		return common.ErrNotInitialized
	}
	res, err := s.db.Exec("UPDATE reminder SET last_sent = ? WHERE id = 1", common.FormatTime(at))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("reminder %w", common.ErrNotFound)
	}
	return nil
}
