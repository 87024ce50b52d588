package sqlite

import (
	"time"

	"github.com/julianstephens/thankful/internal/models"
	"github.com/julianstephens/thankful/internal/storage/common"
)

func (s *Store) ReplaceEntryRefs(refs []models.EntryRef, fetchedAt time.Time) error {
	if s.db == nil {
		return common.ErrNotInitialized
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entry_refs"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO entry_refs (id, timestamp, fetched_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	fetched := common.FormatTime(fetchedAt)
	for _, ref := range refs {
		if _, err := stmt.Exec(ref.ID, common.FormatTime(ref.Timestamp), fetched); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetEntryRefs returns the cached refs ordered by timestamp and the time
// they were fetched. The fetch time is zero when the cache is empty.
func (s *Store) GetEntryRefs() ([]models.EntryRef, time.Time, error) {
	if s.db == nil {
		return nil, time.Time{}, common.ErrNotInitialized
	}
	rows, err := s.db.Query("SELECT id, timestamp, fetched_at FROM entry_refs ORDER BY timestamp")
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()
	return common.ScanEntryRefs(rows)
}

func (s *Store) ClearEntryRefs() error {
	if s.db == nil {
		return common.ErrNotInitialized
	}
	_, err := s.db.Exec("DELETE FROM entry_refs")
	return err
}
