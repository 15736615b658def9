package store

import (
	"database/sql"
	"time"
)

// Event is one classified gesture recorded by the pipeline.
type Event struct {
	ID         string
	Label      string
	Handedness string
	Score      float64
	DetectedAt time.Time
}

// EventRepository provides access to the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Insert records a gesture event.
func (r *EventRepository) Insert(e *Event) error {
	if e.DetectedAt.IsZero() {
		e.DetectedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, label, handedness, score, detected_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Label, e.Handedness, e.Score, e.DetectedAt,
	)
	return err
}

// ListRecent retrieves the most recent events, newest first.
// Limits of 0 or less fall back to 50.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, label, handedness, score, detected_at
		 FROM gesture_events ORDER BY detected_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Label, &e.Handedness, &e.Score, &e.DetectedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Clear removes all recorded events.
func (r *EventRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM gesture_events`)
	return err
}

// Prune deletes all but the newest keep events.
func (r *EventRepository) Prune(keep int) error {
	if keep <= 0 {
		return r.Clear()
	}

	_, err := r.db.Exec(
		`DELETE FROM gesture_events WHERE id NOT IN (
			SELECT id FROM gesture_events ORDER BY detected_at DESC LIMIT ?
		)`,
		keep,
	)
	return err
}
