package syncx

import (
	"context"
	"database/sql"
	"time"
)

// Audit event types appended by the portal service.
const (
	EventPaperSaved      = "PaperSaved"
	EventPaperDeleted    = "PaperDeleted"
	EventPaperKeyMoved   = "PaperKeyMoved"
	EventResultSubmitted = "ResultSubmitted"
	EventStatusChanged   = "StatusChanged"
)

type Event struct {
	Seq       int64
	Type      string
	Key       string // natural key: examID, or examID/studentID
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}
