package postgresql

import (
	"context"
	"time"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/tracking"
)

type TrackingRepo struct {
	db db.DB
}

func NewTrackingRepo(db db.DB) tracking.Repository {
	return &TrackingRepo{db: db}
}

// LockSubjectTx holds a transaction-scoped advisory lock on the subject's
// timeline.
func (r *TrackingRepo) LockSubjectTx(ctx context.Context, tx db.Tx, subjectID string) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", subjectID)
	return err
}

func (r *TrackingRepo) LastOccurredAtTx(ctx context.Context, tx db.Tx, subjectID string) (*time.Time, error) {
	var last *time.Time
	err := tx.Get(ctx, &last, "SELECT max(occurred_at) FROM tracking_events WHERE subject_id = $1", subjectID)
	if err != nil {
		return nil, err
	}
	return last, nil
}

func (r *TrackingRepo) CreateTx(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent) error {
	return tx.Get(ctx, &ev.ID, `
        INSERT INTO tracking_events (
            subject_id, subject_type, status, location, message, occurred_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, ev.SubjectID, ev.SubjectType, ev.Status, ev.Location, ev.Message, ev.OccurredAt)
}

func (r *TrackingRepo) GetBySubjectID(ctx context.Context, subjectID string) ([]*repository.TrackingEvent, error) {
	var events []*repository.TrackingEvent
	err := r.db.Select(ctx, &events, `
        SELECT id, subject_id, subject_type, status, location, message, occurred_at
        FROM tracking_events
        WHERE subject_id = $1
        ORDER BY occurred_at ASC, id ASC
    `, subjectID)
	return events, err
}
