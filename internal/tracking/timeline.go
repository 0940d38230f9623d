//go:generate mockgen -source ./timeline.go -destination=./mocks/timeline.go -package=mock_tracking
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
)

// ErrUnchanged is returned when a no-op transition is offered to the timeline.
var ErrUnchanged = errors.New("transition did not change status")

type Repository interface {
	LockSubjectTx(ctx context.Context, tx db.Tx, subjectID string) error
	LastOccurredAtTx(ctx context.Context, tx db.Tx, subjectID string) (*time.Time, error)
	CreateTx(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent) error
	GetBySubjectID(ctx context.Context, subjectID string) ([]*repository.TrackingEvent, error)
}

// Timeline is the append-only status history of orders and bookings.
type Timeline struct {
	db     db.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewTimeline(database db.DB, repo Repository, logger *zap.Logger) *Timeline {
	return &Timeline{
		db:     database,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// AppendEvent records a status or location update for a subject in its own
// transaction.
func (t *Timeline) AppendEvent(ctx context.Context, subjectID, subjectType, status string, location, message *string) (*repository.TrackingEvent, error) {
	if subjectID == "" || subjectType == "" || status == "" {
		return nil, errors.New("subject id, subject type and status are required")
	}

	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	ev := &repository.TrackingEvent{
		SubjectID:   subjectID,
		SubjectType: subjectType,
		Status:      status,
		Location:    location,
		Message:     message,
	}
	if err := t.append(ctx, tx, ev, t.now()); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tracking event: %w", err)
	}
	return ev, nil
}

// RecordTx appends the event paired with tr inside the caller's transaction.
func (t *Timeline) RecordTx(ctx context.Context, tx db.Tx, tr lifecycle.Transition, location, message *string) (*repository.TrackingEvent, error) {
	if !tr.Changed() {
		return nil, ErrUnchanged
	}

	ev := &repository.TrackingEvent{
		SubjectID:   tr.Subject().ID,
		SubjectType: string(tr.Subject().Kind),
		Status:      string(tr.To()),
		Location:    location,
		Message:     message,
	}
	if err := t.append(ctx, tx, ev, tr.At()); err != nil {
		return nil, err
	}
	return ev, nil
}

// append serialises writers of one subject and never lets the timeline go
// backwards in time.
func (t *Timeline) append(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent, at time.Time) error {
	if err := t.repo.LockSubjectTx(ctx, tx, ev.SubjectID); err != nil {
		return fmt.Errorf("failed to lock timeline: %w", err)
	}

	last, err := t.repo.LastOccurredAtTx(ctx, tx, ev.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to read last tracking event: %w", err)
	}

	at = at.UTC()
	if last != nil && at.Before(*last) {
		t.logger.Debug("Clamping tracking timestamp",
			zap.String("subject_id", ev.SubjectID), zap.Time("requested", at), zap.Time("last", *last))
		at = last.UTC()
	}
	ev.OccurredAt = at

	if err := t.repo.CreateTx(ctx, tx, ev); err != nil {
		return fmt.Errorf("failed to add tracking event: %w", err)
	}

	metrics.TrackingEventsTotal.WithLabelValues(ev.SubjectType).Inc()
	return nil
}

// GetTimeline returns the events of subjectID oldest first.
func (t *Timeline) GetTimeline(ctx context.Context, subjectID string) ([]*repository.TrackingEvent, error) {
	events, err := t.repo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	if events == nil {
		events = []*repository.TrackingEvent{}
	}
	return events, nil
}
