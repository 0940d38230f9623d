//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
//go:generate mockgen -source ./outbox.go -destination=./mocks/outbox.go -package=mock_storage
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/metrics"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, order *repository.Order) error
}

type BookingRepository interface {
	GetByID(ctx context.Context, kind lifecycle.Kind, id string) (*repository.Booking, error)
	GetByIDTx(ctx context.Context, tx db.Tx, kind lifecycle.Kind, id string) (*repository.Booking, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, kind lifecycle.Kind, booking *repository.Booking) error
}

type Timeline interface {
	RecordTx(ctx context.Context, tx db.Tx, tr lifecycle.Transition, location, message *string) (*repository.TrackingEvent, error)
}

// TransitionInput carries the optional data attached to a status change.
// Empty strings mean absent.
type TransitionInput struct {
	TrackingID string
	Location   string
	Message    string
}

type OrderTransition struct {
	Transition lifecycle.Transition
	Order      *repository.Order
	// Event is nil when the transition did not change the status.
	Event *repository.TrackingEvent
}

type BookingTransition struct {
	Transition lifecycle.Transition
	Booking    *repository.Booking
	Event      *repository.TrackingEvent
}

// Storage persists lifecycle transitions. The status update, its tracking
// event and the outbox task commit or roll back together.
type Storage struct {
	db          db.DB
	orderRepo   OrderRepository
	bookingRepo BookingRepository
	outboxRepo  OutboxTaskRepository
	timeline    Timeline
	topic       string
	logger      *zap.Logger

	timeNow       func() time.Time
	newTrackingID func() string
}

func NewStorage(
	database db.DB,
	orderRepo OrderRepository,
	bookingRepo BookingRepository,
	outboxRepo OutboxTaskRepository,
	timeline Timeline,
	topic string,
	logger *zap.Logger,
) *Storage {
	return &Storage{
		db:            database,
		orderRepo:     orderRepo,
		bookingRepo:   bookingRepo,
		outboxRepo:    outboxRepo,
		timeline:      timeline,
		topic:         topic,
		logger:        logger,
		timeNow:       time.Now,
		newTrackingID: NewTrackingID,
	}
}

// NewTrackingID returns a shipment reference of the form TRK-1A2B3C4D.
func NewTrackingID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TRK-" + strings.ToUpper(hex[:8])
}

func (s *Storage) GetOrder(ctx context.Context, orderID string) (*repository.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, err)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *Storage) GetBooking(ctx context.Context, kind lifecycle.Kind, bookingID string) (*repository.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, kind, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, err)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// TransitionOrder moves an order to the requested status. The first move to
// SHIPPED assigns a tracking id, generated when in.TrackingID is empty.
func (s *Storage) TransitionOrder(ctx context.Context, orderID string, requested lifecycle.Status, in TransitionInput) (*OrderTransition, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	order, err := s.orderRepo.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, err)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	subject := lifecycle.Subject{Kind: lifecycle.KindOrder, ID: orderID}
	tr, err := lifecycle.Apply(subject, lifecycle.Status(order.Status), requested, s.timeNow().UTC())
	if err != nil {
		_ = tx.Rollback(ctx)
		s.rejected(subject, err)
		return nil, err
	}
	if !tr.Changed() {
		_ = tx.Rollback(ctx)
		return &OrderTransition{Transition: tr, Order: order}, nil
	}

	order.Status = string(tr.To())
	order.UpdatedAt = tr.At()
	if tr.To() == lifecycle.StatusShipped {
		switch {
		case in.TrackingID != "":
			order.TrackingID = &in.TrackingID
		case order.TrackingID == nil:
			id := s.newTrackingID()
			order.TrackingID = &id
		}
	}

	if err := s.orderRepo.UpdateStatusTx(ctx, tx, order); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	var trackingID string
	if order.TrackingID != nil {
		trackingID = *order.TrackingID
	}
	ev, err := s.recordTx(ctx, tx, tr, in, trackingID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order transition: %w", err)
	}

	s.committed(tr)
	return &OrderTransition{Transition: tr, Order: order, Event: ev}, nil
}

// TransitionBooking moves a mechanic or logistics booking to the requested
// status.
func (s *Storage) TransitionBooking(ctx context.Context, kind lifecycle.Kind, bookingID string, requested lifecycle.Status, in TransitionInput) (*BookingTransition, error) {
	if kind != lifecycle.KindMechanicBooking && kind != lifecycle.KindLogisticsBooking {
		return nil, fmt.Errorf("%w: %q is not a booking", lifecycle.ErrUnknownKind, kind)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	booking, err := s.bookingRepo.GetByIDTx(ctx, tx, kind, bookingID)
	if err != nil {
		_ = tx.Rollback(ctx)
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, err)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	subject := lifecycle.Subject{Kind: kind, ID: bookingID}
	tr, err := lifecycle.Apply(subject, lifecycle.Status(booking.Status), requested, s.timeNow().UTC())
	if err != nil {
		_ = tx.Rollback(ctx)
		s.rejected(subject, err)
		return nil, err
	}
	if !tr.Changed() {
		_ = tx.Rollback(ctx)
		return &BookingTransition{Transition: tr, Booking: booking}, nil
	}

	booking.Status = string(tr.To())
	booking.UpdatedAt = tr.At()
	if err := s.bookingRepo.UpdateStatusTx(ctx, tx, kind, booking); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	ev, err := s.recordTx(ctx, tx, tr, in, "")
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit booking transition: %w", err)
	}

	s.committed(tr)
	return &BookingTransition{Transition: tr, Booking: booking, Event: ev}, nil
}

// recordTx appends the tracking event and queues the lifecycle event for
// the outbox publisher.
func (s *Storage) recordTx(ctx context.Context, tx db.Tx, tr lifecycle.Transition, in TransitionInput, trackingID string) (*repository.TrackingEvent, error) {
	ev, err := s.timeline.RecordTx(ctx, tx, tr, optional(in.Location), optional(in.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to record tracking event: %w", err)
	}

	payload, err := json.Marshal(repository.LifecycleEventPayload{
		Timestamp:   ev.OccurredAt,
		SubjectID:   tr.Subject().ID,
		SubjectType: string(tr.Subject().Kind),
		OldStatus:   string(tr.From()),
		NewStatus:   string(tr.To()),
		TrackingID:  trackingID,
		Location:    in.Location,
		Message:     in.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	task := &repository.OutboxTask{Payload: payload, Topic: s.topic}
	if err := s.outboxRepo.CreateTx(ctx, tx, task); err != nil {
		return nil, fmt.Errorf("failed to create outbox task: %w", err)
	}
	return ev, nil
}

func (s *Storage) committed(tr lifecycle.Transition) {
	metrics.TransitionsTotal.WithLabelValues(string(tr.Subject().Kind), string(tr.To())).Inc()
	s.logger.Info("Lifecycle transition persisted",
		zap.String("kind", string(tr.Subject().Kind)),
		zap.String("subject_id", tr.Subject().ID),
		zap.String("from", string(tr.From())),
		zap.String("to", string(tr.To())))
}

func (s *Storage) rejected(subject lifecycle.Subject, err error) {
	reason := "invalid"
	if errors.Is(err, lifecycle.ErrTerminalState) {
		reason = "terminal"
	}
	metrics.TransitionsRejectedTotal.WithLabelValues(string(subject.Kind), reason).Inc()
	s.logger.Debug("Lifecycle transition rejected",
		zap.String("subject_id", subject.ID), zap.Error(err))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
