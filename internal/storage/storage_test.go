package storage

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	mock_database "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db/mocks"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	mock_storage "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage/mocks"
)

type fixture struct {
	db       *mock_database.MockDB
	tx       *mock_database.MockTx
	orders   *mock_storage.MockOrderRepository
	bookings *mock_storage.MockBookingRepository
	outbox   *mock_storage.MockOutboxTaskRepository
	timeline *mock_storage.MockTimeline
	storage  *Storage
}

var fixedTime = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		db:       mock_database.NewMockDB(ctrl),
		tx:       mock_database.NewMockTx(ctrl),
		orders:   mock_storage.NewMockOrderRepository(ctrl),
		bookings: mock_storage.NewMockBookingRepository(ctrl),
		outbox:   mock_storage.NewMockOutboxTaskRepository(ctrl),
		timeline: mock_storage.NewMockTimeline(ctrl),
	}
	f.storage = NewStorage(f.db, f.orders, f.bookings, f.outbox, f.timeline, "lifecycle_events", zap.NewNop())
	f.storage.timeNow = func() time.Time { return fixedTime }
	f.storage.newTrackingID = func() string { return "TRK-0000ABCD" }
	return f
}

func recordOK(_ context.Context, _ db.Tx, tr lifecycle.Transition, location, message *string) (*repository.TrackingEvent, error) {
	return &repository.TrackingEvent{
		ID:          1,
		SubjectID:   tr.Subject().ID,
		SubjectType: string(tr.Subject().Kind),
		Status:      string(tr.To()),
		Location:    location,
		Message:     message,
		OccurredAt:  tr.At(),
	}, nil
}

func TestStorage_TransitionOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("successful confirm", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", BuyerID: "buyer-1", SupplierID: "sup-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, o *repository.Order) error {
				assert.Equal(t, "CONFIRMED", o.Status)
				assert.Equal(t, fixedTime, o.UpdatedAt)
				assert.Nil(t, o.TrackingID)
				return nil
			})
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), nil, nil).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				assert.Equal(t, "lifecycle_events", task.Topic)

				var payload repository.LifecycleEventPayload
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, "o-1", payload.SubjectID)
				assert.Equal(t, "ORDER", payload.SubjectType)
				assert.Equal(t, "PENDING", payload.OldStatus)
				assert.Equal(t, "CONFIRMED", payload.NewStatus)
				assert.Equal(t, fixedTime, payload.Timestamp)
				return nil
			})
		f.tx.EXPECT().Commit(ctx).Return(nil)

		res, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.NoError(t, err)
		assert.True(t, res.Transition.Changed())
		assert.Equal(t, lifecycle.StatusPending, res.Transition.From())
		assert.Equal(t, lifecycle.StatusConfirmed, res.Transition.To())
		require.NotNil(t, res.Event)
		assert.Equal(t, "CONFIRMED", res.Event.Status)
	})

	t.Run("shipping generates a tracking id", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "CONFIRMED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				var payload repository.LifecycleEventPayload
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, "TRK-0000ABCD", payload.TrackingID)
				assert.Equal(t, "Lagos hub", payload.Location)
				return nil
			})
		f.tx.EXPECT().Commit(ctx).Return(nil)

		res, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusShipped, TransitionInput{Location: "Lagos hub"})

		require.NoError(t, err)
		require.NotNil(t, res.Order.TrackingID)
		assert.Equal(t, "TRK-0000ABCD", *res.Order.TrackingID)
		require.NotNil(t, res.Event.Location)
		assert.Equal(t, "Lagos hub", *res.Event.Location)
	})

	t.Run("shipping keeps a supplied tracking id", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "CONFIRMED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.tx.EXPECT().Commit(ctx).Return(nil)

		res, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusShipped, TransitionInput{TrackingID: "GIG-778"})

		require.NoError(t, err)
		assert.Equal(t, "GIG-778", *res.Order.TrackingID)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "DELIVERED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		res, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusDelivered, TransitionInput{})

		require.NoError(t, err)
		assert.False(t, res.Transition.Changed())
		assert.Nil(t, res.Event)
		assert.Equal(t, "DELIVERED", res.Order.Status)
	})

	t.Run("invalid transition", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusDelivered, TransitionInput{})

		require.Error(t, err)
		var trErr *lifecycle.TransitionError
		require.True(t, errors.As(err, &trErr))
		assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
		assert.Equal(t, lifecycle.StatusPending, trErr.From)
	})

	t.Run("cancelled order cannot be confirmed", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "CANCELLED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		assert.ErrorIs(t, err, lifecycle.ErrTerminalState)
	})

	t.Run("order not found", func(t *testing.T) {
		f := newFixture(t)

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "missing").Return(nil, repository.ErrObjectNotFound)
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "missing", lifecycle.StatusConfirmed, TransitionInput{})

		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("begin error", func(t *testing.T) {
		f := newFixture(t)

		f.db.EXPECT().BeginTx(ctx).Return(nil, errors.New("pool closed"))

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})

	t.Run("update error rolls back", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).Return(errors.New("deadlock"))
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update order status")
	})

	t.Run("tracking error rolls back", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), nil, nil).Return(nil, errors.New("lock timeout"))
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record tracking event")
	})

	t.Run("outbox error rolls back", func(t *testing.T) {
		f := newFixture(t)
		order := &repository.Order{ID: "o-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.orders.EXPECT().GetByIDTx(ctx, f.tx, "o-1").Return(order, nil)
		f.orders.EXPECT().UpdateStatusTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), nil, nil).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).Return(errors.New("disk full"))
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionOrder(ctx, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox task")
	})
}

func TestStorage_TransitionBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("logistics booking starts", func(t *testing.T) {
		f := newFixture(t)
		driver := "driver-9"
		booking := &repository.Booking{ID: "d-1", CustomerID: "cust-1", ProviderID: &driver, Status: "CONFIRMED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.bookings.EXPECT().GetByIDTx(ctx, f.tx, lifecycle.KindLogisticsBooking, "d-1").Return(booking, nil)
		f.bookings.EXPECT().UpdateStatusTx(ctx, f.tx, lifecycle.KindLogisticsBooking, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, _ lifecycle.Kind, b *repository.Booking) error {
				assert.Equal(t, "IN_PROGRESS", b.Status)
				return nil
			})
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
				var payload repository.LifecycleEventPayload
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, "LOGISTICS_BOOKING", payload.SubjectType)
				assert.Equal(t, "Driver picked up the parcel", payload.Message)
				assert.Empty(t, payload.TrackingID)
				return nil
			})
		f.tx.EXPECT().Commit(ctx).Return(nil)

		res, err := f.storage.TransitionBooking(ctx, lifecycle.KindLogisticsBooking, "d-1", lifecycle.StatusInProgress,
			TransitionInput{Message: "Driver picked up the parcel"})

		require.NoError(t, err)
		assert.Equal(t, lifecycle.StatusInProgress, res.Transition.To())
		assert.Equal(t, "IN_PROGRESS", res.Booking.Status)
	})

	t.Run("completed booking is terminal", func(t *testing.T) {
		f := newFixture(t)
		booking := &repository.Booking{ID: "m-1", Status: "COMPLETED"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.bookings.EXPECT().GetByIDTx(ctx, f.tx, lifecycle.KindMechanicBooking, "m-1").Return(booking, nil)
		f.tx.EXPECT().Rollback(ctx).Return(nil)

		_, err := f.storage.TransitionBooking(ctx, lifecycle.KindMechanicBooking, "m-1", lifecycle.StatusCancelled, TransitionInput{})

		assert.ErrorIs(t, err, lifecycle.ErrTerminalState)
	})

	t.Run("order kind is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.storage.TransitionBooking(ctx, lifecycle.KindOrder, "o-1", lifecycle.StatusConfirmed, TransitionInput{})

		assert.ErrorIs(t, err, lifecycle.ErrUnknownKind)
	})

	t.Run("commit error", func(t *testing.T) {
		f := newFixture(t)
		booking := &repository.Booking{ID: "m-1", Status: "PENDING"}

		f.db.EXPECT().BeginTx(ctx).Return(f.tx, nil)
		f.bookings.EXPECT().GetByIDTx(ctx, f.tx, lifecycle.KindMechanicBooking, "m-1").Return(booking, nil)
		f.bookings.EXPECT().UpdateStatusTx(ctx, f.tx, lifecycle.KindMechanicBooking, gomock.Any()).Return(nil)
		f.timeline.EXPECT().RecordTx(ctx, f.tx, gomock.Any(), nil, nil).DoAndReturn(recordOK)
		f.outbox.EXPECT().CreateTx(ctx, f.tx, gomock.Any()).Return(nil)
		f.tx.EXPECT().Commit(ctx).Return(errors.New("serialization failure"))

		_, err := f.storage.TransitionBooking(ctx, lifecycle.KindMechanicBooking, "m-1", lifecycle.StatusConfirmed, TransitionInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit booking transition")
	})
}

func TestStorage_GetOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.orders.EXPECT().GetByID(ctx, "o-1").Return(&repository.Order{ID: "o-1"}, nil)
	f.orders.EXPECT().GetByID(ctx, "o-2").Return(nil, repository.ErrObjectNotFound)

	order, err := f.storage.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)

	_, err = f.storage.GetOrder(ctx, "o-2")
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestNewTrackingID(t *testing.T) {
	re := regexp.MustCompile(`^TRK-[0-9A-F]{8}$`)
	a, b := NewTrackingID(), NewTrackingID()
	assert.Regexp(t, re, a)
	assert.Regexp(t, re, b)
	assert.NotEqual(t, a, b)
}
