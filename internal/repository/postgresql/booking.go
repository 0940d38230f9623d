package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage"
)

const bookingColumns = "id, customer_id, provider_id, status, description, scheduled_at, updated_at"

// BookingRepo serves both booking tables; the subject kind picks the table.
type BookingRepo struct {
	db db.DB
}

func NewBookingRepo(db db.DB) storage.BookingRepository {
	return &BookingRepo{db: db}
}

func bookingTable(kind lifecycle.Kind) (string, error) {
	switch kind {
	case lifecycle.KindMechanicBooking:
		return "mechanic_bookings", nil
	case lifecycle.KindLogisticsBooking:
		return "logistics_bookings", nil
	}
	return "", fmt.Errorf("%w: %q is not a booking", lifecycle.ErrUnknownKind, kind)
}

func (r *BookingRepo) GetByID(ctx context.Context, kind lifecycle.Kind, id string) (*repository.Booking, error) {
	table, err := bookingTable(kind)
	if err != nil {
		return nil, err
	}

	var booking repository.Booking
	err = r.db.Get(ctx, &booking, "SELECT "+bookingColumns+" FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) GetByIDTx(ctx context.Context, tx db.Tx, kind lifecycle.Kind, id string) (*repository.Booking, error) {
	table, err := bookingTable(kind)
	if err != nil {
		return nil, err
	}

	var booking repository.Booking
	err = tx.Get(ctx, &booking, "SELECT "+bookingColumns+" FROM "+table+" WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, kind lifecycle.Kind, booking *repository.Booking) error {
	table, err := bookingTable(kind)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "UPDATE "+table+" SET status = $1, updated_at = $2 WHERE id = $3",
		booking.Status, booking.UpdatedAt, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
