package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db/mocks"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository/postgresql"
)

func TestBookingRepo_TablePerKind(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		kind  lifecycle.Kind
		table string
	}{
		{lifecycle.KindMechanicBooking, "FROM mechanic_bookings"},
		{lifecycle.KindLogisticsBooking, "FROM logistics_bookings"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockDB := mock_database.NewMockDB(ctrl)
			repo := postgresql.NewBookingRepo(mockDB)

			mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "b-1").
				DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
					assert.Contains(t, query, tc.table)
					*dest.(*repository.Booking) = repository.Booking{ID: "b-1", CustomerID: "c-1", Status: "PENDING"}
					return nil
				})

			b, err := repo.GetByID(ctx, tc.kind, "b-1")
			assert.NoError(t, err)
			assert.Equal(t, "c-1", b.CustomerID)
		})
	}

	t.Run("order kind is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := postgresql.NewBookingRepo(mock_database.NewMockDB(ctrl))

		_, err := repo.GetByID(ctx, lifecycle.KindOrder, "o-1")
		assert.ErrorIs(t, err, lifecycle.ErrUnknownKind)
	})
}

func TestBookingRepo_GetByIDTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewBookingRepo(mock_database.NewMockDB(ctrl))

	mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "b-404").Return(pgx.ErrNoRows)

	_, err := repo.GetByIDTx(context.Background(), mockTx, lifecycle.KindLogisticsBooking, "b-404")
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestBookingRepo_UpdateStatusTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewBookingRepo(mock_database.NewMockDB(ctrl))
	b := &repository.Booking{ID: "b-1", Status: "IN_PROGRESS", UpdatedAt: time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)}

	mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), "IN_PROGRESS", b.UpdatedAt, "b-1").
		DoAndReturn(func(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
			assert.Contains(t, query, "UPDATE mechanic_bookings")
			return pgconn.CommandTag("UPDATE 1"), nil
		})

	assert.NoError(t, repo.UpdateStatusTx(context.Background(), mockTx, lifecycle.KindMechanicBooking, b))
}
