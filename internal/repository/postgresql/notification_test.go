package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db/mocks"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository/postgresql"
)

func TestNotificationRepo_Create(t *testing.T) {
	ctx := context.Background()
	link := "/orders/o-1"
	newNotification := func() *repository.Notification {
		return &repository.Notification{
			UserID:    "buyer-1",
			Type:      "DELIVERY",
			Title:     "Order Delivered",
			Message:   "Your order #o-1 has been delivered.",
			Link:      &link,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("returns the new id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewNotificationRepo(mockDB)
		n := newNotification()

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			"buyer-1", "DELIVERY", "Order Delivered", n.Message, &link, false, n.CreatedAt,
		).DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
			assert.Contains(t, query, "RETURNING id")
			*dest.(*int64) = 99
			return nil
		})

		require.NoError(t, repo.Create(ctx, n))
		assert.Equal(t, int64(99), n.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewNotificationRepo(mockDB)

		fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "notifications_user_id_fkey"}
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(fkErr)

		err := repo.Create(ctx, newNotification())
		assert.ErrorIs(t, err, repository.ErrRecipientNotFound)
	})

	t.Run("other database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewNotificationRepo(mockDB)

		expectedErr := errors.New("connection reset")
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(expectedErr)

		err := repo.Create(ctx, newNotification())
		assert.Equal(t, expectedErr, err)
		assert.NotErrorIs(t, err, repository.ErrRecipientNotFound)
	})
}

func TestNotificationRepo_GetByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("with limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewNotificationRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "buyer-1", 20).
			DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
				assert.Contains(t, query, "LIMIT $2")
				*dest.(*[]*repository.Notification) = []*repository.Notification{{ID: 2}, {ID: 1}}
				return nil
			})

		got, err := repo.GetByUserID(ctx, "buyer-1", 20)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("without limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewNotificationRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "buyer-1").
			DoAndReturn(func(_ context.Context, _ any, query string, _ ...any) error {
				assert.NotContains(t, query, "LIMIT")
				return nil
			})

		_, err := repo.GetByUserID(ctx, "buyer-1", 0)
		assert.NoError(t, err)
	})
}
