package postgresql_test

import (
	"context"
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

func TestTrackingRepo(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	t.Run("lock subject", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), "o-1").
			DoAndReturn(func(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
				assert.Contains(t, query, "pg_advisory_xact_lock")
				return pgconn.CommandTag("SELECT 1"), nil
			})

		assert.NoError(t, repo.LockSubjectTx(ctx, mockTx, "o-1"))
	})

	t.Run("last timestamp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingRepo(mock_database.NewMockDB(ctrl))

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "o-1").
			DoAndReturn(func(_ context.Context, dest any, _ string, _ ...any) error {
				v := at
				*dest.(**time.Time) = &v
				return nil
			})

		last, err := repo.LastOccurredAtTx(ctx, mockTx, "o-1")
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, at, *last)
	})

	t.Run("create returns id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewTrackingRepo(mock_database.NewMockDB(ctrl))
		loc := "Lagos hub"
		ev := &repository.TrackingEvent{SubjectID: "o-1", SubjectType: "ORDER", Status: "SHIPPED", Location: &loc, OccurredAt: at}

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			"o-1", "ORDER", "SHIPPED", &loc, gomock.Nil(), at,
		).DoAndReturn(func(_ context.Context, dest any, _ string, _ ...any) error {
			*dest.(*int64) = 5
			return nil
		})

		require.NoError(t, repo.CreateTx(ctx, mockTx, ev))
		assert.Equal(t, int64(5), ev.ID)
	})

	t.Run("timeline is ordered oldest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewTrackingRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "o-1").
			DoAndReturn(func(_ context.Context, _ any, query string, _ ...any) error {
				assert.Contains(t, query, "ORDER BY occurred_at ASC, id ASC")
				return nil
			})

		_, err := repo.GetBySubjectID(ctx, "o-1")
		assert.NoError(t, err)
	})
}
