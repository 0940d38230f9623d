package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db/mocks"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository/postgresql"
)

func TestDeviceTokenRepo_ActiveTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("only active tokens", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeviceTokenRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), "buyer-1").
			DoAndReturn(func(_ context.Context, dest any, query string, _ ...any) error {
				assert.Contains(t, query, "is_active = TRUE")
				*dest.(*[]string) = []string{"ExponentPushToken[a]", "ExponentPushToken[b]"}
				return nil
			})

		tokens, err := repo.ActiveTokens(ctx, "buyer-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"ExponentPushToken[a]", "ExponentPushToken[b]"}, tokens)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewDeviceTokenRepo(mockDB)

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))

		_, err := repo.ActiveTokens(ctx, "buyer-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get active device tokens")
	})
}
