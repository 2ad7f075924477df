package service_test

import (
	"context"
	"testing"

	"github.com/studyden/studyden/internal/auth/domain"
	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/internal/auth/store/drivers/sqlite"
	"github.com/studyden/studyden/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestUserServiceLifecycle(t *testing.T) {
	t.Parallel()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	svc := service.NewUserService(st)
	ctx := context.Background()

	u := domain.User{ID: idx.New().String(), Contact: "us@example.com", DisplayName: "Us", PasswordHash: "h"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Us", got.DisplayName)

	got, err = svc.UpdateDisplayName(ctx, u.ID, "Them")
	require.NoError(t, err)
	require.Equal(t, "Them", got.DisplayName)

	_, err = svc.UpdateDisplayName(ctx, u.ID, "   ")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	require.ErrorIs(t, err, service.ErrUnknownUser)
}
