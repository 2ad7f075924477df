package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/studyden/studyden/internal/auth/service"
	"github.com/studyden/studyden/internal/auth/store"
	"github.com/studyden/studyden/internal/auth/store/drivers/sqlite"
	"github.com/studyden/studyden/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()

	access, err := jwtx.GenerateKeyPair("test-access")
	require.NoError(t, err)
	refresh, err := jwtx.GenerateKeyPair("test-refresh")
	require.NoError(t, err)

	codec, err := jwtx.NewCodec("studyden-test", access, refresh)
	require.NoError(t, err)
	return codec
}

func newSessionService(t *testing.T, cfg service.SessionConfig) (*service.SessionService, store.Store, *jwtx.Codec) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec := newTestCodec(t)
	return service.NewSessionService(st, codec, cfg), st, codec
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _, codec := newSessionService(t, service.SessionConfig{})
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "Study@Example.COM", "correct horse", "Sam")
	require.NoError(t, err)
	require.Equal(t, "study@example.com", user.Contact, "contact is normalised")
	require.Equal(t, "Sam", user.DisplayName)
	require.False(t, user.Guest)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	// issued credentials verify as their own kinds only
	claims, err := codec.Verify(jwtx.KindAccess, pair.Access)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "study@example.com", claims.Contact)

	_, err = codec.Verify(jwtx.KindAccess, pair.Refresh)
	require.Error(t, err)

	t.Run("login with right password", func(t *testing.T) {
		got, pair, err := svc.Login(ctx, "study@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, pair.Access)
		require.NotEmpty(t, pair.Refresh)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "study@example.com", "wrong horse")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("login with unknown contact", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSessionService(t, service.SessionConfig{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "long enough", "X")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, _, err = svc.Register(ctx, "ok@example.com", "short", "X")
	require.ErrorIs(t, err, service.ErrInvalidInput)

	t.Run("display name defaults to contact local part", func(t *testing.T) {
		user, _, err := svc.Register(ctx, "casey@example.com", "long enough", "")
		require.NoError(t, err)
		require.Equal(t, "casey", user.DisplayName)
	})
}

func TestRegisterDuplicateContact(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSessionService(t, service.SessionConfig{})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "dup@example.com", "password1", "One")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "dup@example.com", "password2", "Two")
	require.ErrorIs(t, err, service.ErrContactTaken)
}

func TestGuestLogin(t *testing.T) {
	t.Parallel()

	svc, st, _ := newSessionService(t, service.SessionConfig{})
	ctx := context.Background()

	user, pair, err := svc.GuestLogin(ctx)
	require.NoError(t, err)
	require.True(t, user.Guest)
	require.Empty(t, user.Contact)
	require.NotEmpty(t, user.DisplayName)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	// the guest is persisted, not ephemeral
	stored, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.Guest)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	svc, st, codec := newSessionService(t, service.SessionConfig{})
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "ref@example.com", "password1", "Ref")
	require.NoError(t, err)

	t.Run("valid refresh mints a new access credential", func(t *testing.T) {
		got, next, err := svc.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, next.Access)
		require.Empty(t, next.Refresh, "rotation off: no new refresh credential")

		claims, err := codec.Verify(jwtx.KindAccess, next.Access)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
	})

	t.Run("access credential is not a refresh credential", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, pair.Access)
		require.ErrorIs(t, err, service.ErrRefreshRejected)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, "not.a.token")
		require.ErrorIs(t, err, service.ErrRefreshRejected)
	})

	t.Run("deleted subject is rejected", func(t *testing.T) {
		require.NoError(t, st.Users().DeleteUser(ctx, user.ID))
		_, _, err := svc.Refresh(ctx, pair.Refresh)
		require.ErrorIs(t, err, service.ErrRefreshRejected)
	})
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()

	svc, _, codec := newSessionService(t, service.SessionConfig{RotateRefresh: true})
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "rot@example.com", "password1", "Rot")
	require.NoError(t, err)

	_, next, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, next.Refresh, "rotation on: refresh credential is reissued")
	require.Equal(t, jwtx.DefaultRefreshTTL, next.RefreshTTL)

	claims, err := codec.Verify(jwtx.KindRefresh, next.Refresh)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
}

func TestSessionConfigDefaults(t *testing.T) {
	t.Parallel()

	svc, _, _ := newSessionService(t, service.SessionConfig{AccessTTL: 2 * time.Second})
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "ttl@example.com", "password1", "TTL")
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, pair.AccessTTL)
	require.Equal(t, jwtx.DefaultRefreshTTL, pair.RefreshTTL, "unset refresh TTL falls back to default")
}
