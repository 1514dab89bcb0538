package service

import (
	"context"
	"testing"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *jwtx.HS256) {
	t.Helper()

	tokens := jwtx.NewHS256([]byte("test-secret"), "phishguard-test")
	return &AuthService{
		Store:  newTestStore(t),
		Signer: tokens,
		Issuer: "phishguard-test",
	}, tokens
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService(t)

	u, token, err := svc.Register(ctx, "  Alice  ", " alice@example.com ", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, domain.RoleUser, u.Role)
	require.NotEmpty(t, u.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.WithinDuration(t,
		time.Now().Add(jwtx.DefaultSessionTTL), claims.ExpiresAt.Time, time.Minute)

	stored, err := svc.Store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	for _, tc := range []struct {
		name, userName, email, password string
	}{
		{"no name", "", "a@b.com", "password"},
		{"no email", "Alice", "", "password"},
		{"no password", "Alice", "a@b.com", ""},
		{"whitespace name", "   ", "a@b.com", "password"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.userName, tc.email, tc.password)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "Name, email and password are required.", verr.Message)
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password-1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other Alice", "alice@example.com", "password-2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService(t)

	registered, _, err := svc.Register(ctx, "Bob", "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(ctx, "Bob", "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "bob@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("email is byte exact", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "BOB@example.com", "hunter2hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "", "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "Email and password are required.", verr.Message)
	})
}
