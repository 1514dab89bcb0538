package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/classifier"
	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/internal/dashboard/store/drivers/sqlite"
	"github.com/quantumsec/phishguard/pkg/cryptox"
	"github.com/quantumsec/phishguard/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "phishguard-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, role string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test User",
		Email:        idx.New().String() + "@example.com",
		PasswordHash: "unused",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

// classifierFunc adapts a function into a Classifier for test stubbing.
type classifierFunc func(ctx context.Context, url string) (classifier.Verdict, error)

func (f classifierFunc) Classify(ctx context.Context, url string) (classifier.Verdict, error) {
	return f(ctx, url)
}
