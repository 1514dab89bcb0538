package store

import (
	"context"
	"errors"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories to keep concerns tidy and testable. There is no
// transaction surface: every write here is a single-row insert or update, so
// the driver's per-statement atomicity is all the consistency the dashboard
// needs.
type Store interface {
	Users() Users
	Predictions() Predictions

	ApplyMigrations() error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Email matching is byte-exact.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users, newest-created first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateUserRole sets the role and returns the updated user.
	UpdateUserRole(ctx context.Context, userID, role string) (domain.User, error)

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int64, error)
}

type Predictions interface {
	// CreatePrediction inserts one immutable prediction row.
	CreatePrediction(ctx context.Context, p domain.Prediction) error

	// ListByUser returns the user's predictions, newest first, at most limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Prediction, error)

	// ListWithOwners returns predictions joined with owner name/email,
	// newest first, at most limit.
	ListWithOwners(ctx context.Context, limit int) ([]domain.PredictionWithOwner, error)

	// CountPredictions returns the total number of predictions.
	CountPredictions(ctx context.Context) (int64, error)

	// CountByLabel returns how many predictions carry the given label.
	CountByLabel(ctx context.Context, label string) (int64, error)
}
