package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
	"github.com/quantumsec/phishguard/pkg/cryptox"
	"github.com/quantumsec/phishguard/pkg/idx"
	"github.com/quantumsec/phishguard/pkg/jwtx"
	"github.com/quantumsec/phishguard/pkg/slogx"
)

type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string

	// SessionTTL bounds issued tokens; zero means jwtx.DefaultSessionTTL.
	SessionTTL time.Duration
}

// Register creates a new user account and returns it alongside a signed
// session token. New accounts always start with the user role; promotion is
// an admin operation.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.User{}, "", &ValidationError{Message: "Name, email and password are required."}
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.issueToken(u.ID, time.Now())
	if err != nil {
		return domain.User{}, "", err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	return u, token, nil
}

// Login verifies the credentials and returns the user with a fresh session
// token. A missing account and a wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, "", &ValidationError{Message: "Email and password are required."}
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(u.PasswordHash, password); err != nil {
		slogx.FromContext(ctx).Info("login rejected", slog.String("user_id", u.ID))
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID, time.Now())
	if err != nil {
		return domain.User{}, "", err
	}

	return u, token, nil
}

// GetUserByID fetches a user by id.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *AuthService) issueToken(userID string, now time.Time) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(userID, s.Issuer, ttl, now)
	return s.Signer.Sign(claims)
}
