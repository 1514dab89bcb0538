package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quantumsec/phishguard/internal/dashboard/domain"
	"github.com/quantumsec/phishguard/internal/dashboard/store"
)

const (
	// DefaultPredictionLimit applies when the caller asks for no particular
	// page size.
	DefaultPredictionLimit = 100

	// MaxPredictionLimit is the hard ceiling regardless of what was asked.
	MaxPredictionLimit = 500

	// RecentActivityLimit is the size of the analytics activity feed.
	RecentActivityLimit = 10
)

type AdminService struct {
	Store store.Store
}

// Analytics is the aggregate snapshot served to the admin dashboard.
type Analytics struct {
	TotalUsers       int64
	TotalPredictions int64
	PhishingCount    int64
	LegitimateCount  int64
	RecentActivity   []domain.PredictionWithOwner
}

// ListUsers returns every account, newest-created first.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// ListPredictions returns recent predictions across all users with owner
// details attached. A non-positive limit falls back to
// DefaultPredictionLimit; anything above MaxPredictionLimit is clamped.
func (s *AdminService) ListPredictions(ctx context.Context, limit int) ([]domain.PredictionWithOwner, error) {
	if limit <= 0 {
		limit = DefaultPredictionLimit
	}
	if limit > MaxPredictionLimit {
		limit = MaxPredictionLimit
	}
	return s.Store.Predictions().ListWithOwners(ctx, limit)
}

// GetAnalytics collects the dashboard counters and the recent activity feed.
// The five queries run concurrently; the first failure cancels the rest.
func (s *AdminService) GetAnalytics(ctx context.Context) (Analytics, error) {
	var out Analytics

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.Store.Users().CountUsers(ctx)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.Store.Predictions().CountPredictions(ctx)
		out.TotalPredictions = n
		return err
	})
	g.Go(func() error {
		n, err := s.Store.Predictions().CountByLabel(ctx, domain.LabelPhishing)
		out.PhishingCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.Store.Predictions().CountByLabel(ctx, domain.LabelLegitimate)
		out.LegitimateCount = n
		return err
	})
	g.Go(func() error {
		recent, err := s.Store.Predictions().ListWithOwners(ctx, RecentActivityLimit)
		out.RecentActivity = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return Analytics{}, err
	}
	return out, nil
}

// SetUserRole changes a user's role and returns the updated record. The role
// must be one of the known values; unknown users surface store.ErrNotFound.
func (s *AdminService) SetUserRole(ctx context.Context, userID, role string) (domain.User, error) {
	if !domain.ValidRole(role) {
		return domain.User{}, &ValidationError{Message: "Invalid role."}
	}
	return s.Store.Users().UpdateUserRole(ctx, userID, role)
}
