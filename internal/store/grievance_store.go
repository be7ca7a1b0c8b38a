package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/cache"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
)

const (
	// DefaultListLimit applies when GetAll is called without a positive limit.
	DefaultListLimit = repository.DefaultListLimit
	// SearchLimit caps search results.
	SearchLimit = 50
)

var (
	// ErrStatusRegression rejects moving a grievance back along its lifecycle.
	ErrStatusRegression = repository.ErrStatusRegression
	// ErrInvalidStatus rejects statuses outside the lifecycle.
	ErrInvalidStatus = errors.New("invalid grievance status")
)

// GrievanceStore is the durable grievance record store. Writes invalidate the
// statistics cache before returning.
type GrievanceStore struct {
	repo   repository.GrievanceRepository
	cache  cache.StatsCache
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a GrievanceStore.
type Option func(*GrievanceStore)

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *GrievanceStore) { s.now = now }
}

// New builds a store. A nil cache falls back to the in-process cache.
func New(repo repository.GrievanceRepository, statsCache cache.StatsCache, logger *zap.Logger, opts ...Option) *GrievanceStore {
	if statsCache == nil {
		statsCache = cache.NewMemoryStatsCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GrievanceStore{
		repo:   repo,
		cache:  statsCache,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert persists g and bumps its daily analytics bucket. It reports false,
// with no error, when the ticket id already exists.
func (s *GrievanceStore) Insert(ctx context.Context, g *domain.Grievance) (bool, error) {
	if g == nil || strings.TrimSpace(g.TicketID) == "" {
		return false, errors.New("grievance requires a ticket id")
	}
	if g.Status == "" {
		g.Status = domain.StatusPending
	}
	if g.SubmittedAt.IsZero() {
		g.SubmittedAt = s.now().UTC()
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = g.SubmittedAt
	}

	inserted, err := s.repo.Insert(ctx, g)
	if err != nil {
		return false, fmt.Errorf("insert grievance %s: %w", g.TicketID, err)
	}
	if inserted {
		s.invalidate(ctx)
	}
	return inserted, nil
}

// GetAll lists grievances most recent first.
func (s *GrievanceStore) GetAll(ctx context.Context, limit int) ([]domain.Grievance, error) {
	return s.List(ctx, repository.ListFilter{Limit: limit})
}

// List lists grievances matching filter, most recent first.
func (s *GrievanceStore) List(ctx context.Context, filter repository.ListFilter) ([]domain.Grievance, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list grievances: %w", err)
	}
	return items, nil
}

// GetByTicket looks up one grievance by its exact ticket id.
func (s *GrievanceStore) GetByTicket(ctx context.Context, ticketID string) (*domain.Grievance, bool, error) {
	g, err := s.repo.GetByTicket(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get grievance %s: %w", ticketID, err)
	}
	return g, true, nil
}

// UpdateStatus moves a grievance forward (or keeps it) along its lifecycle.
// It reports false, with no error, when the ticket id is unknown.
func (s *GrievanceStore) UpdateStatus(ctx context.Context, ticketID string, status domain.Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := s.repo.UpdateStatus(ctx, ticketID, status, s.now().UTC())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}

	s.invalidate(ctx)
	return true, nil
}

// Statistics returns the aggregate view, computing it at most once per cache
// generation.
func (s *GrievanceStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("stats cache unavailable; computing directly", zap.Error(err))
		return s.computeStatistics(ctx)
	}

	if cached, ok, err := s.cache.Load(ctx, gen); err != nil {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	stats, err := s.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, gen, stats); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

// Search matches query case-insensitively against ticket ids and complaint
// text. Wildcard characters in query match literally.
func (s *GrievanceStore) Search(ctx context.Context, query string) ([]domain.Grievance, error) {
	items, err := s.repo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search grievances: %w", err)
	}
	return items, nil
}

// DeleteAll removes every grievance and analytics bucket.
func (s *GrievanceStore) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete grievances: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *GrievanceStore) computeStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *GrievanceStore) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("stats cache invalidation failed", zap.Error(err))
	}
}
