package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/persistence"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.OpenSQLite(ctx, persistence.MemoryDSN, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, persistence.RunMigrations(ctx, db, persistence.DialectSQLite, zap.NewNop()))
	return db
}

func sampleGrievance(ticket string, submitted time.Time) *domain.Grievance {
	return &domain.Grievance{
		TicketID:       ticket,
		SubmitterName:  "Asha",
		SubmitterEmail: "asha@example.org",
		ComplaintText:  "Garbage has not been collected near the market",
		Category:       domain.CategorySanitation,
		Priority:       domain.PriorityMedium,
		Department:     "Municipal Corporation - Sanitation Dept",
		Sentiment: domain.Sentiment{
			Label:    domain.SentimentNegative,
			Score:    -0.421,
			Negative: 0.3,
			Neutral:  0.7,
		},
		Keywords:            []string{"garbage", "collected", "market"},
		EstimatedResolution: domain.ResolutionEstimate{Hours: 48},
		Status:              domain.StatusPending,
		SubmittedAt:         submitted,
		UpdatedAt:           submitted,
	}
}

func TestInsertAndGetByTicket(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	submitted := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	ok, err := repo.Insert(ctx, sampleGrievance("GRV-20240315103000-1234", submitted))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByTicket(ctx, "GRV-20240315103000-1234")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.SubmitterName)
	assert.Equal(t, "", got.SubmitterPhone)
	assert.Equal(t, domain.CategorySanitation, got.Category)
	assert.Equal(t, []string{"garbage", "collected", "market"}, got.Keywords)
	assert.Equal(t, 48, got.EstimatedResolution.Hours)
	assert.InDelta(t, -0.421, got.Sentiment.Score, 1e-9)
	assert.True(t, submitted.Equal(got.SubmittedAt))

	_, err = repo.GetByTicket(ctx, "GRV-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertDuplicateLeavesFirstRecord(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	ok, err := repo.Insert(ctx, sampleGrievance("GRV-dup", now))
	require.NoError(t, err)
	require.True(t, ok)

	second := sampleGrievance("GRV-dup", now)
	second.SubmitterName = "Someone Else"
	ok, err = repo.Insert(ctx, second)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByTicket(ctx, "GRV-dup")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.SubmitterName)

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	require.Len(t, stats.Daily, 1)
	assert.Equal(t, 1, stats.Daily[0].Count)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		g := sampleGrievance(fmt.Sprintf("GRV-%d", i), base.Add(time.Duration(i)*time.Hour))
		if i%2 == 0 {
			g.Priority = domain.PriorityHigh
		}
		_, err := repo.Insert(ctx, g)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "GRV-4", all[0].TicketID)
	assert.Equal(t, "GRV-0", all[4].TicketID)

	limited, err := repo.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "GRV-3", limited[1].TicketID)

	high, err := repo.List(ctx, ListFilter{Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Len(t, high, 3)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	_, err := repo.Insert(ctx, sampleGrievance("GRV-life", created))
	require.NoError(t, err)

	later := created.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateStatus(ctx, "GRV-life", domain.StatusInProgress, later))
	require.NoError(t, repo.UpdateStatus(ctx, "GRV-life", domain.StatusInProgress, later.Add(time.Minute)))

	err = repo.UpdateStatus(ctx, "GRV-life", domain.StatusPending, later.Add(time.Hour))
	assert.ErrorIs(t, err, ErrStatusRegression)

	require.NoError(t, repo.UpdateStatus(ctx, "GRV-life", domain.StatusResolved, later.Add(3*time.Hour)))

	got, err := repo.GetByTicket(ctx, "GRV-life")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, got.Status)
	assert.True(t, later.Add(3*time.Hour).Equal(got.UpdatedAt))
	assert.True(t, created.Equal(got.SubmittedAt))

	err = repo.UpdateStatus(ctx, "GRV-missing", domain.StatusResolved, later)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchEscapesWildcards(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	a := sampleGrievance("GRV-a", now)
	a.ComplaintText = "Water supply at 100% failure"
	b := sampleGrievance("GRV-b", now.Add(time.Second))
	b.ComplaintText = "Water supply at 1000 liters short"
	c := sampleGrievance("GRV-c", now.Add(2*time.Second))
	c.ComplaintText = "Pothole on main_road"
	for _, g := range []*domain.Grievance{a, b, c} {
		_, err := repo.Insert(ctx, g)
		require.NoError(t, err)
	}

	got, err := repo.Search(ctx, "100%", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GRV-a", got[0].TicketID)

	got, err = repo.Search(ctx, "WATER", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GRV-b", got[0].TicketID)

	got, err = repo.Search(ctx, "n_r", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GRV-c", got[0].TicketID)

	got, err = repo.Search(ctx, "grv-c", 50)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.Search(ctx, "a", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStatisticsAndDeleteAll(t *testing.T) {
	repo := NewGrievanceRepository(newTestDB(t))
	ctx := context.Background()
	day1 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	g1 := sampleGrievance("GRV-1", day1)
	g2 := sampleGrievance("GRV-2", day1.Add(time.Hour))
	g3 := sampleGrievance("GRV-3", day1.Add(2*time.Hour))
	g3.Category = domain.CategoryUtilities
	g3.Priority = domain.PriorityCritical
	g4 := sampleGrievance("GRV-4", day2)
	for _, g := range []*domain.Grievance{g1, g2, g3, g4} {
		_, err := repo.Insert(ctx, g)
		require.NoError(t, err)
	}
	require.NoError(t, repo.UpdateStatus(ctx, "GRV-4", domain.StatusResolved, day2.Add(time.Hour)))

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[domain.StatusResolved])
	assert.Equal(t, 3, stats.ByCategory[domain.CategorySanitation])
	assert.Equal(t, 1, stats.ByPriority[domain.PriorityCritical])
	assert.Equal(t, map[string]int{"2024-06-01": 3, "2024-06-02": 1}, stats.RecentTrend)
	assert.Len(t, stats.Daily, 3)

	sum := 0
	for _, b := range stats.Daily {
		sum += b.Count
	}
	assert.Equal(t, stats.Total, sum)

	require.NoError(t, repo.DeleteAll(ctx))
	stats, err = repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.Daily)
	assert.Empty(t, stats.RecentTrend)

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
