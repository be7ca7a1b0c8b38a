package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// DefaultListLimit bounds unfiltered listings.
const DefaultListLimit = 500

var (
	// ErrNotFound is returned when no grievance has the requested ticket id.
	ErrNotFound = errors.New("grievance not found")
	// ErrStatusRegression is returned when a status update would move backwards.
	ErrStatusRegression = errors.New("status cannot move backwards")
)

// ListFilter narrows admin listings. Zero values mean "any".
type ListFilter struct {
	Status   domain.Status
	Priority domain.Priority
	Category domain.Category
	Limit    int
}

// GrievanceRepository encapsulates grievance persistence.
type GrievanceRepository interface {
	Insert(ctx context.Context, g *domain.Grievance) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Grievance, error)
	GetByTicket(ctx context.Context, ticketID string) (*domain.Grievance, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.Status, at time.Time) error
	Search(ctx context.Context, query string, limit int) ([]domain.Grievance, error)
	DeleteAll(ctx context.Context) error
	Statistics(ctx context.Context) (*domain.Statistics, error)
}

type grievanceRepository struct {
	db *sqlx.DB
}

// NewGrievanceRepository instantiates the repository over a sqlite or
// postgres handle; all statements use $n placeholders understood by both.
func NewGrievanceRepository(db *sqlx.DB) GrievanceRepository {
	return &grievanceRepository{db: db}
}

const grievanceColumns = `id, ticket_id, name, email, phone, complaint_text, category, priority, department,
       sentiment_label, sentiment_score, sentiment_positive, sentiment_negative, sentiment_neutral,
       keywords, resolution_hours, status, submitted_at, updated_at`

type grievanceRow struct {
	ID                int64     `db:"id"`
	TicketID          string    `db:"ticket_id"`
	Name              string    `db:"name"`
	Email             string    `db:"email"`
	Phone             string    `db:"phone"`
	ComplaintText     string    `db:"complaint_text"`
	Category          string    `db:"category"`
	Priority          string    `db:"priority"`
	Department        string    `db:"department"`
	SentimentLabel    string    `db:"sentiment_label"`
	SentimentScore    float64   `db:"sentiment_score"`
	SentimentPositive float64   `db:"sentiment_positive"`
	SentimentNegative float64   `db:"sentiment_negative"`
	SentimentNeutral  float64   `db:"sentiment_neutral"`
	Keywords          string    `db:"keywords"`
	ResolutionHours   int       `db:"resolution_hours"`
	Status            string    `db:"status"`
	SubmittedAt       time.Time `db:"submitted_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r grievanceRow) toDomain() (domain.Grievance, error) {
	keywords := []string{}
	if r.Keywords != "" {
		if err := json.Unmarshal([]byte(r.Keywords), &keywords); err != nil {
			return domain.Grievance{}, fmt.Errorf("decode keywords for %s: %w", r.TicketID, err)
		}
	}
	return domain.Grievance{
		TicketID:       r.TicketID,
		SubmitterName:  r.Name,
		SubmitterEmail: r.Email,
		SubmitterPhone: r.Phone,
		ComplaintText:  r.ComplaintText,
		Category:       domain.Category(r.Category),
		Priority:       domain.Priority(r.Priority),
		Department:     r.Department,
		Sentiment: domain.Sentiment{
			Label:    domain.SentimentLabel(r.SentimentLabel),
			Score:    r.SentimentScore,
			Positive: r.SentimentPositive,
			Negative: r.SentimentNegative,
			Neutral:  r.SentimentNeutral,
		},
		Keywords:            keywords,
		EstimatedResolution: domain.ResolutionEstimate{Hours: r.ResolutionHours},
		Status:              domain.Status(r.Status),
		SubmittedAt:         r.SubmittedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}, nil
}

func (r *grievanceRepository) Insert(ctx context.Context, g *domain.Grievance) (bool, error) {
	keywords := g.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return false, fmt.Errorf("encode keywords: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	const insertComplaint = `
        INSERT INTO complaints (ticket_id, name, email, phone, complaint_text, category, priority, department,
            sentiment_label, sentiment_score, sentiment_positive, sentiment_negative, sentiment_neutral,
            keywords, resolution_hours, status, submitted_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        ON CONFLICT (ticket_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, insertComplaint,
		g.TicketID,
		g.SubmitterName,
		g.SubmitterEmail,
		g.SubmitterPhone,
		g.ComplaintText,
		string(g.Category),
		string(g.Priority),
		g.Department,
		string(g.Sentiment.Label),
		g.Sentiment.Score,
		g.Sentiment.Positive,
		g.Sentiment.Negative,
		g.Sentiment.Neutral,
		string(encoded),
		g.EstimatedResolution.Hours,
		string(g.Status),
		g.SubmittedAt.UTC(),
		g.UpdatedAt.UTC(),
	)
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		return false, nil
	}

	const bumpAnalytics = `
        INSERT INTO analytics (date, category, priority, count)
        VALUES ($1, $2, $3, 1)
        ON CONFLICT (date, category, priority)
        DO UPDATE SET count = analytics.count + 1`
	if _, err := tx.ExecContext(ctx, bumpAnalytics,
		g.SubmittedAt.UTC().Format(time.DateOnly),
		string(g.Category),
		string(g.Priority),
	); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *grievanceRepository) List(ctx context.Context, filter ListFilter) ([]domain.Grievance, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY submitted_at DESC, id DESC LIMIT $%d`,
		grievanceColumns, strings.Join(clauses, " AND "), len(args))
	return r.selectGrievances(ctx, query, args...)
}

func (r *grievanceRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Grievance, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE ticket_id=$1`, grievanceColumns)

	var row grievanceRow
	if err := r.db.GetContext(ctx, &row, query, ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	g, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grievanceRepository) UpdateStatus(ctx context.Context, ticketID string, status domain.Status, at time.Time) error {
	const query = `
        UPDATE complaints SET status=$1, updated_at=$2
        WHERE ticket_id=$3
          AND (CASE status WHEN 'Pending' THEN 0 WHEN 'In Progress' THEN 1 WHEN 'Resolved' THEN 2 ELSE 0 END) <= $4`
	res, err := r.db.ExecContext(ctx, query, string(status), at.UTC(), ticketID, status.Rank())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var current string
	if err := r.db.GetContext(ctx, &current, `SELECT status FROM complaints WHERE ticket_id=$1`, ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: %s to %s", ErrStatusRegression, current, status)
}

func (r *grievanceRepository) Search(ctx context.Context, query string, limit int) ([]domain.Grievance, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	stmt := fmt.Sprintf(`SELECT %s FROM complaints
        WHERE LOWER(complaint_text) LIKE $1 ESCAPE '\' OR LOWER(ticket_id) LIKE $1 ESCAPE '\'
        ORDER BY submitted_at DESC, id DESC LIMIT $2`, grievanceColumns)
	return r.selectGrievances(ctx, stmt, pattern, limit)
}

func (r *grievanceRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM complaints`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analytics`); err != nil {
		return err
	}
	return tx.Commit()
}

type groupCount struct {
	Label string `db:"label"`
	N     int    `db:"n"`
}

type bucketRow struct {
	Date     string `db:"date"`
	Category string `db:"category"`
	Priority string `db:"priority"`
	N        int    `db:"n"`
}

func (r *grievanceRepository) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats := domain.NewStatistics()

	var byStatus, byCategory, byPriority []groupCount
	var buckets []bucketRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.GetContext(gctx, &stats.Total, `SELECT COUNT(*) FROM complaints`)
	})
	g.Go(func() error {
		return r.db.SelectContext(gctx, &byStatus, `SELECT status AS label, COUNT(*) AS n FROM complaints GROUP BY status`)
	})
	g.Go(func() error {
		return r.db.SelectContext(gctx, &byCategory, `SELECT category AS label, COUNT(*) AS n FROM complaints GROUP BY category`)
	})
	g.Go(func() error {
		return r.db.SelectContext(gctx, &byPriority, `SELECT priority AS label, COUNT(*) AS n FROM complaints GROUP BY priority`)
	})
	g.Go(func() error {
		return r.db.SelectContext(gctx, &buckets,
			`SELECT date, category, priority, count AS n FROM analytics ORDER BY date ASC, category ASC, priority ASC`)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute statistics: %w", err)
	}

	for _, c := range byStatus {
		stats.ByStatus[domain.Status(c.Label)] = c.N
	}
	for _, c := range byCategory {
		stats.ByCategory[domain.Category(c.Label)] = c.N
	}
	for _, c := range byPriority {
		stats.ByPriority[domain.Priority(c.Label)] = c.N
	}
	stats.Daily = make([]domain.DailyBucket, 0, len(buckets))
	for _, b := range buckets {
		stats.Daily = append(stats.Daily, domain.DailyBucket{
			Date:     b.Date,
			Category: domain.Category(b.Category),
			Priority: domain.Priority(b.Priority),
			Count:    b.N,
		})
		stats.RecentTrend[b.Date] += b.N
	}
	stats.ComputedAt = time.Now().UTC()
	return stats, nil
}

func (r *grievanceRepository) selectGrievances(ctx context.Context, query string, args ...any) ([]domain.Grievance, error) {
	var rows []grievanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	result := make([]domain.Grievance, 0, len(rows))
	for _, row := range rows {
		g, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
