package dto

import (
	"time"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// SubmitGrievanceRequest payload for intake.
type SubmitGrievanceRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ComplaintText string `json:"complaint_text"`
}

// PreviewRequest payload for a dry-run triage.
type PreviewRequest struct {
	ComplaintText string `json:"complaint_text"`
}

// UpdateStatusRequest payload for admin status changes.
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
}

// SentimentResponse mirrors domain.Sentiment.
type SentimentResponse struct {
	Label    domain.SentimentLabel `json:"label"`
	Score    float64               `json:"score"`
	Positive float64               `json:"positive"`
	Negative float64               `json:"negative"`
	Neutral  float64               `json:"neutral"`
}

// AssessmentResponse is the triage outcome of a text.
type AssessmentResponse struct {
	Category            domain.Category   `json:"category"`
	Priority            domain.Priority   `json:"priority"`
	Department          string            `json:"department"`
	Sentiment           SentimentResponse `json:"sentiment"`
	Keywords            []string          `json:"keywords"`
	EstimatedResolution string            `json:"estimated_resolution"`
	ResolutionHours     int               `json:"resolution_hours"`
}

// GrievanceResponse is the full grievance record.
type GrievanceResponse struct {
	TicketID            string            `json:"ticket_id"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone,omitempty"`
	ComplaintText       string            `json:"complaint_text"`
	Category            domain.Category   `json:"category"`
	Priority            domain.Priority   `json:"priority"`
	Department          string            `json:"department"`
	Sentiment           SentimentResponse `json:"sentiment"`
	Keywords            []string          `json:"keywords"`
	EstimatedResolution string            `json:"estimated_resolution"`
	ResolutionHours     int               `json:"resolution_hours"`
	Status              domain.Status     `json:"status"`
	SubmittedAt         time.Time         `json:"submitted_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// ContactResponse is a department's public contact.
type ContactResponse struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
}

// TrackResponse pairs a grievance with its department contact.
type TrackResponse struct {
	Grievance GrievanceResponse `json:"grievance"`
	Contact   ContactResponse   `json:"contact"`
}

// DailyBucketResponse is one analytics row.
type DailyBucketResponse struct {
	Date     string          `json:"date"`
	Category domain.Category `json:"category"`
	Priority domain.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// StatisticsResponse is the dashboard payload.
type StatisticsResponse struct {
	Total       int                     `json:"total"`
	ByStatus    map[domain.Status]int   `json:"by_status"`
	ByCategory  map[domain.Category]int `json:"by_category"`
	ByPriority  map[domain.Priority]int `json:"by_priority"`
	RecentTrend map[string]int          `json:"recent_trend"`
	Daily       []DailyBucketResponse   `json:"daily"`
	ComputedAt  time.Time               `json:"computed_at"`
}

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSentimentResponse maps domain.Sentiment.
func NewSentimentResponse(s domain.Sentiment) SentimentResponse {
	return SentimentResponse{
		Label:    s.Label,
		Score:    s.Score,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}

// NewAssessmentResponse maps domain.Assessment.
func NewAssessmentResponse(a domain.Assessment) AssessmentResponse {
	return AssessmentResponse{
		Category:            a.Category,
		Priority:            a.Priority,
		Department:          a.Department,
		Sentiment:           NewSentimentResponse(a.Sentiment),
		Keywords:            nonNil(a.Keywords),
		EstimatedResolution: a.EstimatedResolution.String(),
		ResolutionHours:     a.EstimatedResolution.Hours,
	}
}

// NewGrievanceResponse maps domain.Grievance.
func NewGrievanceResponse(g *domain.Grievance) GrievanceResponse {
	return GrievanceResponse{
		TicketID:            g.TicketID,
		Name:                g.SubmitterName,
		Email:               g.SubmitterEmail,
		Phone:               g.SubmitterPhone,
		ComplaintText:       g.ComplaintText,
		Category:            g.Category,
		Priority:            g.Priority,
		Department:          g.Department,
		Sentiment:           NewSentimentResponse(g.Sentiment),
		Keywords:            nonNil(g.Keywords),
		EstimatedResolution: g.EstimatedResolution.String(),
		ResolutionHours:     g.EstimatedResolution.Hours,
		Status:              g.Status,
		SubmittedAt:         g.SubmittedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

// NewGrievanceList maps a slice of grievances.
func NewGrievanceList(items []domain.Grievance) []GrievanceResponse {
	out := make([]GrievanceResponse, 0, len(items))
	for i := range items {
		out = append(out, NewGrievanceResponse(&items[i]))
	}
	return out
}

// NewContactResponse maps domain.DepartmentContact.
func NewContactResponse(c domain.DepartmentContact) ContactResponse {
	return ContactResponse{Phone: c.Phone, Email: c.Email, OfficeHours: c.OfficeHours}
}

// NewStatisticsResponse maps domain.Statistics.
func NewStatisticsResponse(s *domain.Statistics) StatisticsResponse {
	daily := make([]DailyBucketResponse, 0, len(s.Daily))
	for _, b := range s.Daily {
		daily = append(daily, DailyBucketResponse{Date: b.Date, Category: b.Category, Priority: b.Priority, Count: b.Count})
	}
	return StatisticsResponse{
		Total:       s.Total,
		ByStatus:    s.ByStatus,
		ByCategory:  s.ByCategory,
		ByPriority:  s.ByPriority,
		RecentTrend: s.RecentTrend,
		Daily:       daily,
		ComputedAt:  s.ComputedAt,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
