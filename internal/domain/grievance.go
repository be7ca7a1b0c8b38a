package domain

import (
	"fmt"
	"time"
)

// Category is the subject area a complaint is classified into.
type Category string

const (
	CategorySanitation     Category = "Sanitation"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryPublicSafety   Category = "Public Safety"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryAdministration Category = "Administration"
	// CategoryAdministrative is what the fallback classifier answers.
	CategoryAdministrative Category = "Administrative"
)

// Priority enumerates triage urgency.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Status enumerates lifecycle states for grievances.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Statuses lists the lifecycle in order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusResolved:
		return 2
	}
	return -1
}

// SentimentLabel is the polarity bucket of a complaint.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// Sentiment holds the compound polarity and its components.
type Sentiment struct {
	Label    SentimentLabel
	Score    float64
	Positive float64
	Negative float64
	Neutral  float64
}

// ResolutionEstimate is the expected time to resolve, in whole hours.
type ResolutionEstimate struct {
	Hours int
}

// Duration returns the estimate as a time.Duration.
func (r ResolutionEstimate) Duration() time.Duration {
	return time.Duration(r.Hours) * time.Hour
}

// String renders hours below a day and whole days otherwise.
func (r ResolutionEstimate) String() string {
	if r.Hours < 24 {
		return fmt.Sprintf("%d hours", r.Hours)
	}
	return fmt.Sprintf("%d days", r.Hours/24)
}

// SubmitterInfo identifies who filed a complaint.
type SubmitterInfo struct {
	Name  string
	Email string
	Phone string
}

// Assessment is the triage outcome for a complaint text.
type Assessment struct {
	Category            Category
	Priority            Priority
	Department          string
	Sentiment           Sentiment
	Keywords            []string
	EstimatedResolution ResolutionEstimate
}

// Grievance is one submitted complaint with its triage outcome.
// Everything except Status and UpdatedAt is fixed at creation.
type Grievance struct {
	TicketID            string
	SubmitterName       string
	SubmitterEmail      string
	SubmitterPhone      string
	ComplaintText       string
	Category            Category
	Priority            Priority
	Department          string
	Sentiment           Sentiment
	Keywords            []string
	EstimatedResolution ResolutionEstimate
	Status              Status
	SubmittedAt         time.Time
	UpdatedAt           time.Time
}
