package events

import (
	"time"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceSubmitted     EventType = "grievance_submitted"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
	EventGrievancesPurged       EventType = "grievances_purged"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	Name string             `json:"name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// GrievanceSubmittedPayload payload.
type GrievanceSubmittedPayload struct {
	SubmitterName  string          `json:"submitter_name"`
	SubmitterEmail string          `json:"submitter_email"`
	Category       domain.Category `json:"category"`
	Priority       domain.Priority `json:"priority"`
	Department     string          `json:"department"`
	Resolution     string          `json:"estimated_resolution"`
}

// GrievanceStatusChangedPayload payload.
type GrievanceStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// GrievancesPurgedPayload payload.
type GrievancesPurgedPayload struct {
	Removed int `json:"removed"`
}
