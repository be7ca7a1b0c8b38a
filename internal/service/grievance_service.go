package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/repository"
	"github.com/civicdesk/grievance-service/internal/store"
	"github.com/civicdesk/grievance-service/internal/triage"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

// MaxComplaintLength bounds complaint text, counted in runes.
const MaxComplaintLength = 5000

// DefaultMintAttempts is how many ticket ids intake tries before giving up.
const DefaultMintAttempts = 2

// ErrTicketMintExhausted means every minted ticket id collided with an
// existing one.
var ErrTicketMintExhausted = errors.New("could not mint a unique ticket id")

// GrievanceStore is the persistence contract the service depends on.
type GrievanceStore interface {
	Insert(ctx context.Context, g *domain.Grievance) (bool, error)
	GetAll(ctx context.Context, limit int) ([]domain.Grievance, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Grievance, error)
	GetByTicket(ctx context.Context, ticketID string) (*domain.Grievance, bool, error)
	UpdateStatus(ctx context.Context, ticketID string, status domain.Status) (bool, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)
	Search(ctx context.Context, query string) ([]domain.Grievance, error)
	DeleteAll(ctx context.Context) error
}

// TicketMinter produces candidate ticket ids.
type TicketMinter interface {
	Mint() string
}

// TriageRecorder observes intake outcomes.
type TriageRecorder interface {
	RecordTriage(category domain.Category, priority domain.Priority)
	RecordMintRetry()
}

// GrievanceService runs intake triage and the tracking/admin workflows.
type GrievanceService struct {
	store        GrievanceStore
	assessor     *triage.Assessor
	minter       TicketMinter
	dispatcher   events.Dispatcher
	recorder     TriageRecorder
	logger       *zap.Logger
	mintAttempts int
	now          func() time.Time
}

// GrievanceDependencies bundles collaborators for the grievance service.
type GrievanceDependencies struct {
	Store        GrievanceStore
	Assessor     *triage.Assessor
	Minter       TicketMinter
	Dispatcher   events.Dispatcher
	Recorder     TriageRecorder
	Logger       *zap.Logger
	MintAttempts int
	Clock        func() time.Time
}

// TrackedGrievance pairs a grievance with its department's contact details.
type TrackedGrievance struct {
	Grievance domain.Grievance
	Contact   domain.DepartmentContact
}

// NewGrievanceService constructs the service.
func NewGrievanceService(deps GrievanceDependencies) *GrievanceService {
	s := &GrievanceService{
		store:        deps.Store,
		assessor:     deps.Assessor,
		minter:       deps.Minter,
		dispatcher:   deps.Dispatcher,
		recorder:     deps.Recorder,
		logger:       deps.Logger,
		mintAttempts: deps.MintAttempts,
		now:          deps.Clock,
	}
	if s.assessor == nil {
		s.assessor = triage.NewAssessor(nil, triage.NewSentimentScorer(triage.DefaultLexicon()))
	}
	if s.minter == nil {
		s.minter = triage.NewTicketMinter()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.mintAttempts <= 0 {
		s.mintAttempts = DefaultMintAttempts
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Intake validates a submission, triages it and persists it under a freshly
// minted ticket id.
func (s *GrievanceService) Intake(ctx context.Context, submitter domain.SubmitterInfo, text string) (*domain.Grievance, error) {
	submitter = domain.SubmitterInfo{
		Name:  strings.TrimSpace(submitter.Name),
		Email: strings.TrimSpace(submitter.Email),
		Phone: strings.TrimSpace(submitter.Phone),
	}
	text = strings.TrimSpace(text)
	if err := validateSubmission(submitter, text); err != nil {
		return nil, err
	}

	assessment := s.assessor.Assess(text)
	submittedAt := s.now().UTC()

	for attempt := 1; attempt <= s.mintAttempts; attempt++ {
		g := &domain.Grievance{
			TicketID:            s.minter.Mint(),
			SubmitterName:       submitter.Name,
			SubmitterEmail:      submitter.Email,
			SubmitterPhone:      submitter.Phone,
			ComplaintText:       text,
			Category:            assessment.Category,
			Priority:            assessment.Priority,
			Department:          assessment.Department,
			Sentiment:           assessment.Sentiment,
			Keywords:            assessment.Keywords,
			EstimatedResolution: assessment.EstimatedResolution,
			Status:              domain.StatusPending,
			SubmittedAt:         submittedAt,
			UpdatedAt:           submittedAt,
		}

		inserted, err := s.store.Insert(ctx, g)
		if err != nil {
			return nil, errorutil.NewInternalError(err)
		}
		if inserted {
			s.logger.Info("grievance submitted",
				zap.String("ticket_id", g.TicketID),
				zap.String("category", string(g.Category)),
				zap.String("priority", string(g.Priority)),
				zap.String("classifier", s.assessor.ClassifierName()))
			if s.recorder != nil {
				s.recorder.RecordTriage(g.Category, g.Priority)
			}
			s.publishEvent(ctx, events.Event{
				Type:     events.EventGrievanceSubmitted,
				TicketID: g.TicketID,
				Actor:    events.Actor{Name: g.SubmitterName},
				Payload: events.GrievanceSubmittedPayload{
					SubmitterName:  g.SubmitterName,
					SubmitterEmail: g.SubmitterEmail,
					Category:       g.Category,
					Priority:       g.Priority,
					Department:     g.Department,
					Resolution:     g.EstimatedResolution.String(),
				},
			})
			return g, nil
		}

		s.logger.Warn("ticket id collision", zap.String("ticket_id", g.TicketID), zap.Int("attempt", attempt))
		if s.recorder != nil {
			s.recorder.RecordMintRetry()
		}
	}

	return nil, errorutil.NewInternalError(ErrTicketMintExhausted)
}

// Preview runs the triage pipeline without persisting anything.
func (s *GrievanceService) Preview(text string) (domain.Assessment, error) {
	text = strings.TrimSpace(text)
	if err := validateComplaintText(text); err != nil {
		return domain.Assessment{}, err
	}
	return s.assessor.Assess(text), nil
}

// Track looks up a grievance by ticket id.
func (s *GrievanceService) Track(ctx context.Context, ticketID string) (*TrackedGrievance, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, errorutil.NewValidationError("ticket id is required", nil)
	}
	g, found, err := s.store.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !found {
		return nil, errorutil.NewNotFound("grievance", map[string]any{"ticket_id": ticketID})
	}
	return &TrackedGrievance{Grievance: *g, Contact: triage.ContactFor(g.Department)}, nil
}

// List returns grievances most recent first.
func (s *GrievanceService) List(ctx context.Context, filter repository.ListFilter) ([]domain.Grievance, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errorutil.NewValidationError("invalid status filter", map[string]any{"status": filter.Status})
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return items, nil
}

// Search finds grievances whose ticket id or text contains query.
func (s *GrievanceService) Search(ctx context.Context, query string) ([]domain.Grievance, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errorutil.NewValidationError("search query is required", nil)
	}
	items, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return items, nil
}

// UpdateStatus moves a grievance along its lifecycle.
func (s *GrievanceService) UpdateStatus(ctx context.Context, ticketID string, status domain.Status) (*domain.Grievance, error) {
	if !status.Valid() {
		return nil, errorutil.NewValidationError("invalid status", map[string]any{
			"status":  status,
			"allowed": domain.Statuses,
		})
	}

	current, found, err := s.store.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !found {
		return nil, errorutil.NewNotFound("grievance", map[string]any{"ticket_id": ticketID})
	}
	oldStatus := current.Status

	updated, err := s.store.UpdateStatus(ctx, ticketID, status)
	switch {
	case errors.Is(err, store.ErrStatusRegression):
		return nil, errorutil.NewConflict("status cannot move backwards", map[string]any{
			"current":   oldStatus,
			"requested": status,
		})
	case err != nil:
		return nil, errorutil.NewInternalError(err)
	case !updated:
		return nil, errorutil.NewNotFound("grievance", map[string]any{"ticket_id": ticketID})
	}

	refreshed, found, err := s.store.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if !found {
		return nil, errorutil.NewNotFound("grievance", map[string]any{"ticket_id": ticketID})
	}

	if oldStatus != status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventGrievanceStatusChanged,
			TicketID: ticketID,
			Actor:    events.Actor{Type: domain.SubjectTypeAdmin},
			Payload: events.GrievanceStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}
	return refreshed, nil
}

// Statistics returns the aggregate dashboard view.
func (s *GrievanceService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return stats, nil
}

// DeleteAll removes every grievance. It reports how many were removed.
func (s *GrievanceService) DeleteAll(ctx context.Context) (int, error) {
	removed := 0
	if stats, err := s.store.Statistics(ctx); err == nil {
		removed = stats.Total
	}
	if err := s.store.DeleteAll(ctx); err != nil {
		return 0, errorutil.NewInternalError(err)
	}
	s.logger.Warn("all grievances deleted", zap.Int("removed", removed))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventGrievancesPurged,
		Actor:   events.Actor{Type: domain.SubjectTypeAdmin},
		Payload: events.GrievancesPurgedPayload{Removed: removed},
	})
	return removed, nil
}

func (s *GrievanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateSubmission(submitter domain.SubmitterInfo, text string) error {
	missing := []string{}
	if submitter.Name == "" {
		missing = append(missing, "name")
	}
	if submitter.Email == "" {
		missing = append(missing, "email")
	}
	if text == "" {
		missing = append(missing, "complaint_text")
	}
	if len(missing) > 0 {
		return errorutil.NewValidationError("required fields are missing", map[string]any{"missing": missing})
	}
	return validateComplaintText(text)
}

func validateComplaintText(text string) error {
	if text == "" {
		return errorutil.NewValidationError("complaint text is required", nil)
	}
	if n := utf8.RuneCountInString(text); n > MaxComplaintLength {
		return errorutil.NewValidationError("complaint text is too long", map[string]any{
			"max":    MaxComplaintLength,
			"length": n,
		})
	}
	return nil
}
