package mocks

import (
	"context"
	"errors"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
)

// MockGrievanceStore is a mock implementation of the GrievanceStore interface
// for testing the service layer.
type MockGrievanceStore struct {
	InsertFunc       func(ctx context.Context, g *domain.Grievance) (bool, error)
	GetAllFunc       func(ctx context.Context, limit int) ([]domain.Grievance, error)
	ListFunc         func(ctx context.Context, filter repository.ListFilter) ([]domain.Grievance, error)
	GetByTicketFunc  func(ctx context.Context, ticketID string) (*domain.Grievance, bool, error)
	UpdateStatusFunc func(ctx context.Context, ticketID string, status domain.Status) (bool, error)
	StatisticsFunc   func(ctx context.Context) (*domain.Statistics, error)
	SearchFunc       func(ctx context.Context, query string) ([]domain.Grievance, error)
	DeleteAllFunc    func(ctx context.Context) error
}

// Insert implements the GrievanceStore interface
func (m *MockGrievanceStore) Insert(ctx context.Context, g *domain.Grievance) (bool, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, g)
	}
	return false, errors.New("InsertFunc not implemented")
}

// GetAll implements the GrievanceStore interface
func (m *MockGrievanceStore) GetAll(ctx context.Context, limit int) ([]domain.Grievance, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx, limit)
	}
	return nil, errors.New("GetAllFunc not implemented")
}

// List implements the GrievanceStore interface
func (m *MockGrievanceStore) List(ctx context.Context, filter repository.ListFilter) ([]domain.Grievance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, errors.New("ListFunc not implemented")
}

// GetByTicket implements the GrievanceStore interface
func (m *MockGrievanceStore) GetByTicket(ctx context.Context, ticketID string) (*domain.Grievance, bool, error) {
	if m.GetByTicketFunc != nil {
		return m.GetByTicketFunc(ctx, ticketID)
	}
	return nil, false, errors.New("GetByTicketFunc not implemented")
}

// UpdateStatus implements the GrievanceStore interface
func (m *MockGrievanceStore) UpdateStatus(ctx context.Context, ticketID string, status domain.Status) (bool, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, ticketID, status)
	}
	return false, errors.New("UpdateStatusFunc not implemented")
}

// Statistics implements the GrievanceStore interface
func (m *MockGrievanceStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx)
	}
	return nil, errors.New("StatisticsFunc not implemented")
}

// Search implements the GrievanceStore interface
func (m *MockGrievanceStore) Search(ctx context.Context, query string) ([]domain.Grievance, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, errors.New("SearchFunc not implemented")
}

// DeleteAll implements the GrievanceStore interface
func (m *MockGrievanceStore) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return errors.New("DeleteAllFunc not implemented")
}

// SequenceMinter hands out the configured ids in order, then repeats the last.
type SequenceMinter struct {
	IDs   []string
	Calls int
}

// Mint implements the TicketMinter interface
func (m *SequenceMinter) Mint() string {
	if len(m.IDs) == 0 {
		return ""
	}
	i := m.Calls
	if i >= len(m.IDs) {
		i = len(m.IDs) - 1
	}
	m.Calls++
	return m.IDs[i]
}
