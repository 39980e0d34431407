package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-jobsearch-backend/internal/domain"
	"go-jobsearch-backend/pkg/anthropic"
)

// Mock Repositories

type MockOpportunityRepo struct {
	mock.Mock
}

func (m *MockOpportunityRepo) Create(ctx context.Context, opp *domain.Opportunity) error {
	return m.Called(ctx, opp).Error(0)
}

func (m *MockOpportunityRepo) GetByID(ctx context.Context, id int64) (*domain.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepo) List(ctx context.Context, filter domain.OpportunityFilter) ([]domain.Opportunity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepo) Search(ctx context.Context, query string) ([]domain.Opportunity, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepo) Update(ctx context.Context, id int64, patch domain.OpportunityPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockOpportunityRepo) ListUnscored(ctx context.Context) ([]domain.Opportunity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepo) ListStale(ctx context.Context, cutoff time.Time) ([]domain.Opportunity, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepo) TodayQueue(ctx context.Context) ([]domain.TodayQueueRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TodayQueueRow), args.Error(1)
}

func (m *MockOpportunityRepo) PipelineSummary(ctx context.Context) ([]domain.StageCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageCount), args.Error(1)
}

type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepo) List(ctx context.Context) ([]domain.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepo) ListByOpportunity(ctx context.Context, opportunityID int64) ([]domain.Contact, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepo) Update(ctx context.Context, id int64, patch domain.ContactPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockContactRepo) FollowupCandidates(ctx context.Context, day3, day7 time.Time) ([]domain.FollowupItem, error) {
	args := m.Called(ctx, day3, day7)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FollowupItem), args.Error(1)
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityRepo) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Error(1)
}

func (m *MockActivityRepo) ListByOpportunity(ctx context.Context, opportunityID int64) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLogEntry), args.Error(1)
}

// MockLLMClient stands in for the model service client.
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (anthropic.Completion, error) {
	args := m.Called(ctx, systemPrompt, userMessage, maxTokens)
	return args.Get(0).(anthropic.Completion), args.Error(1)
}

func (m *MockLLMClient) Model() string {
	return m.Called().String(0)
}

// Shared test helpers

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func todayLocal() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
