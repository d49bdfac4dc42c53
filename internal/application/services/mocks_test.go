package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

type MockSpecialistRepository struct {
	mock.Mock
}

func (m *MockSpecialistRepository) All(ctx context.Context) ([]*entities.Specialist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Specialist), args.Error(1)
}

func (m *MockSpecialistRepository) GetByID(ctx context.Context, id string) (*entities.Specialist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Specialist), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	return m.Called(ctx, referral).Error(0)
}

func (m *MockReferralRepository) GetByID(ctx context.Context, id string) (*entities.Referral, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) List(ctx context.Context, limit int) ([]*entities.Referral, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) UpdateStatus(ctx context.Context, id string, status entities.ReferralStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ReferralEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ReferralEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.ReferralEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}

type MockSearchAnalyticsRepository struct {
	mock.Mock
}

func (m *MockSearchAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockSearchAnalyticsRepository) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SearchEvent), args.Error(1)
}

type recordingTracker struct {
	events []*entities.SearchEvent
}

func (r *recordingTracker) TrackSearch(_ context.Context, event *entities.SearchEvent) {
	r.events = append(r.events, event)
}
