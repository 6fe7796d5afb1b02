package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/careloop/symptom-intake/internal/domain/entities"
	"github.com/careloop/symptom-intake/internal/domain/providers"
	"github.com/careloop/symptom-intake/internal/domain/repositories"
)

// memoryCache is an in-process CacheProvider for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return nil, &providers.ErrCacheMiss{Key: key}
	}
	return data, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

// fakeNotifier counts sends and can be told to fail.
type fakeNotifier struct {
	mu       sync.Mutex
	sent     []providers.FollowUpMessage
	failWith error
}

func (f *fakeNotifier) SendFollowUp(_ context.Context, msg providers.FollowUpMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

func (f *fakeNotifier) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeEventBus collects published events.
type fakeEventBus struct {
	mu     sync.Mutex
	events []*entities.FollowUpEvent
}

func (f *fakeEventBus) Publish(_ context.Context, _ string, event *entities.FollowUpEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventBus) Subscribe(context.Context, string) (<-chan *entities.FollowUpEvent, error) {
	return nil, nil
}

func (f *fakeEventBus) Unsubscribe(context.Context, string) error { return nil }
func (f *fakeEventBus) Close() error                              { return nil }

func (f *fakeEventBus) eventTypes() []entities.FollowUpEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]entities.FollowUpEventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	return types
}

// fakeNotificationLog collects audit records.
type fakeNotificationLog struct {
	mu      sync.Mutex
	records []*entities.FollowUpNotification
}

func (f *fakeNotificationLog) Create(_ context.Context, n *entities.FollowUpNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *n
	f.records = append(f.records, &copied)
	return nil
}

func (f *fakeNotificationLog) Update(_ context.Context, n *entities.FollowUpNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.records {
		if existing.ID == n.ID {
			copied := *n
			f.records[i] = &copied
		}
	}
	return nil
}

func (f *fakeNotificationLog) lastStatus() entities.NotificationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return ""
	}
	return f.records[len(f.records)-1].Status
}

// Mocks

type MockConsultationRepository struct {
	mock.Mock
}

func (m *MockConsultationRepository) Create(ctx context.Context, consultation *entities.Consultation) error {
	args := m.Called(ctx, consultation)
	return args.Error(0)
}

func (m *MockConsultationRepository) GetByID(ctx context.Context, id string) (*entities.Consultation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Consultation), args.Error(1)
}

func (m *MockConsultationRepository) ListByDevice(ctx context.Context, deviceID string, filter repositories.ConsultationFilter) ([]*entities.Consultation, error) {
	args := m.Called(ctx, deviceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Consultation), args.Error(1)
}

func (m *MockConsultationRepository) UpdateRecovery(ctx context.Context, id string, recovery entities.RecoveryStatus) error {
	args := m.Called(ctx, id, recovery)
	return args.Error(0)
}

type MockAdviceProvider struct {
	mock.Mock
}

func (m *MockAdviceProvider) GenerateAdvice(ctx context.Context, symptoms string) (*entities.Advice, error) {
	args := m.Called(ctx, symptoms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Advice), args.Error(1)
}
