package service

import (
	"context"

	"restock/events"
	"restock/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) List(ctx context.Context) ([]*models.GuildConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildConfig), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	guildConfigRepo GuildConfigRepository
	eventPublisher  EventPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(guildConfigRepo GuildConfigRepository, eventPublisher EventPublisher) {
	m.guildConfigRepo = guildConfigRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockChannelSender is a mock implementation of ChannelSender
type MockChannelSender struct {
	mock.Mock
}

func (m *MockChannelSender) SendEmbed(ctx context.Context, channelID int64, content string, embed *models.Embed) error {
	args := m.Called(ctx, channelID, content, embed)
	return args.Error(0)
}
