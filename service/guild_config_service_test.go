package service

import (
	"context"
	"testing"

	"restock/events"
	"restock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigService_UpdateChannel_PartialUpdate(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockGuildConfigRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockRepo, mockPublisher)
	mockFactory := new(MockUnitOfWorkFactory)

	existing := &models.GuildConfig{
		GuildID:      42,
		ChannelID:    int64Ptr(100),
		RoleBindings: map[string]int64{"apple": 900},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockRepo.On("GetOrCreate", ctx, int64(42)).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		// Only the weather channel changes; default channel and bindings survive
		return c.GuildID == 42 &&
			c.WeatherChannelID != nil && *c.WeatherChannelID == 555 &&
			c.ChannelID != nil && *c.ChannelID == 100 &&
			c.RoleBindings["apple"] == 900
	})).Return(nil)
	mockPublisher.On("Publish", events.ConfigUpdatedEvent{GuildID: 42, Field: "weather_channel"}).Return()

	service := NewGuildConfigService(mockFactory)
	err := service.UpdateChannel(ctx, 42, models.TypeWeather, 555)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestGuildConfigService_UpdateChannel_UnknownTypeTargetsDefault(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockGuildConfigRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockRepo, mockPublisher)
	mockFactory := new(MockUnitOfWorkFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockRepo.On("GetOrCreate", ctx, int64(42)).Return(&models.GuildConfig{GuildID: 42}, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return c.ChannelID != nil && *c.ChannelID == 777
	})).Return(nil)
	mockPublisher.On("Publish", events.ConfigUpdatedEvent{GuildID: 42, Field: "channel"}).Return()

	service := NewGuildConfigService(mockFactory)
	err := service.UpdateChannel(ctx, 42, models.NotificationType("mystery"), 777)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGuildConfigService_MergeRoleBindings(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockGuildConfigRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockRepo, mockPublisher)
	mockFactory := new(MockUnitOfWorkFactory)

	existing := &models.GuildConfig{
		GuildID:      42,
		RoleBindings: map[string]int64{"apple": 900},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockRepo.On("GetOrCreate", ctx, int64(42)).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockPublisher.On("Publish", events.ConfigUpdatedEvent{GuildID: 42, Field: "role_bindings"}).Return()

	service := NewGuildConfigService(mockFactory)

	// Keywords are normalized before storage; existing bindings are kept
	merged, err := service.MergeRoleBindings(ctx, 42, map[string]int64{"Bamboo Seeds": 901})
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"apple": 900, "bambooseeds": 901}, merged)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestGuildConfigService_MergeRoleBindings_RejectsEmptyKeyword(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewGuildConfigService(mockFactory)

	_, err := service.MergeRoleBindings(ctx, 42, map[string]int64{"!!!": 901})

	assert.Error(t, err)
	// Rejected before any transaction is opened
	mockFactory.AssertNotCalled(t, "Create")
}

func TestGuildConfigService_MergeRoleBindings_NilExistingMap(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockGuildConfigRepository)
	mockPublisher := new(MockEventPublisher)
	mockUoW := new(MockUnitOfWork)
	mockUoW.SetRepositories(mockRepo, mockPublisher)
	mockFactory := new(MockUnitOfWorkFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockRepo.On("GetOrCreate", ctx, int64(42)).Return(&models.GuildConfig{GuildID: 42}, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	service := NewGuildConfigService(mockFactory)

	merged, err := service.MergeRoleBindings(ctx, 42, map[string]int64{"apple": 900})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"apple": 900}, merged)
}
