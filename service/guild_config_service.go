package service

import (
	"context"
	"fmt"

	"restock/events"
	"restock/models"
)

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{
		uowFactory: uowFactory,
	}
}

// GetOrCreateConfig retrieves a guild's config or creates an empty one if not found
func (s *guildConfigService) GetOrCreateConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	// Commit the transaction (in case a new config was created)
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return config, nil
}

// UpdateChannel sets the channel used for the given notification type,
// leaving every other setting untouched
func (s *guildConfigService) UpdateChannel(ctx context.Context, guildID int64, notificationType models.NotificationType, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}

	var field string
	switch notificationType {
	case models.TypeWeather:
		config.WeatherChannelID = &channelID
		field = "weather_channel"
	case models.TypePet:
		config.PetChannelID = &channelID
		field = "pet_channel"
	default:
		config.ChannelID = &channelID
		field = "channel"
	}

	if err := uow.GuildConfigRepository().Update(ctx, config); err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	uow.EventBus().Publish(events.ConfigUpdatedEvent{
		GuildID: guildID,
		Field:   field,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MergeRoleBindings normalizes the given keywords and upserts them into the
// guild's existing bindings. Existing bindings for other keywords are kept.
func (s *guildConfigService) MergeRoleBindings(ctx context.Context, guildID int64, bindings map[string]int64) (map[string]int64, error) {
	normalized := make(map[string]int64, len(bindings))
	for keyword, roleID := range bindings {
		key := Normalize(keyword)
		if key == "" {
			return nil, fmt.Errorf("keyword %q is empty after normalization", keyword)
		}
		normalized[key] = roleID
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if config.RoleBindings == nil {
		config.RoleBindings = make(map[string]int64)
	}
	for key, roleID := range normalized {
		config.RoleBindings[key] = roleID
	}

	if err := uow.GuildConfigRepository().Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to update guild config: %w", err)
	}

	uow.EventBus().Publish(events.ConfigUpdatedEvent{
		GuildID: guildID,
		Field:   "role_bindings",
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return config.RoleBindings, nil
}
