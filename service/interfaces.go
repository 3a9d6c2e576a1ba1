package service

import (
	"context"

	"restock/events"
	"restock/models"
)

// GuildConfigRepository defines the interface for guild config data access
type GuildConfigRepository interface {
	// GetOrCreate retrieves a guild's config or creates an empty one if not found
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Update saves the given config for its guild
	Update(ctx context.Context, config *models.GuildConfig) error

	// List returns the configs of all known guilds
	List(ctx context.Context) ([]*models.GuildConfig, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a transactional boundary for operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// GuildConfigRepository returns the guild config repository for this unit of work
	GuildConfigRepository() GuildConfigRepository

	// EventBus returns the transactional event bus for this unit of work
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates new UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ChannelSender is the capability the router needs from the Discord client:
// deliver one message with an optional mention prefix to a channel.
type ChannelSender interface {
	SendEmbed(ctx context.Context, channelID int64, content string, embed *models.Embed) error
}

// GuildConfigService defines the interface for guild configuration operations
type GuildConfigService interface {
	// GetOrCreateConfig retrieves an existing config or creates an empty one
	GetOrCreateConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// UpdateChannel sets the channel for the given notification type.
	// Only the touched field changes; other settings are preserved.
	UpdateChannel(ctx context.Context, guildID int64, notificationType models.NotificationType, channelID int64) error

	// MergeRoleBindings normalizes the given keywords and merges them into the
	// guild's existing bindings, returning the resulting binding set
	MergeRoleBindings(ctx context.Context, guildID int64, bindings map[string]int64) (map[string]int64, error)
}

// NotificationRouter applies one inbound notification against every known
// guild config and performs delivery
type NotificationRouter interface {
	Route(ctx context.Context, notification *models.InboundNotification) (*models.DeliveryReport, error)
}
