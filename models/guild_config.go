package models

import (
	"time"
)

// GuildConfig holds the per-guild notification settings
type GuildConfig struct {
	GuildID          int64            `db:"guild_id"`
	ChannelID        *int64           `db:"channel_id"`         // default / stock channel
	WeatherChannelID *int64           `db:"weather_channel_id"` // optional, falls back to ChannelID
	PetChannelID     *int64           `db:"pet_channel_id"`     // optional, falls back to ChannelID
	RoleBindings     map[string]int64 `db:"role_bindings"`      // normalized keyword -> role ID
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// ChannelFor resolves the target channel for a notification type.
// Weather and pet notifications fall back to the default channel when their
// dedicated channel is not configured. Returns nil if no usable channel is set.
func (c *GuildConfig) ChannelFor(t NotificationType) *int64 {
	switch t {
	case TypeWeather:
		if c.WeatherChannelID != nil {
			return c.WeatherChannelID
		}
	case TypePet:
		if c.PetChannelID != nil {
			return c.PetChannelID
		}
	}
	return c.ChannelID
}
