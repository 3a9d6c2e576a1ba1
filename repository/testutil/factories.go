package testutil

import (
	"restock/models"
)

// Int64Ptr returns a pointer to the given channel or role ID
func Int64Ptr(v int64) *int64 {
	return &v
}

// CreateTestGuildConfig creates a guild config with a default channel set
func CreateTestGuildConfig(guildID, channelID int64) *models.GuildConfig {
	return &models.GuildConfig{
		GuildID:      guildID,
		ChannelID:    Int64Ptr(channelID),
		RoleBindings: map[string]int64{},
	}
}

// CreateTestGuildConfigWithBindings creates a guild config with role bindings
func CreateTestGuildConfigWithBindings(guildID, channelID int64, bindings map[string]int64) *models.GuildConfig {
	config := CreateTestGuildConfig(guildID, channelID)
	config.RoleBindings = bindings
	return config
}
