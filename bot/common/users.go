package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ParseSnowflake converts a Discord ID string to int64
func ParseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// ChannelMention returns a Discord mention string for a channel
func ChannelMention(channelID int64) string {
	return "<#" + strconv.FormatInt(channelID, 10) + ">"
}

// RoleMention returns a Discord mention string for a role
func RoleMention(roleID int64) string {
	return "<@&" + strconv.FormatInt(roleID, 10) + ">"
}

// IsUserAdmin checks if a user has administrator permissions in a guild
func IsUserAdmin(s *discordgo.Session, guildID, userID string) bool {
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		log.Errorf("Failed to get guild member: %v", err)
		return false
	}

	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}
