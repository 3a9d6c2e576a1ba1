package notify

import (
	"context"
	"fmt"

	"restock/bot/common"
	"restock/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var channelLabels = map[models.NotificationType]string{
	models.TypeStock:   "stock",
	models.TypeWeather: "weather",
	models.TypePet:     "pet",
}

// handleSetChannel handles /notify channel, weather-channel and pet-channel
func (f *Feature) handleSetChannel(s *discordgo.Session, i *discordgo.InteractionCreate, notificationType models.NotificationType) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "❌ You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "❌ Failed to process command")
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "❌ A channel is required")
		return
	}

	channel := options[0].ChannelValue(s)
	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID: %v", err)
		common.RespondWithError(s, i, "❌ Invalid channel selected")
		return
	}

	ctx := context.Background()

	if err := f.guildConfigService.UpdateChannel(ctx, guildID, notificationType, channelID); err != nil {
		log.Errorf("Failed to update %s channel for guild %d: %v", channelLabels[notificationType], guildID, err)
		common.RespondWithError(s, i, "❌ Failed to update settings")
		return
	}

	message := fmt.Sprintf("%s notifications will now be sent to %s",
		channelLabels[notificationType], common.ChannelMention(channelID))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleSetRole handles /notify role: bind a keyword to a role to ping
func (f *Feature) handleSetRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "❌ You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "❌ Failed to process command")
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) < 2 {
		common.RespondWithError(s, i, "❌ A keyword and a role are required")
		return
	}

	keyword := options[0].StringValue()
	roleID, err := common.ParseSnowflake(options[1].RoleValue(s, "").ID)
	if err != nil {
		log.Errorf("Failed to parse role ID: %v", err)
		common.RespondWithError(s, i, "❌ Invalid role selected")
		return
	}

	ctx := context.Background()

	bindings, err := f.guildConfigService.MergeRoleBindings(ctx, guildID, map[string]int64{keyword: roleID})
	if err != nil {
		log.Errorf("Failed to update role bindings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, fmt.Sprintf("❌ Could not bind **%s**: pick a keyword with letters or digits in it", keyword))
		return
	}

	message := fmt.Sprintf("Members with %s will be pinged when **%s** shows up in a notification (%d keywords configured)",
		common.RoleMention(roleID), keyword, len(bindings))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}

// handleHelp handles /notify help
func (f *Feature) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "🛍️ Notification commands",
		Color: 0x58D68D,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "/notify channel",
				Value: "Set the channel for stock notifications (also the fallback for every other type)",
			},
			{
				Name:  "/notify weather-channel",
				Value: "Set a dedicated channel for weather notifications",
			},
			{
				Name:  "/notify pet-channel",
				Value: "Set a dedicated channel for pet and egg notifications",
			},
			{
				Name:  "/notify role",
				Value: "Ping a role whenever a keyword (e.g. `Apple Seeds`) appears in a notification. Repeat to add more keywords.",
			},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Failed to respond to interaction: %v", err)
	}
}
