package bot

import (
	"context"
	"strconv"

	"restock/models"

	"github.com/bwmarrin/discordgo"
)

// SendEmbed implements service.ChannelSender: one message per guild, the
// mention prefix as content and the payload embed forwarded unmodified.
func (b *Bot) SendEmbed(ctx context.Context, channelID int64, content string, embed *models.Embed) error {
	message := &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{toMessageEmbed(embed)},
	}

	_, err := b.session.ChannelMessageSendComplex(
		strconv.FormatInt(channelID, 10),
		message,
		discordgo.WithContext(ctx),
	)
	return err
}

// toMessageEmbed converts the transport-neutral embed into a discordgo embed
func toMessageEmbed(embed *models.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}

	for _, field := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}

	return out
}
