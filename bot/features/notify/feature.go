package notify

import (
	"restock/models"
	"restock/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the /notify configuration commands
type Feature struct {
	session            *discordgo.Session
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new notify feature instance
func NewFeature(session *discordgo.Session, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		guildConfigService: guildConfigService,
	}
}

// HandleCommand routes notify subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "channel":
		f.handleSetChannel(s, i, models.TypeStock)
	case "weather-channel":
		f.handleSetChannel(s, i, models.TypeWeather)
	case "pet-channel":
		f.handleSetChannel(s, i, models.TypePet)
	case "role":
		f.handleSetRole(s, i)
	case "help":
		f.handleHelp(s, i)
	}
}
