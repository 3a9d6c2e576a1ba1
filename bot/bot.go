package bot

import (
	"context"
	"fmt"
	"strconv"

	"restock/bot/features/notify"
	"restock/events"
	"restock/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

// Bot manages the Discord session and the notification feature module
type Bot struct {
	config             Config
	session            *discordgo.Session
	guildConfigService service.GuildConfigService
	eventBus           *events.Bus

	notify *notify.Feature

	stopStatusWorker func()
}

// New creates a new bot instance, opens the gateway connection and registers
// the slash commands
func New(config Config, guildConfigService service.GuildConfigService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:             config,
		session:            dg,
		guildConfigService: guildConfigService,
		eventBus:           eventBus,
	}

	bot.notify = notify.NewFeature(dg, guildConfigService)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleGuildCreate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopStatusWorker = bot.StartStatusWorker(context.Background())

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopStatusWorker != nil {
		b.stopStatusWorker()
	}
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "notify":
		b.notify.HandleCommand(s, i)
	}
}

// handleGuildCreate seeds a config row when the bot joins a new guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	config, err := b.guildConfigService.GetOrCreateConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to track new guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	log.Infof("Bot joined guild: %s (ID: %d, channel: %v, bindings: %d)",
		g.Name, config.GuildID, config.ChannelID, len(config.RoleBindings))
}
