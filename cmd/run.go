package cmd

import (
	"context"
	"fmt"
	"time"

	"restock/bot"
	"restock/config"
	"restock/database"
	"restock/events"
	"restock/repository"
	"restock/service"
	"restock/webhook"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting restock bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	guildConfigService := service.NewGuildConfigService(uowFactory)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, guildConfigService, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// The bot doubles as the channel sender for the router
	router := service.NewNotificationRouter(uowFactory, discordBot, eventBus, cfg.MaxConcurrentSends)

	// Start the webhook ingress; Start blocks until ctx is cancelled
	server := webhook.NewServer(webhook.Config{
		Port:           cfg.Port,
		Token:          cfg.WebhookToken,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Environment:    cfg.Environment,
	}, router)

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	serverErr := server.Start(ctx)

	// Cleanup resources
	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give in-flight deliveries time to settle before dropping the pool
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return serverErr
}

// subscribeLogging attaches log handlers for the domain events so routing
// outcomes and settings changes show up in the process logs
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeNotificationRouted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.NotificationRoutedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"type":      e.NotificationType,
			"delivered": e.Delivered,
			"skipped":   e.Skipped,
			"failed":    e.Failed,
		}).Info("Notification routing pass completed")
	})

	bus.Subscribe(events.EventTypeConfigUpdated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ConfigUpdatedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"guild_id": e.GuildID,
			"field":    e.Field,
		}).Info("Guild notification settings updated")
	})
}
