package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"restock/events"
	"restock/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidPayload is returned when a notification carries no searchable
// content at all. No deliveries are attempted in that case.
var ErrInvalidPayload = errors.New("notification payload has no embed content")

// routerService implements the NotificationRouter interface
type routerService struct {
	uowFactory  UnitOfWorkFactory
	sender      ChannelSender
	eventBus    *events.Bus
	maxParallel int
}

// NewNotificationRouter creates a new notification router. maxParallel bounds
// how many guild sends run concurrently within one routing pass.
func NewNotificationRouter(uowFactory UnitOfWorkFactory, sender ChannelSender, eventBus *events.Bus, maxParallel int) NotificationRouter {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &routerService{
		uowFactory:  uowFactory,
		sender:      sender,
		eventBus:    eventBus,
		maxParallel: maxParallel,
	}
}

// Route applies one inbound notification against every known guild config.
// Each guild is processed independently: a failed send for one guild is
// recorded in the report and never aborts the rest of the pass.
func (s *routerService) Route(ctx context.Context, notification *models.InboundNotification) (*models.DeliveryReport, error) {
	if notification == nil || !notification.Embed.HasContent() {
		return nil, ErrInvalidPayload
	}

	configs, err := s.listConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild configs: %w", err)
	}

	// Normalized once per pass; every guild matches against the same lines
	lines := SearchableLines(&notification.Embed)

	results := make([]models.DeliveryResult, len(configs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, config := range configs {
		g.Go(func() error {
			results[i] = s.deliver(gctx, config, notification, lines)
			return nil
		})
	}
	g.Wait()

	report := &models.DeliveryReport{Results: results}

	if s.eventBus != nil {
		s.eventBus.Emit(ctx, events.NotificationRoutedEvent{
			NotificationType: notification.Type,
			Delivered:        report.Delivered(),
			Skipped:          report.Skipped(),
			Failed:           report.Failed(),
		})
	}

	return report, nil
}

// listConfigs reads a snapshot of all guild configs for one routing pass
func (s *routerService) listConfigs(ctx context.Context) ([]*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.GuildConfigRepository().List(ctx)
}

// deliver attempts the single send for one guild and records its outcome
func (s *routerService) deliver(ctx context.Context, config *models.GuildConfig, notification *models.InboundNotification, lines []string) models.DeliveryResult {
	channelID := config.ChannelFor(notification.Type)
	if channelID == nil {
		log.WithFields(log.Fields{
			"guild_id": config.GuildID,
			"type":     notification.Type,
		}).Debug("No channel configured for notification type, skipping guild")
		return models.DeliveryResult{
			GuildID: config.GuildID,
			Outcome: models.OutcomeSkippedNoChannel,
		}
	}

	roleIDs := MatchRoles(config.RoleBindings, lines)

	if err := s.sender.SendEmbed(ctx, *channelID, mentionContent(roleIDs), &notification.Embed); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   config.GuildID,
			"channel_id": *channelID,
		}).Warn("Failed to deliver notification to channel")
		return models.DeliveryResult{
			GuildID:   config.GuildID,
			ChannelID: *channelID,
			RoleIDs:   roleIDs,
			Outcome:   models.OutcomeFailed,
			Err:       err.Error(),
		}
	}

	log.WithFields(log.Fields{
		"guild_id":   config.GuildID,
		"channel_id": *channelID,
		"mentions":   len(roleIDs),
	}).Info("Delivered notification to channel")

	return models.DeliveryResult{
		GuildID:   config.GuildID,
		ChannelID: *channelID,
		RoleIDs:   roleIDs,
		Outcome:   models.OutcomeDelivered,
	}
}

// MatchRoles returns the role IDs of every binding whose normalized keyword is
// a substring of any searchable line. Each role appears at most once; bindings
// are scanned in sorted keyword order so the result is deterministic.
func MatchRoles(bindings map[string]int64, lines []string) []int64 {
	if len(bindings) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(bindings))
	for keyword := range bindings {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	var matched []int64
	seen := make(map[int64]bool)
	for _, keyword := range keywords {
		normalized := Normalize(keyword)
		if normalized == "" {
			continue
		}
		for _, line := range lines {
			if strings.Contains(line, normalized) {
				if roleID := bindings[keyword]; !seen[roleID] {
					seen[roleID] = true
					matched = append(matched, roleID)
				}
				break
			}
		}
	}
	return matched
}

// mentionContent builds the space-joined role mention prefix for a send.
// Empty when no bindings matched; the embed itself is still delivered.
func mentionContent(roleIDs []int64) string {
	if len(roleIDs) == 0 {
		return ""
	}
	mentions := make([]string, len(roleIDs))
	for i, roleID := range roleIDs {
		mentions[i] = fmt.Sprintf("<@&%d>", roleID)
	}
	return strings.Join(mentions, " ")
}
