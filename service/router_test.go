package service

import (
	"context"
	"errors"
	"testing"

	"restock/events"
	"restock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

// newTestRouter wires a router over mocked persistence returning the given configs
func newTestRouter(configs []*models.GuildConfig, sender ChannelSender) NotificationRouter {
	repo := new(MockGuildConfigRepository)
	repo.On("List", mock.Anything).Return(configs, nil)

	uow := new(MockUnitOfWork)
	uow.SetRepositories(repo, nil)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)

	return NewNotificationRouter(factory, sender, events.NewBus(), 4)
}

func TestRoute_InvalidPayload(t *testing.T) {
	ctx := context.Background()

	sender := new(MockChannelSender)
	factory := new(MockUnitOfWorkFactory)
	router := NewNotificationRouter(factory, sender, events.NewBus(), 4)

	report, err := router.Route(ctx, &models.InboundNotification{Type: models.TypeStock})

	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Nil(t, report)
	// Short-circuits before the per-guild loop: no configs read, no sends
	factory.AssertNotCalled(t, "Create")
	sender.AssertNotCalled(t, "SendEmbed")
}

func TestRoute_StockScenario(t *testing.T) {
	ctx := context.Background()

	// Two guilds: G1 has a binding matching the payload, G2 has none
	configs := []*models.GuildConfig{
		{GuildID: 1, ChannelID: int64Ptr(100), RoleBindings: map[string]int64{"apple": 900}},
		{GuildID: 2, ChannelID: int64Ptr(200), RoleBindings: map[string]int64{}},
	}

	notification := &models.InboundNotification{
		Type: models.TypeStock,
		Embed: models.Embed{
			Description: "Apple Seeds : 5\nBamboo Seeds : 2",
		},
	}

	sender := new(MockChannelSender)
	sender.On("SendEmbed", mock.Anything, int64(100), "<@&900>", &notification.Embed).Return(nil)
	sender.On("SendEmbed", mock.Anything, int64(200), "", &notification.Embed).Return(nil)

	router := newTestRouter(configs, sender)

	report, err := router.Route(ctx, notification)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Delivered())
	assert.Zero(t, report.Skipped())
	assert.Zero(t, report.Failed())
	sender.AssertExpectations(t)
}

func TestRoute_WeatherFallsBackToDefaultChannel(t *testing.T) {
	ctx := context.Background()

	configs := []*models.GuildConfig{
		{GuildID: 1, ChannelID: int64Ptr(100)}, // no weather channel set
	}

	notification := &models.InboundNotification{
		Type:  models.TypeWeather,
		Embed: models.Embed{Description: "Thunderstorm incoming"},
	}

	sender := new(MockChannelSender)
	sender.On("SendEmbed", mock.Anything, int64(100), "", mock.Anything).Return(nil)

	router := newTestRouter(configs, sender)

	report, err := router.Route(ctx, notification)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Delivered())
	sender.AssertExpectations(t)
}

func TestRoute_DedicatedChannelPreferred(t *testing.T) {
	ctx := context.Background()

	configs := []*models.GuildConfig{
		{GuildID: 1, ChannelID: int64Ptr(100), PetChannelID: int64Ptr(300)},
	}

	notification := &models.InboundNotification{
		Type:  models.TypePet,
		Embed: models.Embed{Description: "A Dragonfly hatched"},
	}

	sender := new(MockChannelSender)
	sender.On("SendEmbed", mock.Anything, int64(300), "", mock.Anything).Return(nil)

	router := newTestRouter(configs, sender)

	_, err := router.Route(ctx, notification)
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestRoute_NoChannelSkipsGuild(t *testing.T) {
	ctx := context.Background()

	configs := []*models.GuildConfig{
		{GuildID: 1, RoleBindings: map[string]int64{"apple": 900}}, // no channels at all
	}

	notification := &models.InboundNotification{
		Type:  models.TypeStock,
		Embed: models.Embed{Description: "Apple Seeds : 5"},
	}

	sender := new(MockChannelSender)
	router := newTestRouter(configs, sender)

	report, err := router.Route(ctx, notification)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, models.OutcomeSkippedNoChannel, report.Results[0].Outcome)
	assert.Equal(t, 1, report.Skipped())
	sender.AssertNotCalled(t, "SendEmbed")
}

func TestRoute_FailureDoesNotBlockOtherGuilds(t *testing.T) {
	ctx := context.Background()

	configs := []*models.GuildConfig{
		{GuildID: 1, ChannelID: int64Ptr(100)},
		{GuildID: 2, ChannelID: int64Ptr(200)},
	}

	notification := &models.InboundNotification{
		Type:  models.TypeStock,
		Embed: models.Embed{Description: "Apple Seeds : 5"},
	}

	sender := new(MockChannelSender)
	sender.On("SendEmbed", mock.Anything, int64(100), mock.Anything, mock.Anything).
		Return(errors.New("missing permissions"))
	sender.On("SendEmbed", mock.Anything, int64(200), mock.Anything, mock.Anything).Return(nil)

	router := newTestRouter(configs, sender)

	report, err := router.Route(ctx, notification)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Delivered())
	assert.Equal(t, 1, report.Failed())

	// Outcomes stay aligned with the config snapshot order
	assert.Equal(t, models.OutcomeFailed, report.Results[0].Outcome)
	assert.Contains(t, report.Results[0].Err, "missing permissions")
	assert.Equal(t, models.OutcomeDelivered, report.Results[1].Outcome)
	sender.AssertExpectations(t)
}

func TestMatchRoles_DedupAcrossLines(t *testing.T) {
	// Both keywords bind the same role and both match; the role appears once
	bindings := map[string]int64{
		"apple":  900,
		"seeds":  900,
		"bamboo": 901,
	}
	lines := []string{"appleseeds", "bambooseeds"}

	assert.Equal(t, []int64{900, 901}, MatchRoles(bindings, lines))
}

func TestMatchRoles_DeterministicOrder(t *testing.T) {
	bindings := map[string]int64{
		"bamboo": 901,
		"apple":  900,
	}
	lines := []string{"appleseeds", "bambooseeds"}

	// Bindings scan in sorted keyword order regardless of map iteration order
	for i := 0; i < 20; i++ {
		assert.Equal(t, []int64{900, 901}, MatchRoles(bindings, lines))
	}
}

func TestMatchRoles_NoMatches(t *testing.T) {
	bindings := map[string]int64{"orange": 900}
	lines := []string{"appleseeds"}

	assert.Empty(t, MatchRoles(bindings, lines))
	assert.Empty(t, MatchRoles(nil, lines))
}

func TestMatchRoles_KeywordNormalizedBeforeMatching(t *testing.T) {
	// An admin-typed keyword with case, spacing and punctuation still matches
	bindings := map[string]int64{"Apple Seeds!": 900}
	lines := []string{"appleseeds"}

	assert.Equal(t, []int64{900}, MatchRoles(bindings, lines))
}

func TestMentionContent(t *testing.T) {
	assert.Equal(t, "", mentionContent(nil))
	assert.Equal(t, "<@&900>", mentionContent([]int64{900}))
	assert.Equal(t, "<@&900> <@&901>", mentionContent([]int64{900, 901}))
}
