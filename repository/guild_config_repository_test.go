package repository

import (
	"context"
	"testing"

	"restock/events"
	"restock/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildConfigRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates empty config on first access", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, 1001)
		require.NoError(t, err)
		require.NotNil(t, config)

		assert.Equal(t, int64(1001), config.GuildID)
		assert.Nil(t, config.ChannelID)
		assert.Nil(t, config.WeatherChannelID)
		assert.Nil(t, config.PetChannelID)
		assert.Empty(t, config.RoleBindings)
		assert.False(t, config.CreatedAt.IsZero())
	})

	t.Run("second access returns the same row", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, 1002)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, 1002)
		require.NoError(t, err)

		assert.Equal(t, first.GuildID, second.GuildID)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})
}

func TestGuildConfigRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("round-trips channels and bindings", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, 2001)
		require.NoError(t, err)

		config.ChannelID = testutil.Int64Ptr(100)
		config.WeatherChannelID = testutil.Int64Ptr(200)
		config.RoleBindings = map[string]int64{"apple": 900, "bambooseeds": 901}

		require.NoError(t, repo.Update(ctx, config))

		loaded, err := repo.GetOrCreate(ctx, 2001)
		require.NoError(t, err)

		require.NotNil(t, loaded.ChannelID)
		assert.Equal(t, int64(100), *loaded.ChannelID)
		require.NotNil(t, loaded.WeatherChannelID)
		assert.Equal(t, int64(200), *loaded.WeatherChannelID)
		assert.Nil(t, loaded.PetChannelID)
		assert.Equal(t, map[string]int64{"apple": 900, "bambooseeds": 901}, loaded.RoleBindings)
	})

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		config := testutil.CreateTestGuildConfigWithBindings(2002, 100, map[string]int64{"apple": 900})
		_, err := repo.GetOrCreate(ctx, 2002)
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, config))

		// Touch only the pet channel
		config.PetChannelID = testutil.Int64Ptr(300)
		require.NoError(t, repo.Update(ctx, config))

		loaded, err := repo.GetOrCreate(ctx, 2002)
		require.NoError(t, err)

		require.NotNil(t, loaded.ChannelID)
		assert.Equal(t, int64(100), *loaded.ChannelID)
		require.NotNil(t, loaded.PetChannelID)
		assert.Equal(t, int64(300), *loaded.PetChannelID)
		assert.Equal(t, map[string]int64{"apple": 900}, loaded.RoleBindings)
	})

	t.Run("unknown guild returns error", func(t *testing.T) {
		config := testutil.CreateTestGuildConfig(9999, 100)
		err := repo.Update(ctx, config)
		assert.Error(t, err)
	})
}

func TestGuildConfigRepository_List(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildConfigRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		configs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, configs)
	})

	t.Run("returns all guilds", func(t *testing.T) {
		for _, guildID := range []int64{3001, 3002, 3003} {
			_, err := repo.GetOrCreate(ctx, guildID)
			require.NoError(t, err)
		}

		configs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, configs, 3)

		assert.Equal(t, int64(3001), configs[0].GuildID)
		assert.Equal(t, int64(3002), configs[1].GuildID)
		assert.Equal(t, int64(3003), configs[2].GuildID)
	})
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	t.Run("committed changes are visible", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		config, err := uow.GuildConfigRepository().GetOrCreate(ctx, 4001)
		require.NoError(t, err)
		config.ChannelID = testutil.Int64Ptr(100)
		require.NoError(t, uow.GuildConfigRepository().Update(ctx, config))
		require.NoError(t, uow.Commit())

		repo := NewGuildConfigRepository(testDB.DB)
		loaded, err := repo.GetOrCreate(ctx, 4001)
		require.NoError(t, err)
		require.NotNil(t, loaded.ChannelID)
		assert.Equal(t, int64(100), *loaded.ChannelID)
	})

	t.Run("rolled back changes are discarded", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		_, err := uow.GuildConfigRepository().GetOrCreate(ctx, 4002)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback())

		repo := NewGuildConfigRepository(testDB.DB)
		configs, err := repo.List(ctx)
		require.NoError(t, err)
		for _, c := range configs {
			assert.NotEqual(t, int64(4002), c.GuildID)
		}
	})
}
