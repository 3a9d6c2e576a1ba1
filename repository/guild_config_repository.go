package repository

import (
	"context"
	"fmt"

	"restock/database"
	"restock/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable abstracts over a connection pool and a transaction
type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

// GetOrCreate retrieves a guild's config or creates an empty one if not found
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT guild_id, channel_id, weather_channel_id, pet_channel_id, role_bindings, created_at, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	config, err := r.scanConfig(r.q.QueryRow(ctx, query, guildID))
	if err == nil {
		return config, nil
	}

	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}

	// Not found: create an empty config. A config with no channels is valid,
	// it simply can't receive deliveries yet.
	insertQuery := `
		INSERT INTO guild_configs (guild_id, role_bindings)
		VALUES ($1, '{}')
		RETURNING guild_id, channel_id, weather_channel_id, pet_channel_id, role_bindings, created_at, updated_at
	`

	config, err = r.scanConfig(r.q.QueryRow(ctx, insertQuery, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to create guild config for guild %d: %w", guildID, err)
	}

	return config, nil
}

// Update saves the given config for its guild
func (r *GuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	query := `
		UPDATE guild_configs
		SET channel_id = $2,
		    weather_channel_id = $3,
		    pet_channel_id = $4,
		    role_bindings = $5,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	bindings := config.RoleBindings
	if bindings == nil {
		bindings = map[string]int64{}
	}

	result, err := r.q.Exec(ctx, query,
		config.GuildID,
		config.ChannelID,
		config.WeatherChannelID,
		config.PetChannelID,
		bindings,
	)

	if err != nil {
		return fmt.Errorf("failed to update guild config for guild %d: %w", config.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", config.GuildID)
	}

	return nil
}

// List returns the configs of all known guilds
func (r *GuildConfigRepository) List(ctx context.Context) ([]*models.GuildConfig, error) {
	query := `
		SELECT guild_id, channel_id, weather_channel_id, pet_channel_id, role_bindings, created_at, updated_at
		FROM guild_configs
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.GuildConfig
	for rows.Next() {
		config, err := r.scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild config: %w", err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild configs: %w", err)
	}

	return configs, nil
}

func (r *GuildConfigRepository) scanConfig(row pgx.Row) (*models.GuildConfig, error) {
	var config models.GuildConfig
	err := row.Scan(
		&config.GuildID,
		&config.ChannelID,
		&config.WeatherChannelID,
		&config.PetChannelID,
		&config.RoleBindings,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &config, nil
}
