package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
)

type ChannelRepository struct {
	db *pgxpool.Pool
}

func NewChannelRepository(db *pgxpool.Pool) service.ChannelRepository {
	return &ChannelRepository{db: db}
}

// Create создает канал, id и время создания проставляет бд
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (name, owner, user_ids)
		VALUES ($1, $2, $3)
		RETURNING id, closed, created_at;
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		channel.Name,
		channel.Owner,
		usernamesOrEmpty(channel.UserIDs),
	).Scan(&channel.ID, &channel.Closed, &channel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

func (r *ChannelRepository) UpdateUsers(ctx context.Context, id uuid.UUID, userIDs []string) error {
	query := `UPDATE channels SET user_ids = $1 WHERE id = $2;`
	cmdTag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, usernamesOrEmpty(userIDs), id)
	if err != nil {
		return fmt.Errorf("failed to update channel users: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("channel %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Close помечает канал закрытым. Отсутствующий канал не считается ошибкой.
func (r *ChannelRepository) Close(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE channels SET closed = TRUE WHERE id = $1;`
	if _, err := postgres.Conn(ctx, r.db).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return nil
}
