package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
)

const userColumns = `
	id,
	username,
	password_hash,
	role,
	COALESCE(assigned_city, ''),
	COALESCE(assigned_car, ''),
	COALESCE(assigned_truck, ''),
	assigned_vehicle_timestamp,
	created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, assigned_city)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at;
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.AssignedCity,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Username, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = $1;
	`
	return r.getOne(ctx, query, id)
}

// GetByUsername возвращает пользователя. Внутри транзакции строка блокируется.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE username = $1` + lockClause(ctx)

	return r.getOne(ctx, query, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %v: %w", arg, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) ListByRoles(ctx context.Context, roles []models.Role, city string) ([]*models.User, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}

	query := `SELECT` + userColumns + `
		FROM users
		WHERE role = ANY($1)
			AND ($2 = '' OR assigned_city = $2)
		ORDER BY created_at, username;
	`
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, names, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			role = $1,
			assigned_city = NULLIF($2, ''),
			assigned_car = NULLIF($3, ''),
			assigned_truck = NULLIF($4, ''),
			assigned_vehicle_timestamp = $5
		WHERE id = $6;
	`
	cmdTag, err := postgres.Conn(ctx, r.db).Exec(ctx, query,
		user.Role,
		user.AssignedCity,
		user.AssignedCar,
		user.AssignedTruck,
		user.AssignedVehicleTimestamp,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.Username, models.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.AssignedCity,
		&user.AssignedCar,
		&user.AssignedTruck,
		&user.AssignedVehicleTimestamp,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
