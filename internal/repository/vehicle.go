package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
)

const vehicleColumns = `
	type,
	name,
	usernames,
	COALESCE(assigned_city, ''),
	assigned_incident,
	created_at`

type VehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) service.VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (type, name, usernames, assigned_city, assigned_incident)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING created_at;
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		vehicle.Type,
		vehicle.Name,
		usernamesOrEmpty(vehicle.Usernames),
		vehicle.AssignedCity,
		vehicle.AssignedIncident,
	).Scan(&vehicle.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("vehicle %s: %w", vehicle.Key(), models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByName возвращает машину. Внутри транзакции строка блокируется.
func (r *VehicleRepository) GetByName(ctx context.Context, vehicleType models.VehicleType, name string) (*models.Vehicle, error) {
	query := `SELECT` + vehicleColumns + `
		FROM vehicles
		WHERE type = $1 AND name = $2` + lockClause(ctx)

	vehicle, err := scanVehicle(postgres.Conn(ctx, r.db).QueryRow(ctx, query, vehicleType, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vehicle %s: %w", models.VehicleKey(vehicleType, name), models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *VehicleRepository) List(ctx context.Context, vehicleType models.VehicleType) ([]*models.Vehicle, error) {
	query := `SELECT` + vehicleColumns + `
		FROM vehicles
		WHERE type = $1
		ORDER BY name;
	`
	return r.query(ctx, query, vehicleType)
}

func (r *VehicleRepository) ListByCity(ctx context.Context, city string) ([]*models.Vehicle, error) {
	query := `SELECT` + vehicleColumns + `
		FROM vehicles
		WHERE assigned_city = $1
		ORDER BY type, name` + lockClause(ctx)

	return r.query(ctx, query, city)
}

func (r *VehicleRepository) query(ctx context.Context, query string, args ...any) ([]*models.Vehicle, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*models.Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return vehicles, nil
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles SET
			usernames = $1,
			assigned_city = NULLIF($2, ''),
			assigned_incident = $3
		WHERE type = $4 AND name = $5;
	`
	cmdTag, err := postgres.Conn(ctx, r.db).Exec(ctx, query,
		usernamesOrEmpty(vehicle.Usernames),
		vehicle.AssignedCity,
		vehicle.AssignedIncident,
		vehicle.Type,
		vehicle.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicle.Key(), models.ErrNotFound)
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, vehicleType models.VehicleType, name string) error {
	query := `DELETE FROM vehicles WHERE type = $1 AND name = $2;`
	cmdTag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, vehicleType, name)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s: %w", models.VehicleKey(vehicleType, name), models.ErrNotFound)
	}
	return nil
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := row.Scan(
		&vehicle.Type,
		&vehicle.Name,
		&vehicle.Usernames,
		&vehicle.AssignedCity,
		&vehicle.AssignedIncident,
		&vehicle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vehicle.Usernames == nil {
		vehicle.Usernames = []string{}
	}
	return vehicle, nil
}

func usernamesOrEmpty(usernames []string) []string {
	if usernames == nil {
		return []string{}
	}
	return usernames
}
