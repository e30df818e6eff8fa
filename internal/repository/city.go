package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
)

type CityRepository struct {
	db *pgxpool.Pool
}

func NewCityRepository(db *pgxpool.Pool) service.CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	query := `INSERT INTO cities (name) VALUES ($1) RETURNING created_at;`
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, city.Name).Scan(&city.CreatedAt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("city %s: %w", city.Name, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create city: %w", err)
	}
	return nil
}

func (r *CityRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cities WHERE name = $1);`
	var exists bool
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check city: %w", err)
	}
	return exists, nil
}

func (r *CityRepository) List(ctx context.Context) ([]*models.City, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, `SELECT name, created_at FROM cities ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]*models.City, 0)
	for rows.Next() {
		city := &models.City{}
		if err := rows.Scan(&city.Name, &city.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return cities, nil
}

func (r *CityRepository) Delete(ctx context.Context, name string) error {
	cmdTag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM cities WHERE name = $1;`, name)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("city %s: %w", name, models.ErrNotFound)
	}
	return nil
}
