package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/pkg/postgres"
)

const incidentColumns = `
	incident_id,
	caller,
	opening_date,
	incident_state,
	owner,
	commander,
	address,
	type,
	priority,
	closing_date,
	assigned_vehicles,
	assign_history,
	incident_call_group,
	responders_group,
	updated_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	vehicles, history, err := marshalVehicles(incident)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO incidents (
			incident_id, caller, opening_date, incident_state, owner, commander,
			address, type, priority, closing_date, assigned_vehicles, assign_history,
			incident_call_group, responders_group
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING updated_at;
	`
	err = postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		incident.IncidentID,
		incident.Caller,
		incident.OpeningDate,
		incident.IncidentState,
		incident.Owner,
		incident.Commander,
		incident.Address,
		incident.Type,
		incident.Priority,
		incident.ClosingDate,
		vehicles,
		history,
		incident.IncidentCallGroup,
		incident.RespondersGroup,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("incident %s: %w", incident.IncidentID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его идентификатору. Внутри транзакции строка блокируется.
func (r *IncidentRepository) GetByID(ctx context.Context, incidentID string) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE incident_id = $1` + lockClause(ctx)

	incident, err := scanIncident(postgres.Conn(ctx, r.db).QueryRow(ctx, query, incidentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", incidentID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// FindActiveByCaller возвращает незакрытый инцидент звонящего или nil
func (r *IncidentRepository) FindActiveByCaller(ctx context.Context, caller string) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE caller = $1 AND incident_state <> 'Closed'
		ORDER BY opening_date DESC
		LIMIT 1` + lockClause(ctx)

	return r.findOne(ctx, query, caller)
}

// FindActiveByCommander возвращает незакрытый инцидент, которым командует пользователь, или nil
func (r *IncidentRepository) FindActiveByCommander(ctx context.Context, commander string) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE commander = $1 AND incident_state <> 'Closed'
		ORDER BY opening_date
		LIMIT 1` + lockClause(ctx)

	return r.findOne(ctx, query, commander)
}

func (r *IncidentRepository) findOne(ctx context.Context, query string, args ...any) (*models.Incident, error) {
	incident, err := scanIncident(postgres.Conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find incident: %w", err)
	}
	return incident, nil
}

// FindActiveByResponder возвращает незакрытые инциденты, где пользователь числится в экипаже машины
func (r *IncidentRepository) FindActiveByResponder(ctx context.Context, username string) ([]*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE incident_state <> 'Closed'
			AND assigned_vehicles @> jsonb_build_array(jsonb_build_object('usernames', jsonb_build_array($1::text)))
		ORDER BY opening_date` + lockClause(ctx)

	return r.query(ctx, query, username)
}

// List возвращает инциденты по фильтру в порядке открытия
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Caller != "" {
		args = append(args, filter.Caller)
		conditions = append(conditions, fmt.Sprintf("caller = $%d", len(args)))
	}
	if filter.Commander != "" {
		args = append(args, filter.Commander)
		conditions = append(conditions, fmt.Sprintf("commander = $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		conditions = append(conditions, fmt.Sprintf("incident_state = $%d", len(args)))
	}

	query := `SELECT` + incidentColumns + `
		FROM incidents`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY opening_date" + lockClause(ctx)

	return r.query(ctx, query, args...)
}

func (r *IncidentRepository) query(ctx context.Context, query string, args ...any) ([]*models.Incident, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// CountByCommanderAndState количество инцидентов командира в состоянии
func (r *IncidentRepository) CountByCommanderAndState(ctx context.Context, commander string, state models.IncidentState) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM incidents
		WHERE commander = $1 AND incident_state = $2;
	`
	var count int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, commander, state).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return count, nil
}

func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	vehicles, history, err := marshalVehicles(incident)
	if err != nil {
		return err
	}

	query := `
		UPDATE incidents SET
			incident_state = $1,
			owner = $2,
			commander = $3,
			address = $4,
			type = $5,
			priority = $6,
			closing_date = $7,
			assigned_vehicles = $8,
			assign_history = $9,
			incident_call_group = $10,
			responders_group = $11,
			updated_at = NOW()
		WHERE incident_id = $12
		RETURNING updated_at;
	`
	err = postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		incident.IncidentState,
		incident.Owner,
		incident.Commander,
		incident.Address,
		incident.Type,
		incident.Priority,
		incident.ClosingDate,
		vehicles,
		history,
		incident.IncidentCallGroup,
		incident.RespondersGroup,
		incident.IncidentID,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		// RETURNING без строк значит, что инцидента с таким id не существует
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident %s: %w", incident.IncidentID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update incident: %w", err)
	}
	return nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, incidentID string) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(incidentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.IncidentID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, incidentID string) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(incidentID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

func incidentCacheKey(incidentID string) string {
	return fmt.Sprintf("incident:%s", incidentID)
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var vehicles, history []byte
	err := row.Scan(
		&incident.IncidentID,
		&incident.Caller,
		&incident.OpeningDate,
		&incident.IncidentState,
		&incident.Owner,
		&incident.Commander,
		&incident.Address,
		&incident.Type,
		&incident.Priority,
		&incident.ClosingDate,
		&vehicles,
		&history,
		&incident.IncidentCallGroup,
		&incident.RespondersGroup,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(vehicles, &incident.AssignedVehicles); err != nil {
		return nil, fmt.Errorf("failed to decode assigned vehicles: %w", err)
	}
	if err := json.Unmarshal(history, &incident.AssignHistory); err != nil {
		return nil, fmt.Errorf("failed to decode assign history: %w", err)
	}
	return incident, nil
}

func marshalVehicles(incident *models.Incident) ([]byte, []byte, error) {
	vehicles := incident.AssignedVehicles
	if vehicles == nil {
		vehicles = []models.AssignedVehicle{}
	}
	history := incident.AssignHistory
	if history == nil {
		history = []models.AssignHistoryEntry{}
	}

	v, err := json.Marshal(vehicles)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode assigned vehicles: %w", err)
	}
	h, err := json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode assign history: %w", err)
	}
	return v, h, nil
}

// lockClause блокирует читаемые строки, если запрос идёт внутри транзакции
func lockClause(ctx context.Context) string {
	if postgres.InTransaction(ctx) {
		return "\n\t\tFOR UPDATE"
	}
	return ""
}
