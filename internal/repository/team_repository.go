package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sanitation-service/internal/domain"
)

// TeamRepository manages persistence for response teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByName(ctx context.Context, name string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	SetStatus(ctx context.Context, name string, status domain.TeamStatus) error
	IncrementActiveTasks(ctx context.Context, name string) error
	CompleteTask(ctx context.Context, name string) error
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (name, status, members)
        VALUES ($1,$2,$3)
        RETURNING active_tasks, completed, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		team.Name,
		team.Status,
		team.Members,
	).Scan(&team.ActiveTasks, &team.Completed, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	const query = `
        SELECT name, status, active_tasks, completed, members, created_at, updated_at
        FROM teams WHERE name=$1`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&team.Name,
		&team.Status,
		&team.ActiveTasks,
		&team.Completed,
		&team.Members,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	const query = `
        SELECT name, status, active_tasks, completed, members, created_at, updated_at
        FROM teams ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.Name, &team.Status, &team.ActiveTasks, &team.Completed, &team.Members, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) SetStatus(ctx context.Context, name string, status domain.TeamStatus) error {
	const query = `UPDATE teams SET status=$1, updated_at=NOW() WHERE name=$2`
	cmd, err := r.pool.Exec(ctx, query, status, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) IncrementActiveTasks(ctx context.Context, name string) error {
	const query = `UPDATE teams SET active_tasks=active_tasks+1, updated_at=NOW() WHERE name=$1`
	cmd, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CompleteTask moves one unit of work from active to completed. The active
// counter is floored at zero so a resolve that skipped assignment cannot
// drive it negative.
func (r *teamRepository) CompleteTask(ctx context.Context, name string) error {
	const query = `
        UPDATE teams SET active_tasks=GREATEST(active_tasks-1, 0), completed=completed+1, updated_at=NOW()
        WHERE name=$1`
	cmd, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
