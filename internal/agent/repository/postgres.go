package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
)

// PostgresRepository provides PostgreSQL-based agent storage operations
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// Ensure PostgresRepository implements Repository interface
var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new PostgreSQL repository from a DSN
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	repo := &PostgresRepository{pool: pool}

	if err := repo.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

func (r *PostgresRepository) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT DEFAULT '',
		task_prompt TEXT NOT NULL,
		schedule TEXT NOT NULL,
		custom_schedule TEXT DEFAULT '',
		category TEXT DEFAULT '',
		model TEXT DEFAULT '',
		complexity TEXT DEFAULT 'medium',
		is_active BOOLEAN DEFAULT TRUE,
		last_run TIMESTAMPTZ,
		next_run TIMESTAMPTZ,
		total_runs INTEGER DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_runs (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		result TEXT DEFAULT '',
		error_message TEXT DEFAULT '',
		model_used TEXT DEFAULT '',
		tokens_used INTEGER DEFAULT 0,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_agents_user_id ON agents(user_id);
	CREATE INDEX IF NOT EXISTS idx_agents_next_run ON agents(next_run) WHERE is_active;
	CREATE INDEX IF NOT EXISTS idx_agent_runs_agent_id ON agent_runs(agent_id);
	`

	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Agent operations

// CreateAgent creates a new agent
func (r *PostgresRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO agents (id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, agent.ID, agent.UserID, agent.Name, agent.Description, agent.TaskPrompt, agent.Schedule, agent.CustomSchedule, agent.Category, agent.Model, agent.Complexity, agent.IsActive, agent.LastRun, agent.NextRun, agent.TotalRuns, agent.CreatedAt, agent.UpdatedAt)

	return err
}

// GetAgent retrieves an agent by ID scoped to its owner
func (r *PostgresRepository) GetAgent(ctx context.Context, id, userID string) (*models.Agent, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE id = $1 AND user_id = $2
	`, id, userID)

	agent, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("agent", id)
	}
	return agent, err
}

// UpdateAgent updates an existing agent
func (r *PostgresRepository) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	agent.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE agents SET name = $1, description = $2, task_prompt = $3, schedule = $4, custom_schedule = $5, category = $6, model = $7, complexity = $8, is_active = $9, last_run = $10, next_run = $11, total_runs = $12, updated_at = $13
		WHERE id = $14 AND user_id = $15
	`, agent.Name, agent.Description, agent.TaskPrompt, agent.Schedule, agent.CustomSchedule, agent.Category, agent.Model, agent.Complexity, agent.IsActive, agent.LastRun, agent.NextRun, agent.TotalRuns, agent.UpdatedAt, agent.ID, agent.UserID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent", agent.ID)
	}
	return nil
}

// DeleteAgent deletes an agent; runs cascade via foreign key
func (r *PostgresRepository) DeleteAgent(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent", id)
	}
	return nil
}

// ListAgents returns all agents owned by a user, newest first
func (r *PostgresRepository) ListAgents(ctx context.Context, userID string) ([]*models.Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgentRows(rows)
}

// ListDue returns active agents across all owners whose next run is at or
// before the given time
func (r *PostgresRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE is_active AND next_run IS NOT NULL AND next_run <= $1
	`, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgentRows(rows)
}

// Run operations

// CreateRun creates a new agent run record
func (r *PostgresRepository) CreateRun(ctx context.Context, run *models.AgentRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO agent_runs (id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.AgentID, run.UserID, run.Status, run.Result, run.ErrorMessage, run.ModelUsed, run.TokensUsed, run.StartedAt, run.CompletedAt)

	return err
}

// GetRun retrieves a run by ID
func (r *PostgresRepository) GetRun(ctx context.Context, id string) (*models.AgentRun, error) {
	run := &models.AgentRun{}

	err := r.pool.QueryRow(ctx, `
		SELECT id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at
		FROM agent_runs WHERE id = $1
	`, id).Scan(&run.ID, &run.AgentID, &run.UserID, &run.Status, &run.Result, &run.ErrorMessage, &run.ModelUsed, &run.TokensUsed, &run.StartedAt, &run.CompletedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("agent run", id)
	}
	return run, err
}

// UpdateRun updates an existing run record
func (r *PostgresRepository) UpdateRun(ctx context.Context, run *models.AgentRun) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE agent_runs SET status = $1, result = $2, error_message = $3, model_used = $4, tokens_used = $5, completed_at = $6
		WHERE id = $7
	`, run.Status, run.Result, run.ErrorMessage, run.ModelUsed, run.TokensUsed, run.CompletedAt, run.ID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent run", run.ID)
	}
	return nil
}

// ListRuns returns runs for an agent owned by a user, newest first
func (r *PostgresRepository) ListRuns(ctx context.Context, agentID, userID string, limit int) ([]*models.AgentRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at
		FROM agent_runs WHERE agent_id = $1 AND user_id = $2 ORDER BY started_at DESC LIMIT $3
	`, agentID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.AgentRun
	for rows.Next() {
		run := &models.AgentRun{}
		err := rows.Scan(&run.ID, &run.AgentID, &run.UserID, &run.Status, &run.Result, &run.ErrorMessage, &run.ModelUsed, &run.TokensUsed, &run.StartedAt, &run.CompletedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}

func scanAgentRows(rows pgx.Rows) ([]*models.Agent, error) {
	var result []*models.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}
