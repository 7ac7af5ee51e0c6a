package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// SQLiteRepository provides SQLite-based agent storage operations
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure SQLiteRepository implements Repository interface
var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &SQLiteRepository{db: db}

	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

// initSchema creates the database tables if they don't exist
func (r *SQLiteRepository) initSchema() error {
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
		is_active INTEGER DEFAULT 1,
		last_run DATETIME,
		next_run DATETIME,
		total_runs INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_runs (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		result TEXT DEFAULT '',
		error_message TEXT DEFAULT '',
		model_used TEXT DEFAULT '',
		tokens_used INTEGER DEFAULT 0,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		FOREIGN KEY (agent_id) REFERENCES agents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_agents_user_id ON agents(user_id);
	CREATE INDEX IF NOT EXISTS idx_agents_next_run ON agents(next_run) WHERE is_active = 1;
	CREATE INDEX IF NOT EXISTS idx_agent_runs_agent_id ON agent_runs(agent_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Agent operations

// CreateAgent creates a new agent
func (r *SQLiteRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, agent.ID, agent.UserID, agent.Name, agent.Description, agent.TaskPrompt, agent.Schedule, agent.CustomSchedule, agent.Category, agent.Model, agent.Complexity, agent.IsActive, agent.LastRun, agent.NextRun, agent.TotalRuns, agent.CreatedAt, agent.UpdatedAt)

	return err
}

// GetAgent retrieves an agent by ID scoped to its owner
func (r *SQLiteRepository) GetAgent(ctx context.Context, id, userID string) (*models.Agent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE id = ? AND user_id = ?
	`, id, userID)

	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("agent", id)
	}
	return agent, err
}

// UpdateAgent updates an existing agent
func (r *SQLiteRepository) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	agent.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE agents SET name = ?, description = ?, task_prompt = ?, schedule = ?, custom_schedule = ?, category = ?, model = ?, complexity = ?, is_active = ?, last_run = ?, next_run = ?, total_runs = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, agent.Name, agent.Description, agent.TaskPrompt, agent.Schedule, agent.CustomSchedule, agent.Category, agent.Model, agent.Complexity, agent.IsActive, agent.LastRun, agent.NextRun, agent.TotalRuns, agent.UpdatedAt, agent.ID, agent.UserID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("agent", agent.ID)
	}
	return nil
}

// DeleteAgent deletes an agent; runs cascade via foreign key
func (r *SQLiteRepository) DeleteAgent(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("agent", id)
	}
	return nil
}

// ListAgents returns all agents owned by a user, newest first
func (r *SQLiteRepository) ListAgents(ctx context.Context, userID string) ([]*models.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// ListDue returns active agents across all owners whose next run is at or
// before the given time
func (r *SQLiteRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, task_prompt, schedule, custom_schedule, category, model, complexity, is_active, last_run, next_run, total_runs, created_at, updated_at
		FROM agents WHERE is_active = 1 AND next_run IS NOT NULL AND next_run <= ?
	`, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// Run operations

// CreateRun creates a new agent run record
func (r *SQLiteRepository) CreateRun(ctx context.Context, run *models.AgentRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agent_runs (id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.AgentID, run.UserID, run.Status, run.Result, run.ErrorMessage, run.ModelUsed, run.TokensUsed, run.StartedAt, run.CompletedAt)

	return err
}

// GetRun retrieves a run by ID
func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (*models.AgentRun, error) {
	run := &models.AgentRun{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at
		FROM agent_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.AgentID, &run.UserID, &run.Status, &run.Result, &run.ErrorMessage, &run.ModelUsed, &run.TokensUsed, &run.StartedAt, &run.CompletedAt)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("agent run", id)
	}
	return run, err
}

// UpdateRun updates an existing run record
func (r *SQLiteRepository) UpdateRun(ctx context.Context, run *models.AgentRun) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE agent_runs SET status = ?, result = ?, error_message = ?, model_used = ?, tokens_used = ?, completed_at = ?
		WHERE id = ?
	`, run.Status, run.Result, run.ErrorMessage, run.ModelUsed, run.TokensUsed, run.CompletedAt, run.ID)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("agent run", run.ID)
	}
	return nil
}

// ListRuns returns runs for an agent owned by a user, newest first
func (r *SQLiteRepository) ListRuns(ctx context.Context, agentID, userID string, limit int) ([]*models.AgentRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, agent_id, user_id, status, result, error_message, model_used, tokens_used, started_at, completed_at
		FROM agent_runs WHERE agent_id = ? AND user_id = ? ORDER BY started_at DESC LIMIT ?
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

// scanner abstracts sql.Row and sql.Rows for agent scanning
type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(row scanner) (*models.Agent, error) {
	agent := &models.Agent{}
	var schedule, complexity string

	err := row.Scan(&agent.ID, &agent.UserID, &agent.Name, &agent.Description, &agent.TaskPrompt, &schedule, &agent.CustomSchedule, &agent.Category, &agent.Model, &complexity, &agent.IsActive, &agent.LastRun, &agent.NextRun, &agent.TotalRuns, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		return nil, err
	}

	agent.Schedule = v1.Schedule(schedule)
	agent.Complexity = v1.Complexity(complexity)
	return agent, nil
}

func scanAgents(rows *sql.Rows) ([]*models.Agent, error) {
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
