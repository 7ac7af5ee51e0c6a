package repository

import (
	"context"
	"time"

	"github.com/arcbrain/arcbrain/internal/agent/models"
)

// Repository defines the interface for agent and run storage operations.
// Every agent operation is scoped by owner except ListDue, which is a
// system-wide sweep used by the scheduler.
type Repository interface {
	// Agent operations
	CreateAgent(ctx context.Context, agent *models.Agent) error
	GetAgent(ctx context.Context, id, userID string) (*models.Agent, error)
	UpdateAgent(ctx context.Context, agent *models.Agent) error
	DeleteAgent(ctx context.Context, id, userID string) error
	ListAgents(ctx context.Context, userID string) ([]*models.Agent, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Agent, error)

	// Run operations
	CreateRun(ctx context.Context, run *models.AgentRun) error
	GetRun(ctx context.Context, id string) (*models.AgentRun, error)
	UpdateRun(ctx context.Context, run *models.AgentRun) error
	ListRuns(ctx context.Context, agentID, userID string, limit int) ([]*models.AgentRun, error)

	// Close closes the repository (for database connections)
	Close() error
}
