package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
)

// MemoryRepository provides in-memory agent storage operations. Stored and
// returned values are detached copies, so callers mutating a fetched agent
// cannot change the store without going through an update call, matching the
// SQL implementations.
type MemoryRepository struct {
	agents map[string]*models.Agent
	runs   map[string]*models.AgentRun
	mu     sync.RWMutex
}

// Ensure MemoryRepository implements Repository interface
var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new in-memory agent repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		agents: make(map[string]*models.Agent),
		runs:   make(map[string]*models.AgentRun),
	}
}

// Close is a no-op for in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}

func cloneAgent(agent *models.Agent) *models.Agent {
	c := *agent
	return &c
}

func cloneRun(run *models.AgentRun) *models.AgentRun {
	c := *run
	return &c
}

// Agent operations

// CreateAgent creates a new agent
func (r *MemoryRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	r.agents[agent.ID] = cloneAgent(agent)
	return nil
}

// GetAgent retrieves an agent by ID scoped to its owner
func (r *MemoryRepository) GetAgent(ctx context.Context, id, userID string) (*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[id]
	if !ok || agent.UserID != userID {
		return nil, apperrors.NotFound("agent", id)
	}
	return cloneAgent(agent), nil
}

// UpdateAgent updates an existing agent
func (r *MemoryRepository) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.agents[agent.ID]
	if !ok || existing.UserID != agent.UserID {
		return apperrors.NotFound("agent", agent.ID)
	}
	agent.UpdatedAt = time.Now().UTC()
	r.agents[agent.ID] = cloneAgent(agent)
	return nil
}

// DeleteAgent deletes an agent and its runs
func (r *MemoryRepository) DeleteAgent(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[id]
	if !ok || agent.UserID != userID {
		return apperrors.NotFound("agent", id)
	}
	delete(r.agents, id)
	for runID, run := range r.runs {
		if run.AgentID == id {
			delete(r.runs, runID)
		}
	}
	return nil
}

// ListAgents returns all agents owned by a user, newest first
func (r *MemoryRepository) ListAgents(ctx context.Context, userID string) ([]*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Agent
	for _, agent := range r.agents {
		if agent.UserID == userID {
			result = append(result, cloneAgent(agent))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// ListDue returns active agents across all owners whose next run is at or
// before the given time
func (r *MemoryRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Agent
	for _, agent := range r.agents {
		if agent.IsActive && agent.NextRun != nil && !agent.NextRun.After(now) {
			result = append(result, cloneAgent(agent))
		}
	}
	return result, nil
}

// Run operations

// CreateRun creates a new agent run record
func (r *MemoryRepository) CreateRun(ctx context.Context, run *models.AgentRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	r.runs[run.ID] = cloneRun(run)
	return nil
}

// GetRun retrieves a run by ID
func (r *MemoryRepository) GetRun(ctx context.Context, id string) (*models.AgentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, apperrors.NotFound("agent run", id)
	}
	return cloneRun(run), nil
}

// UpdateRun updates an existing run record
func (r *MemoryRepository) UpdateRun(ctx context.Context, run *models.AgentRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; !ok {
		return apperrors.NotFound("agent run", run.ID)
	}
	r.runs[run.ID] = cloneRun(run)
	return nil
}

// ListRuns returns runs for an agent owned by a user, newest first
func (r *MemoryRepository) ListRuns(ctx context.Context, agentID, userID string, limit int) ([]*models.AgentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.AgentRun
	for _, run := range r.runs {
		if run.AgentID == agentID && run.UserID == userID {
			result = append(result, cloneRun(run))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
