// Package service provides the agent engine façade: agent CRUD, run
// execution, and the run lifecycle state machine.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/agent/executor"
	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/agent/repository"
	"github.com/arcbrain/arcbrain/internal/agent/schedule"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	"github.com/arcbrain/arcbrain/internal/common/tracing"
	"github.com/arcbrain/arcbrain/internal/events"
	"github.com/arcbrain/arcbrain/internal/events/bus"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

const eventSource = "agent-engine"

// CreateAgentRequest contains parameters for creating an agent
type CreateAgentRequest struct {
	Name           string
	Description    string
	TaskPrompt     string
	Schedule       v1.Schedule
	CustomSchedule string
	Category       string
	Model          string
	Complexity     v1.Complexity
}

// UpdateAgentRequest contains partial updates for an agent. Nil fields are
// left unchanged.
type UpdateAgentRequest struct {
	Name           *string
	Description    *string
	TaskPrompt     *string
	Schedule       *v1.Schedule
	CustomSchedule *string
	Category       *string
	Model          *string
	Complexity     *v1.Complexity
}

// Service provides agent business logic
type Service struct {
	repo     repository.Repository
	executor *executor.Executor
	eventBus bus.EventBus
	logger   *logger.Logger
	now      func() time.Time

	// Guards against concurrent runs of the same agent
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// NewService creates a new agent service
func NewService(repo repository.Repository, exec *executor.Executor, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		executor: exec,
		eventBus: eventBus,
		logger:   log,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// CreateAgent creates a new agent for a user. New agents start active with
// zero runs and a freshly computed next-run timestamp.
func (s *Service) CreateAgent(ctx context.Context, userID string, req *CreateAgentRequest) (*models.Agent, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("user ID is required")
	}
	if req.Name == "" {
		return nil, apperrors.ValidationError("name", "name is required")
	}
	if req.TaskPrompt == "" {
		return nil, apperrors.ValidationError("task_prompt", "task prompt is required")
	}
	if req.Schedule == "" {
		return nil, apperrors.ValidationError("schedule", "schedule is required")
	}

	complexity := req.Complexity
	if complexity == "" {
		complexity = v1.ComplexityMedium
	}

	now := s.now().UTC()
	nextRun := schedule.NextRun(req.Schedule, req.CustomSchedule, now)

	agent := &models.Agent{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		TaskPrompt:     req.TaskPrompt,
		Schedule:       req.Schedule,
		CustomSchedule: req.CustomSchedule,
		Category:       req.Category,
		Model:          req.Model,
		Complexity:     complexity,
		IsActive:       true,
		NextRun:        &nextRun,
		TotalRuns:      0,
	}

	if err := s.repo.CreateAgent(ctx, agent); err != nil {
		return nil, apperrors.Wrap(err, "failed to create agent")
	}

	s.logger.Info("agent created",
		zap.String("agent_id", agent.ID),
		zap.String("user_id", userID),
		zap.String("schedule", string(agent.Schedule)))

	s.publish(ctx, events.SubjectAgents, events.AgentCreated, map[string]any{
		"agent_id": agent.ID,
		"user_id":  userID,
	})

	return agent, nil
}

// GetAgents returns all agents owned by a user, newest first
func (s *Service) GetAgents(ctx context.Context, userID string) ([]*models.Agent, error) {
	return s.repo.ListAgents(ctx, userID)
}

// GetAgent returns a single agent scoped to its owner
func (s *Service) GetAgent(ctx context.Context, agentID, userID string) (*models.Agent, error) {
	return s.repo.GetAgent(ctx, agentID, userID)
}

// UpdateAgent applies a partial update. Changing the schedule recomputes the
// next-run timestamp as part of the same update.
func (s *Service) UpdateAgent(ctx context.Context, agentID, userID string, req *UpdateAgentRequest) (*models.Agent, error) {
	agent, err := s.repo.GetAgent(ctx, agentID, userID)
	if err != nil {
		return nil, err
	}

	scheduleChanged := false
	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Description != nil {
		agent.Description = *req.Description
	}
	if req.TaskPrompt != nil {
		agent.TaskPrompt = *req.TaskPrompt
	}
	if req.Schedule != nil {
		agent.Schedule = *req.Schedule
		scheduleChanged = true
	}
	if req.CustomSchedule != nil {
		agent.CustomSchedule = *req.CustomSchedule
		scheduleChanged = true
	}
	if req.Category != nil {
		agent.Category = *req.Category
	}
	if req.Model != nil {
		agent.Model = *req.Model
	}
	if req.Complexity != nil {
		agent.Complexity = *req.Complexity
	}

	if scheduleChanged {
		nextRun := schedule.NextRun(agent.Schedule, agent.CustomSchedule, s.now().UTC())
		agent.NextRun = &nextRun
	}

	if err := s.repo.UpdateAgent(ctx, agent); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectAgents, events.AgentUpdated, map[string]any{
		"agent_id": agent.ID,
		"user_id":  userID,
	})

	return agent, nil
}

// ToggleAgent activates or deactivates an agent
func (s *Service) ToggleAgent(ctx context.Context, agentID, userID string, isActive bool) (*models.Agent, error) {
	agent, err := s.repo.GetAgent(ctx, agentID, userID)
	if err != nil {
		return nil, err
	}

	agent.IsActive = isActive
	if err := s.repo.UpdateAgent(ctx, agent); err != nil {
		return nil, err
	}

	s.logger.Info("agent toggled",
		zap.String("agent_id", agentID),
		zap.Bool("is_active", isActive))

	s.publish(ctx, events.SubjectAgents, events.AgentToggled, map[string]any{
		"agent_id":  agent.ID,
		"user_id":   userID,
		"is_active": isActive,
	})

	return agent, nil
}

// DeleteAgent removes an agent and its run history
func (s *Service) DeleteAgent(ctx context.Context, agentID, userID string) error {
	if err := s.repo.DeleteAgent(ctx, agentID, userID); err != nil {
		return err
	}

	s.publish(ctx, events.SubjectAgents, events.AgentDeleted, map[string]any{
		"agent_id": agentID,
		"user_id":  userID,
	})

	return nil
}

// GetAgentRuns returns the run history for an agent, newest first
func (s *Service) GetAgentRuns(ctx context.Context, agentID, userID string, limit int) ([]*models.AgentRun, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRuns(ctx, agentID, userID, limit)
}

// GetDueAgents returns all active agents whose next run is at or before now,
// across all owners
func (s *Service) GetDueAgents(ctx context.Context) ([]*models.Agent, error) {
	return s.repo.ListDue(ctx, s.now().UTC())
}

// RunAgent executes an agent's task once and records the outcome. A run
// transitions exactly once from running to completed or failed; a failed run
// is a first-class record, not an error returned to the caller. Only missing
// or inactive agents, a run already in flight, or a failure to create the
// run record surface as errors.
func (s *Service) RunAgent(ctx context.Context, agentID, userID string) (*models.AgentRun, error) {
	if !s.tryAcquire(agentID) {
		return nil, apperrors.Conflict(fmt.Sprintf("agent %s already has a run in progress", agentID))
	}
	defer s.release(agentID)

	ctx, span := tracing.TraceAgentRun(ctx, agentID, userID)
	defer span.End()

	agent, err := s.repo.GetAgent(ctx, agentID, userID)
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, apperrors.Inactive("agent", agentID)
	}

	startedAt := s.now().UTC()
	run := &models.AgentRun{
		AgentID:   agentID,
		UserID:    userID,
		Status:    v1.RunStatusRunning,
		StartedAt: startedAt,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, apperrors.Wrap(err, "failed to create agent run")
	}

	s.logger.Info("agent run started",
		zap.String("agent_id", agentID),
		zap.String("run_id", run.ID))

	s.publishRunEvent(ctx, events.RunStarted, run)

	result, execErr := s.executeSafely(ctx, agent)

	completedAt := s.now().UTC()
	run.CompletedAt = &completedAt
	if execErr != nil {
		run.Status = v1.RunStatusFailed
		run.ErrorMessage = execErr.Error()
		s.logger.Error("agent run failed",
			zap.String("agent_id", agentID),
			zap.String("run_id", run.ID),
			zap.Error(execErr))
	} else {
		run.Status = v1.RunStatusCompleted
		run.Result = result.Text
		run.ModelUsed = result.ModelUsed
		run.TokensUsed = result.TokensUsed
	}

	tracing.TraceRunOutcome(span, string(run.Status), execErr)

	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return nil, apperrors.Wrap(err, "failed to record run outcome")
	}

	// Agent stats are best effort: the run's terminal state is authoritative
	// and is never rolled back if this update fails.
	s.updateAgentStats(ctx, agent, completedAt)

	if run.Status == v1.RunStatusCompleted {
		s.publishRunEvent(ctx, events.RunCompleted, run)
	} else {
		s.publishRunEvent(ctx, events.RunFailed, run)
	}

	return run, nil
}

// executeSafely runs the executor and converts panics inside handlers into
// ordinary errors so they become failed runs
func (s *Service) executeSafely(ctx context.Context, agent *models.Agent) (result executor.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent execution failed: %v", r)
		}
	}()

	result = s.executor.Execute(ctx, agent)
	return result, nil
}

func (s *Service) updateAgentStats(ctx context.Context, agent *models.Agent, now time.Time) {
	nextRun := schedule.NextRun(agent.Schedule, agent.CustomSchedule, now)
	agent.LastRun = &now
	agent.NextRun = &nextRun
	agent.TotalRuns++

	if err := s.repo.UpdateAgent(ctx, agent); err != nil {
		s.logger.Error("failed to update agent stats after run",
			zap.String("agent_id", agent.ID),
			zap.Error(err))
	}
}

func (s *Service) tryAcquire(agentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[agentID]; busy {
		return false
	}
	s.inFlight[agentID] = struct{}{}
	return true
}

func (s *Service) release(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, agentID)
}

func (s *Service) publish(ctx context.Context, subject, eventType string, data map[string]any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, subject, bus.NewEvent(eventType, eventSource, data)); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

func (s *Service) publishRunEvent(ctx context.Context, eventType string, run *models.AgentRun) {
	s.publish(ctx, events.SubjectRuns+"."+run.AgentID, eventType, map[string]any{
		"run_id":   run.ID,
		"agent_id": run.AgentID,
		"user_id":  run.UserID,
		"status":   string(run.Status),
	})
}
