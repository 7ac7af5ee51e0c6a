// Package scheduler triggers due agents. It polls the repository on a fixed
// interval and runs every active agent whose next-run timestamp has passed.
// An external cron can drive the same sweep through the HTTP trigger.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/common/config"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// AgentRunner is the subset of the agent service the scheduler needs
type AgentRunner interface {
	GetDueAgents(ctx context.Context) ([]*models.Agent, error)
	RunAgent(ctx context.Context, agentID, userID string) (*models.AgentRun, error)
}

// SweepResult summarizes one pass over the due agents
type SweepResult struct {
	Due       int `json:"due"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Scheduler polls for due agents and runs them
type Scheduler struct {
	runner   AgentRunner
	interval time.Duration
	logger   *logger.Logger

	stopCh chan struct{}
	doneCh chan struct{}
	mu     sync.Mutex
	active bool
}

// New creates a scheduler from configuration
func New(runner AgentRunner, cfg config.SchedulerConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: cfg.PollIntervalDuration(),
		logger:   log,
	}
}

// Start begins the polling loop. It is a no-op if already started.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.loop()
	s.logger.Info("scheduler started", zap.Duration("poll_interval", s.interval))
}

// Stop halts the polling loop and waits for an in-progress sweep to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// Sweep runs every currently due agent once and reports the outcome. Runs
// already in flight are counted as skipped, not failures.
func (s *Scheduler) Sweep(ctx context.Context) SweepResult {
	var result SweepResult

	agents, err := s.runner.GetDueAgents(ctx)
	if err != nil {
		s.logger.Error("failed to list due agents", zap.Error(err))
		return result
	}
	result.Due = len(agents)

	for _, agent := range agents {
		run, err := s.runner.RunAgent(ctx, agent.ID, agent.UserID)
		switch {
		case err == nil && run.Status == v1.RunStatusCompleted:
			result.Succeeded++
		case err == nil:
			result.Failed++
		case apperrors.IsConflict(err):
			result.Skipped++
			s.logger.Debug("skipping agent with run in progress",
				zap.String("agent_id", agent.ID))
		default:
			result.Failed++
			s.logger.Error("scheduled run failed to start",
				zap.String("agent_id", agent.ID),
				zap.Error(err))
		}
	}

	if result.Due > 0 {
		s.logger.Info("scheduler sweep finished",
			zap.Int("due", result.Due),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped))
	}

	return result
}
