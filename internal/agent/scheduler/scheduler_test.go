package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/common/config"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

type fakeRunner struct {
	mu      sync.Mutex
	due     []*models.Agent
	results map[string]v1.RunStatus // agent ID -> terminal status
	errs    map[string]error        // agent ID -> error from RunAgent
	ran     []string
}

func (f *fakeRunner) GetDueAgents(ctx context.Context) ([]*models.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.due, nil
}

func (f *fakeRunner) RunAgent(ctx context.Context, agentID, userID string) (*models.AgentRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, agentID)
	if err, ok := f.errs[agentID]; ok {
		return nil, err
	}
	status := f.results[agentID]
	if status == "" {
		status = v1.RunStatusCompleted
	}
	return &models.AgentRun{AgentID: agentID, Status: status}, nil
}

func (f *fakeRunner) ranAgents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ran...)
}

func newScheduler(t *testing.T, runner AgentRunner, pollSeconds int) *Scheduler {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)
	return New(runner, config.SchedulerConfig{Enabled: true, PollInterval: pollSeconds}, log)
}

func TestSweep_RunsAllDueAgents(t *testing.T) {
	runner := &fakeRunner{
		due: []*models.Agent{
			{ID: "a1", UserID: "u1"},
			{ID: "a2", UserID: "u2"},
		},
	}
	s := newScheduler(t, runner, 60)

	result := s.Sweep(context.Background())
	assert.Equal(t, 2, result.Due)
	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.ElementsMatch(t, []string{"a1", "a2"}, runner.ranAgents())
}

func TestSweep_CountsOutcomes(t *testing.T) {
	runner := &fakeRunner{
		due: []*models.Agent{
			{ID: "ok", UserID: "u1"},
			{ID: "failed-run", UserID: "u1"},
			{ID: "busy", UserID: "u1"},
			{ID: "broken", UserID: "u1"},
		},
		results: map[string]v1.RunStatus{"failed-run": v1.RunStatusFailed},
		errs: map[string]error{
			"busy":   apperrors.Conflict("run in progress"),
			"broken": apperrors.InternalError("db down", nil),
		},
	}
	s := newScheduler(t, runner, 60)

	result := s.Sweep(context.Background())
	assert.Equal(t, 4, result.Due)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed, "a failed run and a failed start both count")
	assert.Equal(t, 1, result.Skipped)
}

func TestStartStop(t *testing.T) {
	runner := &fakeRunner{due: []*models.Agent{{ID: "a1", UserID: "u1"}}}
	s := newScheduler(t, runner, 1)

	s.Start()
	// Starting twice is a no-op
	s.Start()

	require.Eventually(t, func() bool {
		return len(runner.ranAgents()) > 0
	}, 3*time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop() // Stopping twice is a no-op

	countAfterStop := len(runner.ranAgents())
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, countAfterStop, len(runner.ranAgents()), "no sweeps after stop")
}
