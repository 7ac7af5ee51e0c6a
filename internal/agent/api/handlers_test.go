package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbrain/arcbrain/internal/agent/executor"
	"github.com/arcbrain/arcbrain/internal/agent/repository"
	"github.com/arcbrain/arcbrain/internal/agent/scheduler"
	"github.com/arcbrain/arcbrain/internal/agent/service"
	"github.com/arcbrain/arcbrain/internal/common/config"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCronSecret = "test-secret"

type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, prompt, modelHint string) (string, string) {
	return "generated text", "test-model"
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)

	repo := repository.NewMemoryRepository()
	t.Cleanup(func() { _ = repo.Close() })

	svc := service.NewService(repo, executor.New(staticGenerator{}, log), nil, log)
	sched := scheduler.New(svc, config.SchedulerConfig{PollInterval: 60, CronSecret: testCronSecret}, log)

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), svc, sched, testCronSecret, log)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createAgentViaAPI(t *testing.T, router *gin.Engine, userID string) v1.Agent {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/agents", userID, CreateAgentRequest{
		Name:       "Daily Sports Recap",
		TaskPrompt: "latest football scores",
		Schedule:   v1.ScheduleHourly,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var agent v1.Agent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &agent))
	return agent
}

func TestCreateAgent(t *testing.T) {
	router := newTestRouter(t)

	agent := createAgentViaAPI(t, router, "user-1")
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "user-1", agent.UserID)
	assert.True(t, agent.IsActive)
	assert.Zero(t, agent.TotalRuns)
	assert.NotNil(t, agent.NextRun)
}

func TestCreateAgent_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/agents", "user-1", map[string]string{"name": "incomplete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAgent_MissingUserHeader(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/agents", "", CreateAgentRequest{
		Name:       "x",
		TaskPrompt: "y",
		Schedule:   v1.ScheduleDaily,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAgents_ScopedToOwner(t *testing.T) {
	router := newTestRouter(t)

	createAgentViaAPI(t, router, "user-1")
	createAgentViaAPI(t, router, "user-2")

	w := doRequest(t, router, http.MethodGet, "/api/v1/agents", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AgentsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "user-1", resp.Agents[0].UserID)
}

func TestGetAgent_WrongOwner(t *testing.T) {
	router := newTestRouter(t)

	agent := createAgentViaAPI(t, router, "user-1")

	w := doRequest(t, router, http.MethodGet, "/api/v1/agents/"+agent.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAgent(t *testing.T) {
	router := newTestRouter(t)
	agent := createAgentViaAPI(t, router, "user-1")

	name := "Renamed Agent"
	w := doRequest(t, router, http.MethodPut, "/api/v1/agents/"+agent.ID, "user-1", UpdateAgentRequest{Name: &name})
	require.Equal(t, http.StatusOK, w.Code)

	var updated v1.Agent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed Agent", updated.Name)
}

func TestToggleAndRunAgent(t *testing.T) {
	router := newTestRouter(t)
	agent := createAgentViaAPI(t, router, "user-1")

	off := false
	w := doRequest(t, router, http.MethodPost, "/api/v1/agents/"+agent.ID+"/toggle", "user-1", ToggleAgentRequest{IsActive: &off})
	require.Equal(t, http.StatusOK, w.Code)

	// Running a paused agent is rejected and no run is recorded
	w = doRequest(t, router, http.MethodPost, "/api/v1/agents/"+agent.ID+"/run", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	on := true
	w = doRequest(t, router, http.MethodPost, "/api/v1/agents/"+agent.ID+"/toggle", "user-1", ToggleAgentRequest{IsActive: &on})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/v1/agents/"+agent.ID+"/run", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var run v1.AgentRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, v1.RunStatusCompleted, run.Status)
	assert.Contains(t, run.Result, "Report generated by")
	assert.Equal(t, len(run.Result), run.TokensUsed)

	w = doRequest(t, router, http.MethodGet, "/api/v1/agents/"+agent.ID+"/runs", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var runs RunsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Equal(t, 1, runs.Total)
}

func TestDeleteAgent(t *testing.T) {
	router := newTestRouter(t)
	agent := createAgentViaAPI(t, router, "user-1")

	w := doRequest(t, router, http.MethodDelete, "/api/v1/agents/"+agent.ID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/agents/"+agent.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTemplates(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/templates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TemplatesListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
}

func TestCronEndpoints_RequireSecret(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/cron/run", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/run", nil)
	req.Header.Set("Authorization", "Bearer wrong-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronRun_SweepsDueAgents(t *testing.T) {
	router := newTestRouter(t)

	// A freshly created agent is not yet due, so the sweep finds nothing
	createAgentViaAPI(t, router, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/run", nil)
	req.Header.Set("Authorization", "Bearer "+testCronSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result scheduler.SweepResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Zero(t, result.Due)
}

func TestCronDue(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/due", nil)
	req.Header.Set("Authorization", "Bearer "+testCronSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AgentsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}
