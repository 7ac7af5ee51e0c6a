package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/agent/service"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// UserIDHeader carries the owner identity on every agent request
const UserIDHeader = "X-User-ID"

// Handler contains HTTP handlers for the agent API
type Handler struct {
	service *service.Service
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log,
	}
}

// userID extracts the owner from the request, writing an error response if
// it is missing
func (h *Handler) userID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(UserIDHeader)
	if userID == "" {
		appErr := apperrors.Unauthorized("missing " + UserIDHeader + " header")
		c.JSON(appErr.HTTPStatus, appErr)
		return "", false
	}
	return userID, true
}

// writeError maps an error to its HTTP status and writes the JSON body
func (h *Handler) writeError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	appErr := apperrors.InternalError("internal error", err)
	c.JSON(appErr.HTTPStatus, appErr)
}

// CreateAgent creates a new agent
// POST /api/v1/agents
func (h *Handler) CreateAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.BadRequest(err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	agent, err := h.service.CreateAgent(c.Request.Context(), userID, &service.CreateAgentRequest{
		Name:           req.Name,
		Description:    req.Description,
		TaskPrompt:     req.TaskPrompt,
		Schedule:       req.Schedule,
		CustomSchedule: req.CustomSchedule,
		Category:       req.Category,
		Model:          req.Model,
		Complexity:     req.Complexity,
	})
	if err != nil {
		h.logger.Error("failed to create agent", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, agent.ToAPI())
}

// ListAgents returns all agents owned by the caller
// GET /api/v1/agents
func (h *Handler) ListAgents(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	agents, err := h.service.GetAgents(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list agents", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, agentsToResponse(agents))
}

// GetAgent returns a single agent
// GET /api/v1/agents/:agentId
func (h *Handler) GetAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	agent, err := h.service.GetAgent(c.Request.Context(), agentID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent.ToAPI())
}

// UpdateAgent partially updates an agent
// PUT /api/v1/agents/:agentId
func (h *Handler) UpdateAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.BadRequest(err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	agent, err := h.service.UpdateAgent(c.Request.Context(), agentID, userID, &service.UpdateAgentRequest{
		Name:           req.Name,
		Description:    req.Description,
		TaskPrompt:     req.TaskPrompt,
		Schedule:       req.Schedule,
		CustomSchedule: req.CustomSchedule,
		Category:       req.Category,
		Model:          req.Model,
		Complexity:     req.Complexity,
	})
	if err != nil {
		h.logger.Error("failed to update agent", zap.String("agent_id", agentID), zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent.ToAPI())
}

// ToggleAgent activates or deactivates an agent
// POST /api/v1/agents/:agentId/toggle
func (h *Handler) ToggleAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	var req ToggleAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.BadRequest(err.Error())
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	agent, err := h.service.ToggleAgent(c.Request.Context(), agentID, userID, *req.IsActive)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, agent.ToAPI())
}

// DeleteAgent removes an agent and its run history
// DELETE /api/v1/agents/:agentId
func (h *Handler) DeleteAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	if err := h.service.DeleteAgent(c.Request.Context(), agentID, userID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RunAgent executes an agent immediately and returns the finished run.
// A failed run is returned with 200: failure is recorded data, not an error.
// POST /api/v1/agents/:agentId/run
func (h *Handler) RunAgent(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	run, err := h.service.RunAgent(c.Request.Context(), agentID, userID)
	if err != nil {
		h.logger.Warn("agent run rejected",
			zap.String("agent_id", agentID),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, run.ToAPI())
}

// ListRuns returns the run history for an agent, newest first
// GET /api/v1/agents/:agentId/runs
func (h *Handler) ListRuns(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	agentID := c.Param("agentId")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			appErr := apperrors.BadRequest("limit must be a positive integer")
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		limit = parsed
	}

	runs, err := h.service.GetAgentRuns(c.Request.Context(), agentID, userID, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := RunsListResponse{Runs: make([]*v1.AgentRun, 0, len(runs)), Total: len(runs)}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, run.ToAPI())
	}
	c.JSON(http.StatusOK, resp)
}

// ListTemplates returns the predefined agent archetypes
// GET /api/v1/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	templates := h.service.GetAgentTemplates()
	c.JSON(http.StatusOK, TemplatesListResponse{Templates: templates, Total: len(templates)})
}

func agentsToResponse(agents []*models.Agent) AgentsListResponse {
	resp := AgentsListResponse{Agents: make([]*v1.Agent, 0, len(agents)), Total: len(agents)}
	for _, agent := range agents {
		resp.Agents = append(resp.Agents, agent.ToAPI())
	}
	return resp
}
