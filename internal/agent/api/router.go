package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arcbrain/arcbrain/internal/agent/scheduler"
	"github.com/arcbrain/arcbrain/internal/agent/service"
	apperrors "github.com/arcbrain/arcbrain/internal/common/errors"
	"github.com/arcbrain/arcbrain/internal/common/logger"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// SetupRoutes configures the agent API routes
func SetupRoutes(router *gin.RouterGroup, svc *service.Service, sched *scheduler.Scheduler, cronSecret string, log *logger.Logger) {
	handler := NewHandler(svc, log)

	agents := router.Group("/agents")
	{
		agents.POST("", handler.CreateAgent)
		agents.GET("", handler.ListAgents)
		agents.GET("/:agentId", handler.GetAgent)
		agents.PUT("/:agentId", handler.UpdateAgent)
		agents.DELETE("/:agentId", handler.DeleteAgent)
		agents.POST("/:agentId/toggle", handler.ToggleAgent)
		agents.POST("/:agentId/run", handler.RunAgent)
		agents.GET("/:agentId/runs", handler.ListRuns)
	}

	router.GET("/templates", handler.ListTemplates)

	// External cron trigger, guarded by a bearer secret
	cron := router.Group("/cron", requireBearer(cronSecret))
	{
		cron.POST("/run", triggerSweep(sched))
		cron.GET("/due", listDue(svc))
	}
}

// requireBearer rejects requests without the expected Authorization bearer
// token. An empty configured secret disables the endpoints entirely.
func requireBearer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			appErr := apperrors.Unauthorized("cron endpoint is not configured")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}

		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token != secret {
			appErr := apperrors.Unauthorized("invalid cron secret")
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}

		c.Next()
	}
}

// triggerSweep runs every due agent once and reports the outcome
// POST /api/v1/cron/run
func triggerSweep(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := sched.Sweep(c.Request.Context())
		c.JSON(http.StatusOK, result)
	}
}

// listDue returns every active agent whose next run has passed, across all
// owners
// GET /api/v1/cron/due
func listDue(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := svc.GetDueAgents(c.Request.Context())
		if err != nil {
			appErr := apperrors.InternalError("failed to list due agents", err)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		resp := AgentsListResponse{Agents: make([]*v1.Agent, 0, len(agents)), Total: len(agents)}
		for _, agent := range agents {
			resp.Agents = append(resp.Agents, agent.ToAPI())
		}
		c.JSON(http.StatusOK, resp)
	}
}
