// Package api provides HTTP handlers for the agent engine API.
package api

import (
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// CreateAgentRequest for creating an agent
type CreateAgentRequest struct {
	Name           string        `json:"name" binding:"required"`
	Description    string        `json:"description"`
	TaskPrompt     string        `json:"task_prompt" binding:"required"`
	Schedule       v1.Schedule   `json:"schedule" binding:"required"`
	CustomSchedule string        `json:"custom_schedule,omitempty"`
	Category       string        `json:"category"`
	Model          string        `json:"model"`
	Complexity     v1.Complexity `json:"complexity"`
}

// UpdateAgentRequest for partially updating an agent
type UpdateAgentRequest struct {
	Name           *string        `json:"name,omitempty"`
	Description    *string        `json:"description,omitempty"`
	TaskPrompt     *string        `json:"task_prompt,omitempty"`
	Schedule       *v1.Schedule   `json:"schedule,omitempty"`
	CustomSchedule *string        `json:"custom_schedule,omitempty"`
	Category       *string        `json:"category,omitempty"`
	Model          *string        `json:"model,omitempty"`
	Complexity     *v1.Complexity `json:"complexity,omitempty"`
}

// ToggleAgentRequest for activating or deactivating an agent
type ToggleAgentRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AgentsListResponse for listing agents
type AgentsListResponse struct {
	Agents []*v1.Agent `json:"agents"`
	Total  int         `json:"total"`
}

// RunsListResponse for listing agent runs
type RunsListResponse struct {
	Runs  []*v1.AgentRun `json:"runs"`
	Total int            `json:"total"`
}

// TemplatesListResponse for listing agent templates
type TemplatesListResponse struct {
	Templates []*v1.AgentTemplate `json:"templates"`
	Total     int                 `json:"total"`
}
