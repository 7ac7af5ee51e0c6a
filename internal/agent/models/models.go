package models

import (
	"time"

	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// Agent represents a recurring automation definition in the database
type Agent struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	TaskPrompt     string        `json:"task_prompt"`
	Schedule       v1.Schedule   `json:"schedule"`
	CustomSchedule string        `json:"custom_schedule,omitempty"`
	Category       string        `json:"category"`
	Model          string        `json:"model"`
	Complexity     v1.Complexity `json:"complexity"`
	IsActive       bool          `json:"is_active"`
	LastRun        *time.Time    `json:"last_run,omitempty"`
	NextRun        *time.Time    `json:"next_run,omitempty"`
	TotalRuns      int           `json:"total_runs"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// AgentRun represents one execution attempt of an agent.
// A run transitions exactly once from running to a terminal state;
// Result and ErrorMessage are mutually exclusive.
type AgentRun struct {
	ID           string       `json:"id"`
	AgentID      string       `json:"agent_id"`
	UserID       string       `json:"user_id"`
	Status       v1.RunStatus `json:"status"`
	Result       string       `json:"result,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	ModelUsed    string       `json:"model_used,omitempty"`
	TokensUsed   int          `json:"tokens_used,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// ToAPI converts an internal Agent to the API type
func (a *Agent) ToAPI() *v1.Agent {
	return &v1.Agent{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Description:    a.Description,
		TaskPrompt:     a.TaskPrompt,
		Schedule:       a.Schedule,
		CustomSchedule: a.CustomSchedule,
		Category:       a.Category,
		Model:          a.Model,
		Complexity:     a.Complexity,
		IsActive:       a.IsActive,
		LastRun:        a.LastRun,
		NextRun:        a.NextRun,
		TotalRuns:      a.TotalRuns,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ToAPI converts an internal AgentRun to the API type
func (r *AgentRun) ToAPI() *v1.AgentRun {
	return &v1.AgentRun{
		ID:           r.ID,
		AgentID:      r.AgentID,
		UserID:       r.UserID,
		Status:       r.Status,
		Result:       r.Result,
		ErrorMessage: r.ErrorMessage,
		ModelUsed:    r.ModelUsed,
		TokensUsed:   r.TokensUsed,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
	}
}
