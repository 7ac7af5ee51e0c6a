package v1

import "time"

// RunStatus represents the lifecycle status of an agent run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Terminal returns true if the status is a terminal state
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Schedule represents how often an agent runs
type Schedule string

const (
	ScheduleHourly  Schedule = "hourly"
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
	ScheduleCustom  Schedule = "custom"
)

// Complexity represents the estimated complexity tier of an agent's task
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Agent represents a recurring automation definition in API responses
type Agent struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	TaskPrompt     string     `json:"task_prompt"`
	Schedule       Schedule   `json:"schedule"`
	CustomSchedule string     `json:"custom_schedule,omitempty"`
	Category       string     `json:"category"`
	Model          string     `json:"model"`
	Complexity     Complexity `json:"complexity"`
	IsActive       bool       `json:"is_active"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	NextRun        *time.Time `json:"next_run,omitempty"`
	TotalRuns      int        `json:"total_runs"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AgentRun represents one execution attempt of an agent in API responses
type AgentRun struct {
	ID           string     `json:"id"`
	AgentID      string     `json:"agent_id"`
	UserID       string     `json:"user_id"`
	Status       RunStatus  `json:"status"`
	Result       string     `json:"result,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ModelUsed    string     `json:"model_used,omitempty"`
	TokensUsed   int        `json:"tokens_used,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// AgentTemplate describes a predefined agent archetype offered to users
type AgentTemplate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TaskPrompt  string     `json:"task_prompt"`
	Schedule    Schedule   `json:"schedule"`
	Category    string     `json:"category"`
	Model       string     `json:"model"`
	Complexity  Complexity `json:"complexity"`
}
