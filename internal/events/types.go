// Package events provides event types for the ArcBrain event system.
package events

// Event types for agents
const (
	AgentCreated = "agent.created"
	AgentUpdated = "agent.updated"
	AgentDeleted = "agent.deleted"
	AgentToggled = "agent.toggled"
)

// Event types for agent runs
const (
	RunStarted   = "agent.run.started"
	RunCompleted = "agent.run.completed"
	RunFailed    = "agent.run.failed"
)

// Subjects used on the bus. Run events publish under SubjectRuns with the
// agent ID as the final token, so consumers can subscribe per-agent or use
// a wildcard for the whole stream.
const (
	SubjectAgents  = "arcbrain.agents"
	SubjectRuns    = "arcbrain.runs"
	SubjectRunsAll = "arcbrain.runs.*"
)
