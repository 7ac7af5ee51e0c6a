// Package classifier routes agents to specialized task handlers based on
// keywords in their name, description, and task prompt.
package classifier

import "strings"

// TaskType identifies which specialized handler executes an agent's task
type TaskType string

const (
	TaskStartupNews        TaskType = "startup-news"
	TaskMarketAnalysis     TaskType = "market-analysis"
	TaskCompetitorMonitor  TaskType = "competitor-monitor"
	TaskContentCurator     TaskType = "content-curator"
	TaskSocialMediaMonitor TaskType = "social-media-monitor"
	TaskSportsNews         TaskType = "sports-news"
	TaskGeneric            TaskType = "generic"
)

// rule associates a task type with the keywords that select it
type rule struct {
	taskType TaskType
	keywords []string
}

// rules is evaluated in order; the first rule with a matching keyword wins.
// Ordering matters: an agent named "Startup Market News" classifies as
// startup-news, not market-analysis.
var rules = []rule{
	{TaskStartupNews, []string{"startup", "news"}},
	{TaskMarketAnalysis, []string{"market", "analysis"}},
	{TaskCompetitorMonitor, []string{"competitor", "monitor"}},
	{TaskContentCurator, []string{"content", "curator"}},
	{TaskSocialMediaMonitor, []string{"social", "media"}},
	{TaskSportsNews, []string{"sport", "football", "soccer", "basketball", "cricket"}},
}

// Classify returns the task type for an agent based on its name, description,
// and task prompt. Matching is case-insensitive and deterministic: the first
// rule whose keywords appear in the combined text wins, generic otherwise.
func Classify(name, description, taskPrompt string) TaskType {
	text := strings.ToLower(name + " " + description + " " + taskPrompt)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.taskType
			}
		}
	}
	return TaskGeneric
}

// All returns every task type in classification order, generic last.
func All() []TaskType {
	types := make([]TaskType, 0, len(rules)+1)
	for _, r := range rules {
		types = append(types, r.taskType)
	}
	return append(types, TaskGeneric)
}
