// Package executor runs agent tasks. Known agent archetypes are served by
// deterministic template reports; everything else goes through the provider
// gateway with the agent's literal task prompt.
package executor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arcbrain/arcbrain/internal/agent/classifier"
	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/common/logger"
)

// ReportModel tags results produced by the template report builders
const ReportModel = "arcbrain-report-v1"

// Result is the outcome of a single task execution. TokensUsed is
// approximated as the length of the result text.
type Result struct {
	Text       string
	ModelUsed  string
	TokensUsed int
}

// Generator produces free-form text for a prompt. Satisfied by provider.Gateway.
type Generator interface {
	Generate(ctx context.Context, prompt, modelHint string) (text, modelUsed string)
}

// Executor dispatches agent tasks to the handler selected by the classifier
type Executor struct {
	generator Generator
	now       func() time.Time
	logger    *logger.Logger
}

func New(generator Generator, log *logger.Logger) *Executor {
	return &Executor{generator: generator, now: time.Now, logger: log}
}

// NewAt pins the clock used for report dates, for tests
func NewAt(generator Generator, log *logger.Logger, now func() time.Time) *Executor {
	return &Executor{generator: generator, now: now, logger: log}
}

// Execute classifies the agent's task and produces a result. Specialized
// handlers are fully local and deterministic; only the generic path calls
// the provider gateway.
func (e *Executor) Execute(ctx context.Context, ag *models.Agent) Result {
	taskType := classifier.Classify(ag.Name, ag.Description, ag.TaskPrompt)

	e.logger.Debug("executing agent task",
		zap.String("agent_id", ag.ID),
		zap.String("task_type", string(taskType)))

	date := e.now().Format("January 2, 2006")

	var text string
	switch taskType {
	case classifier.TaskStartupNews:
		text = startupNewsReport(date)
	case classifier.TaskMarketAnalysis:
		text = marketAnalysisReport(date)
	case classifier.TaskCompetitorMonitor:
		text = competitorMonitorReport(date)
	case classifier.TaskContentCurator:
		text = contentCuratorReport(date)
	case classifier.TaskSocialMediaMonitor:
		text = socialMediaReport(date)
	case classifier.TaskSportsNews:
		text = sportsNewsReport(date)
	default:
		out, model := e.generator.Generate(ctx, ag.TaskPrompt, ag.Model)
		return Result{Text: out, ModelUsed: model, TokensUsed: len(out)}
	}

	return Result{Text: text, ModelUsed: ReportModel, TokensUsed: len(text)}
}
