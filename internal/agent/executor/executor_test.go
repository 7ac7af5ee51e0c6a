package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbrain/arcbrain/internal/agent/models"
	"github.com/arcbrain/arcbrain/internal/common/logger"
)

type stubGenerator struct {
	text   string
	model  string
	prompt string
	hint   string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, modelHint string) (string, string) {
	s.prompt = prompt
	s.hint = modelHint
	return s.text, s.model
}

func fixedClock() time.Time {
	return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
}

func newExecutor(t *testing.T, gen Generator) *Executor {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)
	return NewAt(gen, log, fixedClock)
}

func TestExecute_SpecializedReports(t *testing.T) {
	gen := &stubGenerator{}
	exec := newExecutor(t, gen)

	tests := []struct {
		name   string
		agent  models.Agent
		header string
	}{
		{
			name:   "startup news",
			agent:  models.Agent{Name: "Startup Tracker", TaskPrompt: "latest startup news"},
			header: "# Startup News Digest",
		},
		{
			name:   "market analysis",
			agent:  models.Agent{Name: "Market Watch", TaskPrompt: "weekly market analysis"},
			header: "# Market Analysis Report",
		},
		{
			name:   "competitor monitor",
			agent:  models.Agent{Name: "Competitor Watch", TaskPrompt: "monitor rivals"},
			header: "# Competitor Monitoring Report",
		},
		{
			name:   "content curator",
			agent:  models.Agent{Name: "Content Curator", TaskPrompt: "curate reading list"},
			header: "# Curated Content Digest",
		},
		{
			name:   "social media",
			agent:  models.Agent{Name: "Social Pulse", TaskPrompt: "social media mentions"},
			header: "# Social Media Monitoring Report",
		},
		{
			name:   "sports news",
			agent:  models.Agent{Name: "Daily Sports Recap", TaskPrompt: "latest football scores"},
			header: "# Sports News Roundup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := exec.Execute(context.Background(), &tt.agent)

			assert.True(t, strings.HasPrefix(res.Text, tt.header), "got header: %s", strings.SplitN(res.Text, "\n", 2)[0])
			assert.Equal(t, ReportModel, res.ModelUsed)
			assert.Equal(t, len(res.Text), res.TokensUsed)
			assert.Contains(t, res.Text, "Report generated by")
			assert.Contains(t, res.Text, "June 1, 2026")
		})
	}
}

func TestExecute_SpecializedReportsAreDeterministic(t *testing.T) {
	exec := newExecutor(t, &stubGenerator{})
	ag := &models.Agent{Name: "Market Watch", TaskPrompt: "daily market analysis"}

	first := exec.Execute(context.Background(), ag)
	second := exec.Execute(context.Background(), ag)
	assert.Equal(t, first, second)
}

func TestExecute_GenericCallsGateway(t *testing.T) {
	gen := &stubGenerator{text: "generated answer", model: "model-primary"}
	exec := newExecutor(t, gen)

	ag := &models.Agent{
		Name:       "Morning Summary",
		TaskPrompt: "summarize yesterday's activity",
		Model:      "model-custom",
	}
	res := exec.Execute(context.Background(), ag)

	assert.Equal(t, "generated answer", res.Text)
	assert.Equal(t, "model-primary", res.ModelUsed)
	assert.Equal(t, len("generated answer"), res.TokensUsed)
	assert.Equal(t, "summarize yesterday's activity", gen.prompt)
	assert.Equal(t, "model-custom", gen.hint)
}

func TestExecute_SpecializedSkipsGateway(t *testing.T) {
	gen := &stubGenerator{text: "should not appear"}
	exec := newExecutor(t, gen)

	ag := &models.Agent{Name: "Startup Tracker", TaskPrompt: "startup funding rounds"}
	res := exec.Execute(context.Background(), ag)

	assert.Empty(t, gen.prompt, "gateway must not be called for specialized tasks")
	assert.NotContains(t, res.Text, "should not appear")
}
