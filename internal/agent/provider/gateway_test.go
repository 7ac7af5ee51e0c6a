package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcbrain/arcbrain/internal/common/config"
	"github.com/arcbrain/arcbrain/internal/common/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	require.NoError(t, err)
	return log
}

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		DefaultModel:  "model-primary",
		FallbackModel: "model-fallback",
		Timeout:       5,
	}
}

// fakeBackend scripts per-model outcomes for chain tests
type fakeBackend struct {
	probeErr error
	results  map[string]string // model -> text; missing model means error
	calls    []string
}

func (f *fakeBackend) Generate(ctx context.Context, model, prompt string, opts GenerationOptions) (string, error) {
	f.calls = append(f.calls, model)
	if text, ok := f.results[model]; ok {
		return text, nil
	}
	return "", fmt.Errorf("model %s unavailable", model)
}

func (f *fakeBackend) Probe(ctx context.Context) error {
	return f.probeErr
}

func TestGateway_PrimarySucceeds(t *testing.T) {
	backend := &fakeBackend{results: map[string]string{"model-primary": "primary output"}}
	g := NewGateway(backend, testProviderConfig("http://unused"), newTestLogger(t))

	text, model := g.Generate(context.Background(), "analyze the market", "")
	assert.Equal(t, "primary output", text)
	assert.Equal(t, "model-primary", model)
	assert.Equal(t, []string{"model-primary"}, backend.calls)
}

func TestGateway_ModelHintOverridesDefault(t *testing.T) {
	backend := &fakeBackend{results: map[string]string{"custom-model": "hinted output"}}
	g := NewGateway(backend, testProviderConfig("http://unused"), newTestLogger(t))

	text, model := g.Generate(context.Background(), "prompt", "custom-model")
	assert.Equal(t, "hinted output", text)
	assert.Equal(t, "custom-model", model)
}

func TestGateway_FallsThroughToFallbackModel(t *testing.T) {
	backend := &fakeBackend{results: map[string]string{"model-fallback": "fallback output"}}
	g := NewGateway(backend, testProviderConfig("http://unused"), newTestLogger(t))

	text, model := g.Generate(context.Background(), "prompt", "")
	assert.Equal(t, "fallback output", text)
	assert.Equal(t, "model-fallback", model)
	assert.Equal(t, []string{"model-primary", "model-fallback"}, backend.calls)
}

func TestGateway_NeverReturnsError(t *testing.T) {
	// Both remote attempts fail; the mock generator must answer
	backend := &fakeBackend{results: map[string]string{}}
	g := NewGateway(backend, testProviderConfig("http://unused"), newTestLogger(t))

	text, model := g.Generate(context.Background(), "analyze quarterly revenue", "")
	assert.NotEmpty(t, text)
	assert.Equal(t, MockModel, model)
	assert.Equal(t, []string{"model-primary", "model-fallback"}, backend.calls)
}

func TestGateway_ProbeFailureSkipsBackend(t *testing.T) {
	backend := &fakeBackend{
		probeErr: fmt.Errorf("connection refused"),
		results:  map[string]string{"model-primary": "should not be used"},
	}
	g := NewGateway(backend, testProviderConfig("http://unused"), newTestLogger(t))

	assert.False(t, g.Available())

	text, model := g.Generate(context.Background(), "prompt", "")
	assert.Equal(t, MockModel, model)
	assert.NotEmpty(t, text)
	assert.Empty(t, backend.calls, "backend should not be called after a failed probe")
}

func TestGateway_NilBackendServesMock(t *testing.T) {
	g := NewGateway(nil, testProviderConfig(""), newTestLogger(t))

	text, model := g.Generate(context.Background(), "write a strategy plan", "")
	assert.Equal(t, MockModel, model)
	assert.Contains(t, text, "Strategic Plan")
}

func TestClient_GenerateAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":generateContent") {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"server response"}]}}]}`)
			return
		}
		// models list for probe
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer srv.Close()

	client := NewClient(testProviderConfig(srv.URL), newTestLogger(t))

	require.NoError(t, client.Probe(context.Background()))

	text, err := client.Generate(context.Background(), "model-primary", "hello", GenerationOptions{Temperature: 0.7, MaxOutputTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "server response", text)
}

func TestClient_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testProviderConfig(srv.URL), newTestLogger(t))
	_, err := client.Generate(context.Background(), "model-primary", "hello", GenerationOptions{})
	assert.Error(t, err)
}

func TestMockGenerator_Deterministic(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }
	m := NewMockGeneratorAt(fixed)

	first := m.Generate("analyze the startup funding landscape")
	second := m.Generate("analyze the startup funding landscape")
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Analysis Report")
	assert.Contains(t, first, "March 15, 2026")
}

func TestMockGenerator_KeywordFamilies(t *testing.T) {
	m := NewMockGenerator()

	tests := []struct {
		prompt string
		header string
	}{
		{"analyze our churn numbers", "Analysis Report"},
		{"draft a growth strategy", "Strategic Plan"},
		{"write a blog post about databases", "Creative Concept"},
		{"technical architecture for ingestion", "Technical Analysis"},
		{"research emerging battery chemistry", "Research Report"},
		{"review the onboarding flow", "Review Report"},
		{"what do our customers complain about", "Customer Analysis"},
		{"industry outlook next quarter", "Business Analysis"},
		{"summarize yesterday", "Response"},
	}

	for _, tt := range tests {
		out := m.Generate(tt.prompt)
		assert.Contains(t, out, tt.header, "prompt: %s", tt.prompt)
		assert.NotEmpty(t, out)
	}
}
