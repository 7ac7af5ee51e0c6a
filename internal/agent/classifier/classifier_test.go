package classifier

import "testing"

func TestClassify_KnownTypes(t *testing.T) {
	tests := []struct {
		name        string
		agentName   string
		description string
		taskPrompt  string
		expected    TaskType
	}{
		{"startup news", "Startup News Aggregator", "Collects funding rounds", "summarize startup news", TaskStartupNews},
		{"market analysis", "Market Analyzer", "tracks the tech sector", "conduct a market analysis", TaskMarketAnalysis},
		{"competitor monitor", "Competitor Tracker", "monitor competitor activity", "report on pricing changes", TaskCompetitorMonitor},
		{"content curator", "Curator", "curates relevant content", "curate articles", TaskContentCurator},
		{"social media", "Brand Watch", "social listening", "track social media mentions", TaskSocialMediaMonitor},
		{"sports by keyword", "Daily Sports Recap", "", "latest football scores", TaskSportsNews},
		{"sports by sport name", "Score Tracker", "", "basketball results from last night", TaskSportsNews},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.agentName, tt.description, tt.taskPrompt)
			if got != tt.expected {
				t.Errorf("Classify(%q, %q, %q) = %s, want %s", tt.agentName, tt.description, tt.taskPrompt, got, tt.expected)
			}
		})
	}
}

func TestClassify_OrderDeterminism(t *testing.T) {
	// "Startup Market News" matches both the startup-news and market-analysis
	// keyword groups; the first rule in order must win.
	got := Classify("Startup Market News", "weekly market digest", "")
	if got != TaskStartupNews {
		t.Errorf("expected startup-news (first matching rule), got %s", got)
	}
}

func TestClassify_GenericFallback(t *testing.T) {
	got := Classify("Daily Digest", "a summary agent", "summarize my inbox")
	if got != TaskGeneric {
		t.Errorf("expected generic, got %s", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	got := Classify("STARTUP NEWS AGGREGATOR", "", "")
	if got != TaskStartupNews {
		t.Errorf("expected startup-news for upper-cased input, got %s", got)
	}
}

func TestAll_GenericLast(t *testing.T) {
	types := All()
	if len(types) != 7 {
		t.Fatalf("expected 7 task types, got %d", len(types))
	}
	if types[len(types)-1] != TaskGeneric {
		t.Errorf("expected generic last, got %s", types[len(types)-1])
	}
}
