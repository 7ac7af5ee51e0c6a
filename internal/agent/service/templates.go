package service

import (
	"github.com/arcbrain/arcbrain/internal/agent/provider"
	v1 "github.com/arcbrain/arcbrain/pkg/api/v1"
)

// GetAgentTemplates returns predefined agent archetypes for common use cases
func (s *Service) GetAgentTemplates() []*v1.AgentTemplate {
	return []*v1.AgentTemplate{
		{
			ID:          "startup-news",
			Name:        "Startup News Aggregator",
			Description: "Collects and summarizes the latest startup news and funding rounds",
			TaskPrompt:  "Research and provide a comprehensive summary of the latest startup news, funding rounds, and industry developments from the past 24 hours. Include key metrics, notable companies, and emerging trends.",
			Schedule:    v1.ScheduleDaily,
			Category:    "news",
			Model:       provider.MockModel,
			Complexity:  v1.ComplexityMedium,
		},
		{
			ID:          "market-analysis",
			Name:        "Market Analysis Agent",
			Description: "Analyzes market trends and provides insights on specific industries",
			TaskPrompt:  "Conduct a market analysis for the technology sector, focusing on emerging trends, competitive landscape, and growth opportunities. Include data on market size, key players, and future projections.",
			Schedule:    v1.ScheduleWeekly,
			Category:    "analysis",
			Model:       provider.MockModel,
			Complexity:  v1.ComplexityHigh,
		},
		{
			ID:          "competitor-monitor",
			Name:        "Competitor Monitor",
			Description: "Tracks competitor activities and product updates",
			TaskPrompt:  "Monitor and report on competitor activities, product launches, pricing changes, and strategic moves. Focus on companies in the AI/ML space and provide actionable insights.",
			Schedule:    v1.ScheduleDaily,
			Category:    "monitoring",
			Model:       provider.MockModel,
			Complexity:  v1.ComplexityMedium,
		},
		{
			ID:          "content-curator",
			Name:        "Content Curator",
			Description: "Curates relevant content and articles for your industry",
			TaskPrompt:  "Curate and summarize the most relevant articles, blog posts, and research papers in the AI and machine learning space. Focus on practical insights and actionable content.",
			Schedule:    v1.ScheduleDaily,
			Category:    "content",
			Model:       provider.MockModel,
			Complexity:  v1.ComplexityLow,
		},
		{
			ID:          "social-media-monitor",
			Name:        "Social Media Monitor",
			Description: "Monitors social media for brand mentions and sentiment",
			TaskPrompt:  "Monitor social media platforms for mentions of our brand and competitors. Analyze sentiment, identify trending topics, and report on key conversations in our industry.",
			Schedule:    v1.ScheduleHourly,
			Category:    "monitoring",
			Model:       provider.MockModel,
			Complexity:  v1.ComplexityMedium,
		},
	}
}
