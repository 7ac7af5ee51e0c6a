package provider

import (
	"fmt"
	"strings"
	"time"
)

// MockModel is the model tag reported for locally generated responses
const MockModel = "arcbrain-mock-v1"

// MockGenerator produces deterministic, topic-appropriate responses without
// any network dependency. It is the terminal strategy of the fallback chain
// and cannot fail.
type MockGenerator struct {
	now func() time.Time
}

// NewMockGenerator creates a mock generator using the real clock
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{now: time.Now}
}

// NewMockGeneratorAt creates a mock generator with a fixed clock, for tests
func NewMockGeneratorAt(now func() time.Time) *MockGenerator {
	return &MockGenerator{now: now}
}

// Generate returns a canned multi-paragraph response matched to the prompt's
// keyword family. Output is deterministic for a given prompt and date.
func (m *MockGenerator) Generate(prompt string) string {
	lower := strings.ToLower(prompt)
	topics := extractTopics(prompt)
	topic := strings.Join(topics, " ")
	if topic == "" {
		topic = "the requested area"
	}
	date := m.now().Format("January 2, 2006")

	switch {
	case containsAny(lower, "analyze", "analysis"):
		return m.analysisResponse(prompt, topic, date)
	case containsAny(lower, "strategy", "plan"):
		return m.strategyResponse(prompt, topic, date)
	case containsAny(lower, "creative", "write", "generate", "content"):
		return m.creativeResponse(prompt, topic, date)
	case containsAny(lower, "technical", "code", "programming", "development"):
		return m.technicalResponse(prompt, topic, date)
	case containsAny(lower, "research", "study", "investigate"):
		return m.researchResponse(prompt, topic, date)
	case containsAny(lower, "review", "feedback", "evaluate"):
		return m.reviewResponse(prompt, topic, date)
	case containsAny(lower, "customer", "user", "client"):
		return m.customerResponse(prompt, topic, date)
	case containsAny(lower, "market", "business", "industry"):
		return m.businessResponse(prompt, topic, date)
	default:
		return m.customResponse(prompt, topic, date)
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// stopWords are excluded when extracting topics from a prompt
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true, "can": true,
}

// extractTopics picks up to five significant words from the prompt
func extractTopics(prompt string) []string {
	words := strings.Fields(strings.ToLower(prompt))
	topics := make([]string, 0, 5)
	for _, w := range words {
		w = strings.Trim(w, ".,!?:;\"'()")
		if len(w) > 3 && !stopWords[w] {
			topics = append(topics, w)
			if len(topics) == 5 {
				break
			}
		}
	}
	return topics
}

func (m *MockGenerator) analysisResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Analysis Report

## Executive Summary
Based on the request to analyze %q, this report identifies the current state, key trends, and actionable recommendations for %s.

## Key Findings
- **Current State**: Significant opportunities exist in the %s space
- **Trends Identified**: Growing adoption of %s solutions across the sector
- **Risks**: Market competition and technology adoption remain the primary concerns

## Recommendations
1. Conduct focused market research for %s
2. Analyze competitor strategies in the %s space
3. Develop a pilot program and iterate on feedback

## Success Metrics
- Primary KPI: measurable %s performance improvement
- Secondary metrics: customer satisfaction, market share

---
*Analysis completed on %s*`, prompt, topic, topic, topic, topic, topic, topic, date)
}

func (m *MockGenerator) strategyResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Strategic Plan

## Overview
Based on the request %q, this plan lays out a phased strategic framework for %s.

## Strategic Pillars
1. **Innovation**: invest in %s capabilities over the next 12-18 months
2. **Market Expansion**: phased entry into adjacent %s segments
3. **Operational Excellence**: continuous efficiency and quality improvement

## Roadmap
- **Phase 1 (Months 1-3)**: establish foundations and conduct %s market research
- **Phase 2 (Months 4-9)**: launch pilot programs and validate demand
- **Phase 3 (Months 10-18)**: scale the initiatives that prove out

---
*Strategic plan developed on %s*`, prompt, topic, topic, topic, topic, date)
}

func (m *MockGenerator) creativeResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Creative Concept

## Direction
For the request %q, the concept centers on a modern, user-focused approach to %s that pairs clear messaging with a clean visual identity.

## Key Elements
- **Brand story**: empowering %s through simplicity and craft
- **Primary message**: a genuinely different approach to %s
- **Assets**: landing page, launch post, and a short-form content series

## Principles
Simplicity, authenticity, and accessibility guide every deliverable.

---
*Creative concept developed on %s*`, prompt, topic, topic, topic, date)
}

func (m *MockGenerator) technicalResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Technical Analysis

## Overview
Based on the request %q, this document outlines an architecture and delivery plan for %s.

## Architecture Recommendations
- **Pattern**: modular services with clear ownership boundaries
- **Storage**: a relational store with read replicas as load grows
- **Security**: role-based access control and encryption in transit and at rest

## Delivery Plan
1. Foundation: environment, scaffolding, and CI (4-6 weeks)
2. Core features for %s with integration tests (8-12 weeks)
3. Hardening, load testing, and rollout (4-6 weeks)

---
*Technical analysis completed on %s*`, prompt, topic, topic, date)
}

func (m *MockGenerator) researchResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Research Report

## Objectives
Understand the dynamics, opportunities, and challenges of %s, per the request %q.

## Methodology
Combined primary interviews with secondary source analysis of %s trends.

## Key Findings
1. Steady year-over-year growth in the %s market
2. High customer interest in %s solutions
3. Emerging competitive openings for fast movers

---
*Research completed on %s*`, topic, prompt, topic, topic, topic, date)
}

func (m *MockGenerator) reviewResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Review Report

## Summary
A structured evaluation of %s was performed per the request %q.

## Findings
- **Strengths**: a solid %s foundation with clear ownership
- **Areas for improvement**: optimization opportunities in %s workflows

## Action Items
1. Implement the highest-leverage %s improvements first
2. Re-evaluate after one iteration cycle

---
*Review completed on %s*`, topic, prompt, topic, topic, topic, date)
}

func (m *MockGenerator) customerResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Customer Analysis

## Focus
Customer needs and preferences around %s, per the request %q.

## Insights
- **Target audience**: active %s users with recurring needs
- **Pain points**: friction in current %s workflows
- **Preferences**: speed, reliability, and transparent pricing

## Next Steps
Address the top friction points first, then measure satisfaction and retention.

---
*Customer analysis completed on %s*`, topic, prompt, topic, topic, date)
}

func (m *MockGenerator) businessResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Business Analysis

## Overview
Market position and opportunity assessment for %s, per the request %q.

## Market View
- Sustained growth with a handful of entrenched players
- Openings for differentiated %s positioning
- Revenue model: recurring subscriptions with usage-based expansion

## Strategy
Enter with a narrow, well-served segment of the %s market, then expand.

---
*Business analysis completed on %s*`, topic, prompt, topic, topic, date)
}

func (m *MockGenerator) customResponse(prompt, topic, date string) string {
	return fmt.Sprintf(`# Response

## Request
%q

## Assessment
The request focuses on %s and calls for comprehensive analysis and planning. The current landscape for %s shows accelerating adoption with room for well-executed new entrants.

## Recommendations
1. Start with focused research into %s
2. Frame a lightweight strategy and validate it with a pilot
3. Scale what works; cut what does not

## Expected Outcomes
Improved understanding in the short term and stronger %s capabilities over time.

---
*Response generated on %s*`, prompt, topic, topic, topic, topic, date)
}
