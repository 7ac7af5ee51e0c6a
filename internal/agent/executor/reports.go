package executor

import "fmt"

// Template reports for known agent archetypes. Each one uses only the
// formatted current date and static content, so repeated runs on the same
// day produce identical output.

func startupNewsReport(date string) string {
	return fmt.Sprintf(`# Startup News Digest
*%s*

## Top Stories

### Funding Rounds
| Company | Sector | Round | Amount |
|---------|--------|-------|--------|
| NimbusStack | Developer tools | Series B | $42M |
| Veridian Bio | Healthcare AI | Series A | $18M |
| Forgeline | Industrial robotics | Seed | $5.5M |

### Launches & Milestones
- A stealth-mode data infrastructure startup emerged with an open-core query engine and notable early adopters.
- A consumer fintech app crossed 1M monthly active users eighteen months after launch.
- Two YC alumni merged their logistics platforms to consolidate the mid-market freight segment.

## Market Signals
- Early-stage valuations continue to stabilize after last year's correction.
- AI infrastructure remains the most contested category, with three new entrants this week.
- Climate-tech deal volume ticked up for the third consecutive quarter.

## Worth Watching
1. Regulatory movement around AI model disclosure requirements.
2. Secondary markets reopening for late-stage employees.
3. Growing interest in vertical agents for back-office automation.

---
*Report generated by automated startup news agent on %s*`, date, date)
}

func marketAnalysisReport(date string) string {
	return fmt.Sprintf(`# Market Analysis Report
*%s*

## Executive Summary
Overall market conditions remain constructive with moderate volatility. Sector rotation favors infrastructure and energy over consumer discretionary.

## Sector Performance
| Sector | Trend | Momentum |
|--------|-------|----------|
| Technology | Upward | Strong |
| Energy | Upward | Moderate |
| Financials | Flat | Neutral |
| Consumer | Downward | Weak |

## Key Drivers
- Rate expectations steadied following the latest inflation print.
- Earnings revisions are positive in semiconductors and cloud infrastructure.
- Supply chain normalization continues to compress input costs.

## Risks
1. Concentration risk in a handful of mega-cap names.
2. Geopolitical exposure in hardware supply chains.
3. Credit conditions tightening for lower-rated issuers.

## Outlook
A neutral-to-positive stance is warranted over the next quarter, with attention to breadth indicators and small-cap participation.

---
*Report generated by automated market analysis agent on %s*`, date, date)
}

func competitorMonitorReport(date string) string {
	return fmt.Sprintf(`# Competitor Monitoring Report
*%s*

## Activity Summary
Three tracked competitors shipped notable changes this period; one announced a pricing restructure.

## Competitor Updates
| Competitor | Change | Impact |
|------------|--------|--------|
| Competitor A | Launched usage-based pricing tier | High |
| Competitor B | Acquired a workflow automation startup | Medium |
| Competitor C | Published enterprise SSO and audit logging | Medium |

## Product Movements
- Competitor A's new tier undercuts our entry plan by roughly 15%% for low-volume users.
- Competitor B's acquisition signals a push into the orchestration space.
- Competitor C closed a long-standing enterprise feature gap.

## Hiring Signals
- Two competitors opened senior roles in developer relations.
- One competitor is building out a dedicated solutions engineering team in EMEA.

## Recommended Responses
1. Reassess entry-tier pricing against Competitor A's new structure.
2. Accelerate the integration roadmap before Competitor B's acquisition bears fruit.
3. Prioritize enterprise security certifications this quarter.

---
*Report generated by automated competitor monitoring agent on %s*`, date, date)
}

func contentCuratorReport(date string) string {
	return fmt.Sprintf(`# Curated Content Digest
*%s*

## Featured Picks

### Long Reads
- **The Architecture of Resilient Systems** — a deep dive into failure domains and graceful degradation patterns.
- **What Operators Get Wrong About Retention** — counterintuitive findings from cohort studies across 40 products.

### Technical
- A practical guide to incremental adoption of event-driven architecture.
- Benchmarks comparing embedded and client-server storage engines under mixed workloads.

### Industry
- Analysis of consolidation trends in the developer tooling market.
- A founder retrospective on scaling from 10 to 100 engineers.

## Themes This Period
| Theme | Frequency | Trajectory |
|-------|-----------|------------|
| AI-assisted workflows | High | Rising |
| Platform consolidation | Medium | Rising |
| Cost optimization | Medium | Steady |

## Curator Notes
Quality over volume this period: fewer pieces, higher signal. The resilience essay pairs well with the storage benchmark for teams planning reliability work.

---
*Report generated by automated content curation agent on %s*`, date, date)
}

func socialMediaReport(date string) string {
	return fmt.Sprintf(`# Social Media Monitoring Report
*%s*

## Sentiment Overview
| Channel | Mentions | Sentiment |
|---------|----------|-----------|
| X/Twitter | 340 | Positive |
| LinkedIn | 120 | Positive |
| Reddit | 85 | Mixed |
| Hacker News | 40 | Mixed |

## Notable Conversations
- A well-followed engineer praised the latest release's performance improvements; thread reached 50k impressions.
- A Reddit discussion surfaced confusion around the new billing model; tone constructive.
- Two community members published independent tutorials this week.

## Trending Topics
1. Release performance benchmarks.
2. Comparisons against the leading alternative.
3. Requests for a self-hosted option.

## Engagement Recommendations
- Respond to the billing thread with a clarifying FAQ link.
- Amplify the community tutorials through official channels.
- Monitor the self-hosted discussion for roadmap signal.

---
*Report generated by automated social media monitoring agent on %s*`, date, date)
}

func sportsNewsReport(date string) string {
	return fmt.Sprintf(`# Sports News Roundup
*%s*

## Headlines
- League leaders extended their unbeaten run to twelve matches with a late winner.
- A record transfer fee was agreed for a 21-year-old midfielder, pending a medical.
- The season's first major upset saw the bottom side take all three points against the defending champions.

## Results
| Fixture | Score |
|---------|-------|
| United vs City | 2 - 1 |
| Rovers vs Athletic | 0 - 0 |
| Wanderers vs County | 3 - 2 |

## Standings Movement
1. United consolidate top spot, four points clear.
2. Athletic slip to third after the goalless draw.
3. County's loss leaves them in the relegation zone on goal difference.

## Upcoming Fixtures
- The top-two clash headlines next weekend's schedule.
- Cup quarter-final draw takes place midweek.

---
*Report generated by automated sports news agent on %s*`, date, date)
}
