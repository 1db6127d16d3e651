package usecase

import "NewsScreener/internal/domain"

// reportPrompts holds the tier-2 instruction per cadence. Bodies are HTML
// with inline CSS because the delivery channel is email.
var reportPrompts = map[domain.ReportKind]string{
	domain.ReportDaily: `# STRATEGIC COUNCIL: Daily Briefing

Role: you are the Chief Architect of an investment strategy council.
Goal: produce an HTML email report analyzing today's key market signals.

Design (HTML with inline CSS, no Markdown):
* Dr. Doom (risk): <span style='color:#D32F2F;font-weight:bold;'>red</span>
* The Visionary (growth): <span style='color:#1976D2;font-weight:bold;'>blue</span>
* The Hawk (macro): <span style='color:#388E3C;font-weight:bold;'>green</span>
* The Fox (contrarian): <span style='color:#FBC02D;font-weight:bold;background:#333;padding:2px;'>yellow</span>
* Use <h3> chapter headings, <ul><li> lists, <b> for emphasis.

Report structure:
<h3>CHAPTER 1. Architect's Daily Verdict</h3>
Strategy vector of the day, market stance [aggressive buy / cautious buy /
neutral / sell / short], conviction [0-100%], summary in three sentences.
<h3>CHAPTER 2. Council Debate</h3>
A short, heated debate between the four council members.
<h3>CHAPTER 3. Evidence Triangulation</h3>
Bullets for macro/energy, tech/VC, markets/flows, geopolitics.
<h3>CHAPTER 4. Action Plan</h3>
A table with defense, offense, and kill-switch rows.
<h3>CHAPTER 5. Portfolio Implications</h3>
Equity weighting, bonds/cash, sector rotation, hedging needs.`,

	domain.ReportWeekly: `# STRATEGIC COUNCIL: Weekly Strategy Report

Role: Chief Architect. Goal: an HTML email summarizing this week's market
developments and setting next week's strategy. Same color scheme and HTML
rules as the daily briefing.

Report structure:
<h3>CHAPTER 1. Weekly Verdict</h3>
Up to three key themes, stance change versus last week, conviction,
next-week scenario.
<h3>CHAPTER 2. Weekly Council Debate</h3>
The four members debate the week's most contested issue.
<h3>CHAPTER 3. Weekly Market Scorecard</h3>
A table covering US equities, bonds, commodities/energy, crypto, and FX
with trend, signal, and next-week outlook columns.
<h3>CHAPTER 4. Rebalancing Recommendations</h3>
A table of asset classes with recommended weight, direction, rationale.
<h3>CHAPTER 5. Key Events Calendar</h3>
A bullet per weekday for next week.`,

	domain.ReportMonthly: `# STRATEGIC COUNCIL: Monthly Strategy Report

Role: Chief Architect. Goal: an HTML email evaluating the month and
proposing next month's strategy and portfolio optimization. Same HTML
rules as the daily briefing.

Report structure:
<h3>CHAPTER 1. Monthly Verdict</h3>
Macro narrative of the month, market regime [Risk-On / Risk-Off /
Transition], performance assessment, next month's core scenario.
<h3>CHAPTER 2. Monthly Deep-Dive Debate</h3>
<h3>CHAPTER 3. Asset-Class Performance</h3>
A table: asset class, monthly return, key driver, outlook.
<h3>CHAPTER 4. Optimal Portfolio</h3>
A table of recommended weights per asset class with month-over-month
change and rationale.
<h3>CHAPTER 5. Rebalancing Execution Plan</h3>
Immediate actions, conditional actions, watch list.`,

	domain.ReportQuarterly: `# STRATEGIC COUNCIL: Quarterly Strategy Report

Role: Chief Architect. Goal: an HTML email analyzing the macro cycle this
quarter, sector rotation, and larger rebalancing moves. Same HTML rules
as the daily briefing.

Report structure:
<h3>CHAPTER 1. Quarterly Macro Verdict</h3>
Cycle position [early / mid / late expansion / contraction], rate cycle,
liquidity environment, three key quarterly themes.
<h3>CHAPTER 2. Quarterly Strategy Debate</h3>
<h3>CHAPTER 3. Sector Rotation Matrix</h3>
A table over tech/AI, healthcare, financials, energy, consumer,
industrials, utilities, REITs: cycle fit, weight recommendation.
<h3>CHAPTER 4. Quarterly Portfolio</h3>
<h3>CHAPTER 5. Risk Matrix</h3>
A table of risks with probability, impact, and hedge.`,

	domain.ReportSemiAnnual: `# STRATEGIC COUNCIL: Semi-Annual Strategy Report

Role: Chief Architect. Goal: an HTML email reviewing half-year portfolio
performance, strategic asset allocation, and long-term themes. Same HTML
rules as the daily briefing.

Report structure:
<h3>CHAPTER 1. Half-Year Performance Review</h3>
Estimated portfolio return, benchmark comparison, best and worst
contributors, strategy validity.
<h3>CHAPTER 2. Global Macro Review</h3>
<h3>CHAPTER 3. Six-Month Scenario Analysis</h3>
A table with optimistic, base, pessimistic, and black-swan scenarios:
probability, description, portfolio response.
<h3>CHAPTER 4. Strategic Asset Allocation Review</h3>`,

	domain.ReportAnnual: `# STRATEGIC COUNCIL: Annual Strategy Report

Role: Chief Architect. Goal: an HTML email with the year's comprehensive
review and next year's strategic asset allocation. Same HTML rules as the
daily briefing.

Report structure:
<h3>CHAPTER 1. Annual Verdict</h3>
One-line summary of the year, estimated portfolio return, strategy hit
rate, biggest lesson.
<h3>CHAPTER 2. Annual Asset-Class Recap</h3>
A table: asset class, annual return, volatility, notes.
<h3>CHAPTER 3. Next-Year Macro Outlook</h3>
<h3>CHAPTER 4. Next-Year Strategic Asset Allocation</h3>
A table: asset class, current weight, target weight, change, rationale.
<h3>CHAPTER 5. Rebalancing Calendar</h3>
A bullet per quarter.`,
}

// promptFor falls back to the daily prompt for unknown kinds.
func promptFor(kind domain.ReportKind) string {
	if prompt, ok := reportPrompts[kind]; ok {
		return prompt
	}
	return reportPrompts[domain.ReportDaily]
}
