package domain

import "time"

// Article is a single news item pulled from a configured feed.
type Article struct {
	ID          string
	Title       string
	Content     string
	URL         string
	Source      string
	PublishedAt time.Time
}

// ScreeningStatus enumerates pipeline milestones for a screened article.
type ScreeningStatus string

const (
	StatusFetched  ScreeningStatus = "fetched"
	StatusScreened ScreeningStatus = "screened"
	StatusSelected ScreeningStatus = "selected"
	StatusFailed   ScreeningStatus = "failed"
)

// ScreeningResult captures the tier-1 verdict for one article.
// A failed screening keeps the article with a neutral score and records
// the error instead of dropping it.
type ScreeningResult struct {
	Article   Article
	Label     string
	Score     int
	Reason    string
	Status    ScreeningStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportKind identifies the cadence of a generated report.
type ReportKind string

const (
	ReportDaily      ReportKind = "daily"
	ReportWeekly     ReportKind = "weekly"
	ReportMonthly    ReportKind = "monthly"
	ReportQuarterly  ReportKind = "quarterly"
	ReportSemiAnnual ReportKind = "semi_annual"
	ReportAnnual     ReportKind = "annual"
)

// Label returns the human-facing name used in email subjects.
func (k ReportKind) Label() string {
	switch k {
	case ReportDaily:
		return "Daily Briefing"
	case ReportWeekly:
		return "Weekly Strategy"
	case ReportMonthly:
		return "Monthly Strategy"
	case ReportQuarterly:
		return "Quarterly Strategy"
	case ReportSemiAnnual:
		return "Semi-Annual Strategy"
	case ReportAnnual:
		return "Annual Strategy"
	}
	return string(k)
}

// Valid reports whether the kind is one of the known cadences.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportDaily, ReportWeekly, ReportMonthly, ReportQuarterly, ReportSemiAnnual, ReportAnnual:
		return true
	}
	return false
}

// HistoryLimit is the retention cap for stored summaries of this kind.
func (k ReportKind) HistoryLimit() int {
	switch k {
	case ReportDaily:
		return 30
	case ReportWeekly, ReportMonthly:
		return 12
	case ReportQuarterly:
		return 8
	case ReportSemiAnnual:
		return 4
	case ReportAnnual:
		return 3
	}
	return 10
}

// Report is a generated tier-2 analysis ready for delivery.
type Report struct {
	Kind        ReportKind
	Body        string
	GeneratedAt time.Time
}

// HistoryEntry is a condensed record of a delivered report, fed back as
// accumulated context into higher-cadence reports.
type HistoryEntry struct {
	Kind      ReportKind
	Summary   string
	CreatedAt time.Time
}
