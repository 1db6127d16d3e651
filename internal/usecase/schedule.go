package usecase

import (
	"time"

	"NewsScreener/internal/domain"
)

// DueReports returns the report kinds to generate for the given instant:
// daily always, weekly on Saturdays, monthly on the 1st, quarterly on
// Jan/Apr/Jul/Oct 1st, semi-annual on Jan/Jul 1st, annual on Jan 1st.
func DueReports(now time.Time) []domain.ReportKind {
	now = now.UTC()
	kinds := []domain.ReportKind{domain.ReportDaily}

	if now.Weekday() == time.Saturday {
		kinds = append(kinds, domain.ReportWeekly)
	}
	if now.Day() == 1 {
		kinds = append(kinds, domain.ReportMonthly)

		switch now.Month() {
		case time.January, time.April, time.July, time.October:
			kinds = append(kinds, domain.ReportQuarterly)
		}
		if now.Month() == time.January || now.Month() == time.July {
			kinds = append(kinds, domain.ReportSemiAnnual)
		}
		if now.Month() == time.January {
			kinds = append(kinds, domain.ReportAnnual)
		}
	}
	return kinds
}
