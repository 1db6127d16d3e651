package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
)

func testMailer() *Mailer {
	return NewMailer(config.EmailConfig{
		Host:     "smtp.example.org",
		User:     "sender@example.org",
		Password: "secret",
		Receiver: "reader@example.org",
	})
}

func TestRenderMessage(t *testing.T) {
	t.Parallel()

	report := domain.Report{
		Kind:        domain.ReportWeekly,
		Body:        "<h3>CHAPTER 1</h3><p>Markets steadied.</p>",
		GeneratedAt: time.Date(2025, 11, 8, 9, 0, 0, 0, time.UTC),
	}

	message := string(testMailer().renderMessage(report))

	for _, want := range []string{
		"From: sender@example.org\r\n",
		"To: reader@example.org\r\n",
		"Subject: [News Screener] Weekly Strategy | 2025-11-08\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/html; charset=\"utf-8\"\r\n",
		"<h3>CHAPTER 1</h3><p>Markets steadied.</p>",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q", want)
		}
	}

	headers, _, found := strings.Cut(message, "\r\n\r\n")
	if !found {
		t.Fatal("message has no header/body separator")
	}
	if strings.Contains(headers, "<html>") {
		t.Fatal("html leaked into the header block")
	}
}

func TestRenderMessageSubjectPerKind(t *testing.T) {
	t.Parallel()

	mailer := testMailer()
	generated := time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)

	cases := []struct {
		kind    domain.ReportKind
		subject string
	}{
		{domain.ReportDaily, "Subject: [News Screener] Daily Briefing | 2026-01-01"},
		{domain.ReportQuarterly, "Subject: [News Screener] Quarterly Strategy | 2026-01-01"},
		{domain.ReportAnnual, "Subject: [News Screener] Annual Strategy | 2026-01-01"},
	}
	for _, tc := range cases {
		message := string(mailer.renderMessage(domain.Report{Kind: tc.kind, GeneratedAt: generated}))
		if !strings.Contains(message, tc.subject) {
			t.Errorf("kind %s: missing %q", tc.kind, tc.subject)
		}
	}
}

func TestSendReportMisconfigured(t *testing.T) {
	t.Parallel()

	mailer := NewMailer(config.EmailConfig{Host: "smtp.example.org"})
	err := mailer.SendReport(context.Background(), domain.Report{Kind: domain.ReportDaily})
	if err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
