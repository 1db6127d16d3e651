package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"NewsScreener/internal/config"
	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
)

// Mailer delivers rendered reports over SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	receiver string
}

var _ ports.Mailer = (*Mailer)(nil)

// NewMailer registers SMTP credentials and the recipient.
func NewMailer(cfg config.EmailConfig) *Mailer {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &Mailer{
		host:     cfg.Host,
		port:     port,
		user:     cfg.User,
		password: cfg.Password,
		receiver: cfg.Receiver,
	}
}

// SendReport posts the HTML report to the configured recipient. The send
// runs in a goroutine so the context can cut a stuck SMTP dialog short.
func (m *Mailer) SendReport(ctx context.Context, report domain.Report) error {
	if m.host == "" || m.user == "" || m.password == "" || m.receiver == "" {
		return fmt.Errorf("mailer misconfigured")
	}

	message := m.renderMessage(report)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.user, []string{m.receiver}, message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailer) renderMessage(report domain.Report) []byte {
	subject := fmt.Sprintf("[News Screener] %s | %s",
		report.Kind.Label(), report.GeneratedAt.Format("2006-01-02"))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.user)
	fmt.Fprintf(&b, "To: %s\r\n", m.receiver)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, `<html>
<head>
<style>
  body { font-family: 'Helvetica Neue', Arial, sans-serif; line-height: 1.7; color: #333; max-width: 860px; margin: 0 auto; padding: 20px; }
  h3 { border-bottom: 2px solid #333; padding-bottom: 5px; margin-top: 30px; }
  li { margin-bottom: 8px; }
  table { width: 100%%; border-collapse: collapse; margin-top: 10px; }
  th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
  th { background-color: #f2f2f2; }
</style>
</head>
<body>
<div style="background:#1a1a2e; color:#fff; padding:20px; border-radius:8px; margin-bottom:20px; text-align:center;">
  <h1 style="margin:0;">News Screener</h1>
  <p style="margin:5px 0 0 0; font-size:14px; color:#aaa;">%s | %s</p>
</div>
%s
<br><br><hr>
<p style="font-size:11px; color:#999; text-align:center;">Generated by the News Screener pipeline</p>
</body>
</html>`, report.Kind.Label(), report.GeneratedAt.Format("2006-01-02"), report.Body)

	return []byte(b.String())
}
