// Package lookup provides the email and calendar list operations behind
// the "email" and "calendar" keywords. Both return placeholder entries
// gated on account credentials being present; wiring the real providers
// is deliberately left out.
package lookup

import (
	"fmt"
	"log/slog"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

// EmailService lists recent emails across configured accounts.
type EmailService struct {
	cfg config.LookupsConfig
	log *slog.Logger
}

func NewEmailService(cfg config.LookupsConfig, log *slog.Logger) *EmailService {
	if log == nil {
		log = slog.Default()
	}

	return &EmailService{
		cfg: cfg,
		log: log.With("component", "lookup.email"),
	}
}

// Recent returns up to count recent email summaries from every account
// that has credentials configured.
func (s *EmailService) Recent(count int) []string {
	if count <= 0 {
		return nil
	}

	var emails []string
	if s.cfg.GmailAddress != "" {
		emails = append(emails, s.gmailEmails(count)...)
	}
	if s.cfg.OutlookAddress != "" {
		emails = append(emails, s.outlookEmails(count)...)
	}

	if len(emails) > count {
		emails = emails[:count]
	}

	s.log.Debug("email lookup completed", "count", len(emails))
	return emails
}

// TODO: replace with Gmail API integration once an OAuth story exists.
func (s *EmailService) gmailEmails(count int) []string {
	entries := make([]string, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, fmt.Sprintf("Gmail email %d", i))
	}
	return entries
}

func (s *EmailService) outlookEmails(count int) []string {
	entries := make([]string, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, fmt.Sprintf("Outlook email %d", i))
	}
	return entries
}
