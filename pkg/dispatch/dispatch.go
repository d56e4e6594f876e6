// Package dispatch holds the one capability object shared by every
// channel adapter and the keyword policy that routes a normalized
// message to the assistant, the lookups, or the reminder scheduler.
package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/channel"
	"github.com/AddisenK/ai-assistant/pkg/lookup"
	"github.com/AddisenK/ai-assistant/pkg/reminder"
)

// Reply strings shared by the keyword branches.
const (
	emailsHeader     = "Your emails:"
	eventsHeader     = "Your upcoming events:"
	noEmailsReply    = "No emails found"
	noEventsReply    = "No events found"
	remindHelpReply  = "Couldn't parse reminder time. Use format: 'remind me in 30m to...'"
	keywordListLimit = 3
	eventsWindowDays = 7
)

// Responder implements channel.Capabilities over the injected services.
// One instance is built at startup and handed to every adapter; there are
// no ambient singletons.
type Responder struct {
	assistant assistant.Client
	emails    *lookup.EmailService
	calendar  *lookup.CalendarService
	reminders *reminder.Scheduler
	log       *slog.Logger
}

func NewResponder(client assistant.Client, emails *lookup.EmailService, calendar *lookup.CalendarService, reminders *reminder.Scheduler, log *slog.Logger) *Responder {
	if log == nil {
		log = slog.Default()
	}

	return &Responder{
		assistant: client,
		emails:    emails,
		calendar:  calendar,
		reminders: reminders,
		log:       log.With("component", "dispatch"),
	}
}

func (r *Responder) Ask(ctx context.Context, question string, extra string) (string, error) {
	return r.assistant.Ask(ctx, question, extra)
}

func (r *Responder) RecentEmails(count int) []string {
	return r.emails.Recent(count)
}

func (r *Responder) UpcomingEvents(days int) []string {
	return r.calendar.Upcoming(days)
}

func (r *Responder) ScheduleReminder(timeSpec, message, platform, userID string) bool {
	return r.reminders.Schedule(timeSpec, message, platform, userID)
}

// Respond applies the shared keyword policy to one inbound message and
// returns the reply text. First case-insensitive substring match wins:
// remind, email, calendar/schedule, then the assistant as the default.
// limit caps the default-path reply length; limit <= 0 means untruncated.
func Respond(ctx context.Context, caps channel.Capabilities, msg channel.InboundMessage, limit int) string {
	lowered := strings.ToLower(msg.Content)

	switch {
	case strings.Contains(lowered, "remind"):
		return respondRemind(caps, msg)
	case strings.Contains(lowered, "email"):
		return listReply(emailsHeader, noEmailsReply, caps.RecentEmails(keywordListLimit))
	case strings.Contains(lowered, "calendar"), strings.Contains(lowered, "schedule"):
		return listReply(eventsHeader, noEventsReply, caps.UpcomingEvents(eventsWindowDays))
	default:
		reply, err := caps.Ask(ctx, msg.Content, "")
		return Truncate(assistant.Text(reply, err), limit)
	}
}

func respondRemind(caps channel.Capabilities, msg channel.InboundMessage) string {
	_, spec, ok := reminder.ParseTimeSpec(msg.Content)
	if !ok {
		return remindHelpReply
	}

	if !caps.ScheduleReminder(spec, msg.Content, msg.Channel, msg.SenderID) {
		return remindHelpReply
	}

	return "Reminder set for " + spec
}

func listReply(header, emptyReply string, entries []string) string {
	if len(entries) == 0 {
		return emptyReply
	}
	if len(entries) > keywordListLimit {
		entries = entries[:keywordListLimit]
	}

	return header + "\n" + strings.Join(entries, "\n")
}

// Truncate caps text at limit bytes, backing up to a rune boundary so
// the cut never produces invalid UTF-8. limit <= 0 leaves text untouched.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	end := limit
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}
