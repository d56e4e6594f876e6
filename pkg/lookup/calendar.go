package lookup

import (
	"fmt"
	"log/slog"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

const appleEventCount = 3

// CalendarService lists upcoming events from configured calendars.
type CalendarService struct {
	cfg config.LookupsConfig
	log *slog.Logger
}

func NewCalendarService(cfg config.LookupsConfig, log *slog.Logger) *CalendarService {
	if log == nil {
		log = slog.Default()
	}

	return &CalendarService{
		cfg: cfg,
		log: log.With("component", "lookup.calendar"),
	}
}

// Upcoming returns events for the next days window. Placeholder data,
// present only when an Apple ID is configured.
func (s *CalendarService) Upcoming(days int) []string {
	if days <= 0 {
		return nil
	}

	var events []string
	if s.cfg.AppleID != "" {
		events = append(events, s.appleEvents()...)
	}

	s.log.Debug("calendar lookup completed", "days", days, "count", len(events))
	return events
}

func (s *CalendarService) appleEvents() []string {
	entries := make([]string, 0, appleEventCount)
	for i := 0; i < appleEventCount; i++ {
		entries = append(entries, fmt.Sprintf("Event %d on Apple Calendar", i))
	}
	return entries
}
