// Package reminder implements the in-process reminder scheduler: a
// time-offset parser, an id-keyed record map, and a poll-and-flush due
// check. Records live only as long as the process; there is no
// persistence and no delivery guarantee beyond one attempt.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// timeSpecPattern matches an integer magnitude followed by a unit letter
// (m/h/d), anywhere in the input, with optional whitespace between the
// two. Case-insensitive.
var timeSpecPattern = regexp.MustCompile(`(?i)(\d+)\s*([mhd])`)

// Record is one pending scheduled notification. Records are immutable
// once created.
type Record struct {
	ID       string
	Message  string
	Platform string
	UserID   string
	RemindAt time.Time
}

// SendFunc delivers one due reminder to a recipient on its platform.
type SendFunc func(ctx context.Context, userID string, text string) error

// Scheduler holds pending reminders keyed by a deterministic id derived
// from (platform, user, remind-at). Two reminders rounding to the same
// second for the same user and platform collide, and the later schedule
// overwrites the earlier one; that overwrite is accepted behavior.
type Scheduler struct {
	mu        sync.Mutex
	reminders map[string]Record
	senders   map[string]SendFunc
	now       func() time.Time
	log       *slog.Logger
}

func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		reminders: make(map[string]Record),
		senders:   make(map[string]SendFunc),
		now:       time.Now,
		log:       log.With("component", "reminder.scheduler"),
	}
}

// RegisterSender installs the delivery hook for one platform. Platforms
// without a hook get removal-only handling when their reminders come due.
func (s *Scheduler) RegisterSender(platform string, send SendFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senders[platform] = send
}

// ParseTimeSpec extracts the first magnitude/unit pair from input and
// returns the offset it denotes. ok is false when no pair is present.
func ParseTimeSpec(input string) (offset time.Duration, spec string, ok bool) {
	match := timeSpecPattern.FindStringSubmatch(input)
	if match == nil {
		return 0, "", false
	}

	magnitude, err := strconv.Atoi(match[1])
	if err != nil {
		// Magnitudes beyond int range; treat as unparseable.
		return 0, "", false
	}

	unit := strings.ToLower(match[2])
	switch unit {
	case "m":
		offset = time.Duration(magnitude) * time.Minute
	case "h":
		offset = time.Duration(magnitude) * time.Hour
	default:
		offset = time.Duration(magnitude) * 24 * time.Hour
	}

	return offset, match[1] + unit, true
}

// Schedule parses timeSpec and inserts a reminder due at now+offset.
// Returns false, with no state change, when timeSpec has no usable
// magnitude/unit pair.
func (s *Scheduler) Schedule(timeSpec, message, platform, userID string) bool {
	offset, _, ok := ParseTimeSpec(timeSpec)
	if !ok {
		return false
	}

	remindAt := s.now().Add(offset)
	record := Record{
		ID:       recordID(platform, userID, remindAt),
		Message:  message,
		Platform: platform,
		UserID:   userID,
		RemindAt: remindAt,
	}

	s.mu.Lock()
	s.reminders[record.ID] = record
	s.mu.Unlock()

	s.log.Info("Reminder scheduled", "id", record.ID, "remind_at", remindAt.Format(time.RFC3339))
	return true
}

// CheckAndSend removes every due reminder and attempts delivery through
// the platform's send hook. Removal happens before any delivery attempt,
// so delivery is at most once: a failed or missing hook never reinstates
// the record. Safe to call repeatedly in quick succession.
func (s *Scheduler) CheckAndSend(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var due []Record
	for id, record := range s.reminders {
		if !record.RemindAt.After(now) {
			due = append(due, record)
			delete(s.reminders, id)
		}
	}
	senders := make(map[string]SendFunc, len(s.senders))
	for platform, send := range s.senders {
		senders[platform] = send
	}
	s.mu.Unlock()

	for _, record := range due {
		s.log.Info("Sending reminder", "id", record.ID, "platform", record.Platform)

		send, ok := senders[record.Platform]
		if !ok || record.UserID == "" {
			s.log.Warn("No delivery route for reminder", "id", record.ID, "platform", record.Platform)
			continue
		}

		if err := send(ctx, record.UserID, "Reminder: "+record.Message); err != nil {
			s.log.Error("Failed to deliver reminder", "id", record.ID, "platform", record.Platform, "error", err)
		}
	}
}

// Pending returns the number of reminders not yet due-flushed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reminders)
}

func recordID(platform, userID string, remindAt time.Time) string {
	return fmt.Sprintf("%s_%s_%d", platform, userID, remindAt.Unix())
}
