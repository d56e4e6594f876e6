package lookup

import (
	"strings"
	"testing"

	"github.com/AddisenK/ai-assistant/pkg/config"
)

func TestRecentWithoutAccounts(t *testing.T) {
	svc := NewEmailService(config.LookupsConfig{}, nil)

	if emails := svc.Recent(5); len(emails) != 0 {
		t.Fatalf("emails = %v, want none without accounts", emails)
	}
}

func TestRecentCapsAtCount(t *testing.T) {
	svc := NewEmailService(config.LookupsConfig{
		GmailAddress:   "me@gmail.com",
		OutlookAddress: "me@outlook.com",
	}, nil)

	emails := svc.Recent(3)
	if len(emails) != 3 {
		t.Fatalf("got %d emails, want 3", len(emails))
	}
	if !strings.HasPrefix(emails[0], "Gmail") {
		t.Fatalf("emails[0] = %q, want Gmail entries first", emails[0])
	}
}

func TestRecentZeroCount(t *testing.T) {
	svc := NewEmailService(config.LookupsConfig{GmailAddress: "me@gmail.com"}, nil)

	if emails := svc.Recent(0); emails != nil {
		t.Fatalf("emails = %v, want nil for zero count", emails)
	}
}

func TestUpcomingWithoutAccount(t *testing.T) {
	svc := NewCalendarService(config.LookupsConfig{}, nil)

	if events := svc.Upcoming(7); len(events) != 0 {
		t.Fatalf("events = %v, want none without an Apple ID", events)
	}
}

func TestUpcoming(t *testing.T) {
	svc := NewCalendarService(config.LookupsConfig{AppleID: "me@icloud.com"}, nil)

	events := svc.Upcoming(7)
	if len(events) != appleEventCount {
		t.Fatalf("got %d events, want %d", len(events), appleEventCount)
	}

	if events := svc.Upcoming(0); events != nil {
		t.Fatalf("events = %v, want nil for zero window", events)
	}
}
