package channel

import "context"

// Platform identifiers used in reminder records and send-hook routing.
const (
	PlatformDiscord  = "discord"
	PlatformWhatsApp = "whatsapp"
	PlatformIMessage = "imessage"
)

// InboundMessage is the normalized view of one provider payload. It is
// produced by an adapter, consumed immediately by keyword dispatch, and
// never retained.
type InboundMessage struct {
	Channel  string `json:"channel"`
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
}

// Capabilities is the shared surface every adapter dispatches into: ask
// the assistant, list recent emails, list upcoming events, schedule a
// reminder. One capability object implements it for all platforms.
type Capabilities interface {
	Ask(ctx context.Context, question string, extra string) (string, error)
	RecentEmails(count int) []string
	UpcomingEvents(days int) []string
	ScheduleReminder(timeSpec, message, platform, userID string) bool
}

// Adapter is one platform integration. SendText is the provider-specific
// outbound primitive; it doubles as the reminder delivery hook.
type Adapter interface {
	Name() string
	SendText(ctx context.Context, to string, text string) error
}
