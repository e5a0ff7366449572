package constants

import "time"

const (
	CHANNEL_SIZE = 100 // buffered channel size for hub event loops

	// DELETED_PLACEHOLDER replaces the body of a soft-deleted message.
	// Readers must never see the original content once the flag is set.
	DELETED_PLACEHOLDER = "🚫 This message was deleted"

	// Roster previews for attachment-only messages.
	PHOTO_PREVIEW = "📷 Photo"
	FILE_PREVIEW  = "📄 File"

	// ATTACHMENT_MAX_BYTES caps the encoded (data URI) attachment payload.
	ATTACHMENT_MAX_BYTES = 5 << 20

	// TYPING_DEBOUNCE is the quiet window after the last input event
	// before the typing flag is cleared.
	TYPING_DEBOUNCE = 1500 * time.Millisecond

	// TYPING_STALE is the wall-clock window after which an uncleared
	// typing flag counts as false. Written as the redis TTL so a crashed
	// writer cannot leave the indicator stuck.
	TYPING_STALE = 5 * time.Second

	ROSTER_CACHE_TTL   = 1 * time.Minute
	REDIS_TASK_TIMEOUT = 3 * time.Second // deadline for async cache tasks


	REFRESH_TOKEN_EXPIRY_HOURS = 168 // 7 days
)
