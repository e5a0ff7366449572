package request

// TypingRequest reports a local input event (or an explicit stop) for
// the caller within a session.
type TypingRequest struct {
	SessionId string `json:"session_id" binding:"required"`
	Typing    bool   `json:"typing"`
}
