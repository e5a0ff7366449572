package request

// ReadSessionRequest marks every unread message addressed to the
// caller in the session as read. Issued when the conversation view is
// rendered.
type ReadSessionRequest struct {
	SessionId string `json:"session_id" binding:"required"`
}
