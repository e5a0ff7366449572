package request

// SendMessageRequest appends a message to a session. Content may be
// empty only when an attachment is present; Attachment is an opaque
// encoded payload (data URI) with its media type tag.
type SendMessageRequest struct {
	SessionId      string `json:"session_id" binding:"required"`
	Content        string `json:"content"`
	Attachment     string `json:"attachment"`
	AttachmentType string `json:"attachment_type"`
}
