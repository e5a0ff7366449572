package request

// DeleteMessageRequest soft-deletes one of the caller's own messages.
// MessageId is the snowflake id as a string to survive JSON number
// precision.
type DeleteMessageRequest struct {
	MessageId string `json:"message_id" binding:"required"`
}
