package request

// MessageStatusRequest advances one message's delivery status. Status
// is "delivered" or "read"; regressions are rejected.
type MessageStatusRequest struct {
	MessageId string `json:"message_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=delivered read"`
}
