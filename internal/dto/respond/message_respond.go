package respond

import (
	"strconv"

	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/delivery"
	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

// MessageRespond is the rendered form of a message. Id is the
// snowflake id as a string to survive JSON number precision.
type MessageRespond struct {
	Id             string `json:"id"`
	SessionId      string `json:"session_id"`
	SenderId       string `json:"sender_id"`
	ReceiverId     string `json:"receiver_id"`
	Content        string `json:"content"`
	Attachment     string `json:"attachment,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	Status         string `json:"status"`
	Deleted        bool   `json:"deleted"`
	ReadAt         string `json:"read_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// BuildMessageRespond renders one message. This is the single place
// the soft-delete flag is applied: once set, body and attachment are
// replaced by the placeholder no matter what delivery status says.
func BuildMessageRespond(m *model.Message) MessageRespond {
	rsp := MessageRespond{
		Id:         strconv.FormatInt(m.Uuid, 10),
		SessionId:  m.SessionId,
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		Status:     delivery.Status(m.Status).String(),
		Deleted:    m.Deleted,
		CreatedAt:  m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if m.ReadAt.Valid {
		rsp.ReadAt = m.ReadAt.Time.Format("2006-01-02 15:04:05")
	}
	if m.Deleted {
		rsp.Content = constants.DELETED_PLACEHOLDER
		return rsp
	}
	rsp.Content = m.Content
	rsp.Attachment = m.Attachment
	rsp.AttachmentType = m.AttachmentType
	return rsp
}
