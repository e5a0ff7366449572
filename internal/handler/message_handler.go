package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
	"github.com/Avatara12345/Chat-Application/internal/service/message"
)

// MessageHandler serves the message stream and its mutations.
type MessageHandler struct {
	svc *message.Service
}

func NewMessageHandler(svc *message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.SendMessage(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// List GET /api/sessions/:sessionId/messages
func (h *MessageHandler) List(c *gin.Context) {
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.GetSessionMessages(c.Request.Context(), userId, c.Param("sessionId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Read POST /api/sessions/read acknowledges the open conversation.
func (h *MessageHandler) Read(c *gin.Context) {
	var req request.ReadSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	if err := h.svc.ReadSession(c.Request.Context(), userId, req.SessionId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Advance POST /api/messages/status advances one message's delivery
// status.
func (h *MessageHandler) Advance(c *gin.Context) {
	var req request.MessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.AdvanceMessageStatus(c.Request.Context(), userId, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Delete POST /api/messages/delete soft-deletes a sent message.
func (h *MessageHandler) Delete(c *gin.Context) {
	var req request.DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.DeleteMessage(c.Request.Context(), userId, req.MessageId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
