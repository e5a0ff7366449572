package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
	"github.com/Avatara12345/Chat-Application/internal/service/roster"
	"github.com/Avatara12345/Chat-Application/internal/service/session"
	"github.com/Avatara12345/Chat-Application/internal/service/typing"
)

// SessionHandler opens sessions, serves the roster and relays typing
// notifications.
type SessionHandler struct {
	sessions *session.Service
	roster   *roster.Aggregator
	typing   *typing.Controller
}

func NewSessionHandler(sessions *session.Service, rosterAgg *roster.Aggregator, typingCtl *typing.Controller) *SessionHandler {
	return &SessionHandler{sessions: sessions, roster: rosterAgg, typing: typingCtl}
}

// Open POST /api/sessions opens (or returns) the session with a peer.
func (h *SessionHandler) Open(c *gin.Context) {
	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.sessions.OpenSession(c.Request.Context(), userId, req.PeerId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Roster GET /api/sessions returns the caller's session list.
func (h *SessionHandler) Roster(c *gin.Context) {
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.roster.GetRoster(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Typing POST /api/sessions/typing reports a keystroke or an explicit
// stop. The REST form backs clients without a live socket; debouncing
// happens server side either way.
func (h *SessionHandler) Typing(c *gin.Context) {
	var req request.TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	userId := c.GetString(middleware.UserIDKey)
	if req.Typing {
		h.typing.Input(c.Request.Context(), userId, req.SessionId)
	} else {
		h.typing.Stop(c.Request.Context(), userId, req.SessionId)
	}
	HandleSuccess(c, nil)
}
