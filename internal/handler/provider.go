package handler

import (
	"github.com/Avatara12345/Chat-Application/internal/service"
)

// Handlers aggregates all HTTP handlers for the router.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Session *SessionHandler
	Message *MessageHandler
	Ws      *WsHandler
}

// NewHandlers builds the handler set over the service layer.
func NewHandlers(svcs *service.Services) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svcs.Auth, svcs.User),
		User:    NewUserHandler(svcs.User),
		Session: NewSessionHandler(svcs.Session, svcs.Roster, svcs.Typing),
		Message: NewMessageHandler(svcs.Message),
		Ws:      NewWsHandler(svcs.Hub),
	}
}
