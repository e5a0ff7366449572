package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
	"github.com/Avatara12345/Chat-Application/internal/service/user"
)

// UserHandler serves the user directory.
type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.GetUser(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Get GET /api/users/:uuid
func (h *UserHandler) Get(c *gin.Context) {
	rsp, err := h.svc.GetUser(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// List GET /api/users lists everyone except the caller.
func (h *UserHandler) List(c *gin.Context) {
	userId := c.GetString(middleware.UserIDKey)
	rsp, err := h.svc.ListUsers(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
