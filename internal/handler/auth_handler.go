package handler

import (
	"github.com/gin-gonic/gin"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/internal/service/auth"
	"github.com/Avatara12345/Chat-Application/internal/service/user"
)

// AuthHandler serves registration and the token lifecycle.
type AuthHandler struct {
	svc   *auth.Service
	users *user.Service
}

func NewAuthHandler(svc *auth.Service, users *user.Service) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Logout POST /api/auth/logout (authenticated) revokes refresh tokens
// and marks the account offline.
func (h *AuthHandler) Logout(c *gin.Context) {
	userId := c.GetString(middleware.UserIDKey)
	if err := h.svc.Logout(c.Request.Context(), userId); err != nil {
		HandleError(c, err)
		return
	}
	if err := h.users.SetPresence(c.Request.Context(), userId, model.PresenceOffline); err != nil {
		// Presence is best-effort; the sign-out itself succeeded.
		zap.L().Warn("presence offline on logout failed",
			zap.String("user_id", userId), zap.Error(err))
	}
	HandleSuccess(c, nil)
}
