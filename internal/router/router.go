// Package router builds the gin engine and mounts all routes.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Avatara12345/Chat-Application/internal/handler"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/logger"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
)

// NewRouter assembles the engine: logging and recovery middleware,
// CORS for the browser client, public auth routes and the
// authenticated API group.
func NewRouter(h *handler.Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.GinLogger(), logger.GinRecovery(true))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		MaxAge:           12 * time.Hour,
	}))

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Websocket auth is by query token inside the handler.
	api.GET("/ws", h.Ws.Connect)

	authed := api.Group("", middleware.JWTAuth())
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		authed.GET("/users", h.User.List)
		authed.GET("/users/me", h.User.Me)
		authed.GET("/users/:uuid", h.User.Get)

		authed.POST("/sessions", h.Session.Open)
		authed.GET("/sessions", h.Session.Roster)
		authed.POST("/sessions/read", h.Message.Read)
		authed.POST("/sessions/typing", h.Session.Typing)
		authed.GET("/sessions/:sessionId/messages", h.Message.List)

		authed.POST("/messages", h.Message.Send)
		authed.POST("/messages/status", h.Message.Advance)
		authed.POST("/messages/delete", h.Message.Delete)
	}

	return engine
}
