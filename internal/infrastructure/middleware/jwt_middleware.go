package middleware

import (
	"net/http"
	"strings"

	"github.com/Avatara12345/Chat-Application/pkg/errorx"
	"github.com/Avatara12345/Chat-Application/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user uuid.
const UserIDKey = "user_id"

// JWTAuth validates the Bearer access token and stores the user id in
// the request context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "malformed token, expected Bearer token",
			})
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "token expired or invalid",
			})
			return
		}

		if claims.Subject != "access_token" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "access token required",
			})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
