// Package handler adapts HTTP and websocket traffic to the service
// layer: binding, auth context, response envelopes.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Response is the uniform envelope for every REST reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HandleSuccess writes a 200 envelope.
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errorx.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// HandleError maps a business error to an HTTP status and envelope.
// Internal causes are logged, never echoed to the client.
func HandleError(c *gin.Context, err error) {
	code := errorx.GetCode(err)
	status := httpStatus(code)
	msg := "server busy"
	var ce *errorx.CodeError
	if errors.As(err, &ce) && status < http.StatusInternalServerError {
		msg = ce.Msg
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, Response{Code: code, Message: msg})
}

// HandleParamError writes a 400 envelope, translating validator
// messages into readable field errors.
func HandleParamError(c *gin.Context, err error) {
	msg := "invalid request parameter"
	if verrs, ok := err.(validator.ValidationErrors); ok {
		msg = translateValidationErrors(verrs)
	}
	c.JSON(http.StatusBadRequest, Response{
		Code:    errorx.CodeInvalidParam,
		Message: msg,
	})
}

func httpStatus(code int) int {
	switch code {
	case errorx.CodeSuccess:
		return http.StatusOK
	case errorx.CodeUnauthorized:
		return http.StatusUnauthorized
	case errorx.CodeForbidden:
		return http.StatusForbidden
	case errorx.CodeNotFound, errorx.CodeUserNotExist:
		return http.StatusNotFound
	case errorx.CodeInvalidParam, errorx.CodeUserExist, errorx.CodeInvalidPassword:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
