package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/dto/response"
	apperrors "github.com/jrjohn/arcana-onboarding-go/pkg/errors"
)

// Recovery turns a handler panic into a logged 500 answered with the JSON envelope.
// The panic value stays in the log; the client only sees the request ID to quote.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			requestID := GetRequestID(c)
			logger.Error("Panic recovered",
				zap.Error(fmt.Errorf("panic: %v", recovered)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestID),
				zap.ByteString("stack", debug.Stack()),
			)

			appErr := apperrors.ErrInternalError
			c.AbortWithStatusJSON(appErr.Status, response.NewError[any](appErr).WithRequestID(requestID))
		}()
		c.Next()
	}
}
