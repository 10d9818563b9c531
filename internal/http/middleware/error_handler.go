package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"bengkelku.id/app/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last request error as JSON after the chain ran.
// Handlers push classified errors via Fail and return.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		payload := gin.H{
			"message":    publicMsg,
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			payload["fields"] = ae.Fields
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
