package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"osintranet/pkg/logger"
	"osintranet/pkg/response"
)

// internalError answers with the JSON envelope when the client asks for
// JSON and with the HTML error page otherwise.
func internalError(c *gin.Context, details string) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		response.InternalError(c, "Internal server error", details)
		return
	}
	c.HTML(http.StatusInternalServerError, "error", gin.H{
		"Title":   http.StatusText(http.StatusInternalServerError),
		"Errors":  map[string]string{},
		"Status":  http.StatusInternalServerError,
		"Message": "An unexpected error occurred",
	})
}

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.GetLogger().WithField("error", err).WithField("path", c.Request.URL.Path).Error("Panic recovered")
				internalError(c, "An unexpected error occurred")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler answers for errors attached with c.Error when the handler
// wrote nothing itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			logger.GetLogger().WithError(err.Err).Error("Request error")

			if !c.Writer.Written() {
				internalError(c, err.Error())
			}
		}
	}
}
