package middleware

import (
	"net/http"

	"github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error as
// {"error": message}. Only the AppError's public message reaches the client;
// detail and wrapped errors are logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, last.Err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: errors.MsgInvalidJSON})
			return
		}

		appError := errors.As(last.Err)
		statusCode := appError.GetHTTPStatus()
		logger.LogHTTPError(c, last.Err, statusCode, string(appError.Type)+" error")

		c.JSON(statusCode, types.ErrorResponse{Error: appError.Message})
	}
}

// NoRoute answers unknown paths.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "route not found"})
	}
}
