package response

import (
	"log"

	"dietlog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Error writes err as {"error": msg} with the status apperr assigns to it.
// Server-side failures are logged with tag and replaced by a generic message.
func Error(c *gin.Context, tag string, err error) {
	status, msg := apperr.Status(err)
	if status >= 500 {
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// ErrorWithMessage is Error with a fixed client message for server-side failures.
func ErrorWithMessage(c *gin.Context, tag string, err error, serverMsg string) {
	status, msg := apperr.Status(err)
	if status >= 500 {
		log.Printf("[%s] %s %s: %v", tag, c.Request.Method, c.Request.URL.Path, err)
		msg = serverMsg
	}
	c.JSON(status, gin.H{"error": msg})
}
