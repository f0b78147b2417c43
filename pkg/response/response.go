package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/hirementis/hirementis/pkg/errors"
)

// H is a shorthand for arbitrary JSON payload fields merged into a response.
type H map[string]interface{}

// Message writes a JSON response containing only a message field.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// MessageWith writes a JSON response with a message plus extra top-level fields.
// The client expects flat payloads such as {"message": ..., "user": ...}.
func MessageWith(c *gin.Context, statusCode int, message string, extra H) {
	payload := gin.H{"message": message}
	for key, value := range extra {
		payload[key] = value
	}
	c.JSON(statusCode, payload)
}

// JSON writes an arbitrary payload without a message wrapper.
func JSON(c *gin.Context, statusCode int, payload H) {
	c.JSON(statusCode, payload)
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{"message": appErr.Message})
}
