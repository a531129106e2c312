package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenericFailureMessage is the only text clients see when the answer
// provider fails. Detail stays in the server log.
const GenericFailureMessage = "An error occurred. Please try again later."

// OK sends a 200 response with the given payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Answer sends a 200 response carrying a generated answer.
func Answer(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{"answer": text})
}

// Error sends an error response using the service envelope.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// BadRequest sends a 400 with a user-facing validation message.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// UpstreamUnavailable sends the generic 502 shown when the answer
// provider fails.
func UpstreamUnavailable(c *gin.Context) {
	Error(c, http.StatusBadGateway, GenericFailureMessage)
}

// InternalError sends a 500 with the generic failure message.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, GenericFailureMessage)
}

// NotFound sends a 404 for unknown routes.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "not found")
}

// MethodNotAllowed sends a 405 for known routes hit with a wrong verb.
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "method not allowed")
}

// TooManyRequests sends a 429 when a client exceeds the rate limit.
func TooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	Error(c, http.StatusTooManyRequests, "too many requests")
}
