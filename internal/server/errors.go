package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func badRequest(code, message string) *APIError {
	return newAPIError(http.StatusBadRequest, code, message)
}

func internalError(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", message)
}

func writeError(c *gin.Context, apiErr *APIError) {
	if apiErr == nil {
		apiErr = internalError("")
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}
