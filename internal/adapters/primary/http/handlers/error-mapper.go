package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"modforge-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// mapDomainError writes the error response. Anything that is not a client
// error becomes a 500 carrying failure and the underlying message.
func mapDomainError(c *gin.Context, failure string, err error) {
	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidRequestBody),
		errors.Is(err, domain.ErrDescriptionRequired),
		errors.Is(err, domain.ErrMessageRequired),
		errors.Is(err, domain.ErrArchiveRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrRequestTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})

	// Missing credential is reported verbatim
	case errors.Is(err, domain.ErrLLMNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", failure, err)})
	}
}
