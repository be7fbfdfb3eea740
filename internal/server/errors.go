package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

type validationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{Field: field, Code: code, Message: message}
}

func AbortWithError(c *gin.Context, err error) {
	var ve *validationError
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ve})
		return
	}

	switch {
	case errors.Is(err, pacedomain.ErrNoPickupDates),
		errors.Is(err, pacedomain.ErrInvalidInterval),
		errors.Is(err, pacedomain.ErrInvalidRange),
		errors.Is(err, pacedomain.ErrUnknownMetric),
		errors.Is(err, pacedomain.ErrMetricCycle):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": err.Error()}})
	}
}
