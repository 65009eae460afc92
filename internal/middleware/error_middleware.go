package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/course-service/internal/app/models/dto"
	"github.com/coursehub/course-service/internal/pkg/apperrors"
	"github.com/coursehub/course-service/internal/pkg/logger"
)

// HandleAPIError maps service errors onto the wire taxonomy. Every
// branch answers with the single-message error envelope.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Course not found"))
	case errors.Is(err, apperrors.ErrCapacityExhausted):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Course is full, no available capacity"))
	case errors.Is(err, apperrors.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("action must be 'increment' or 'decrement'"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrNoToken), errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid or expired token"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("Admin access required"))
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	}
}
