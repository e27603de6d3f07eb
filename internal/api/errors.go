package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mushtrack/internal/lifecycle"
)

// respondError maps the core error taxonomy onto HTTP statuses.
// Anything unrecognised is a 500.
func (s *Server) respondError(c *gin.Context, err error) {
	var (
		validation *lifecycle.ValidationError
		transition *lifecycle.InvalidTransitionError
		notFound   *lifecycle.NotFoundError
		index      *lifecycle.IndexError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": transition.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &index):
		c.JSON(http.StatusBadRequest, gin.H{"error": index.Error()})
	default:
		s.logger.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
