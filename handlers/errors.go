package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/apperr"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// respondError maps an engine error kind to its HTTP status.
func respondError(c *gin.Context, err error) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var short *apperr.InsufficientStockError
	switch {
	case errors.As(err, &short):
		slog.Info("insufficient stock", slog.String(logkey.TraceID, traceId), slog.Int("Available", short.Available))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "available": short.Available})
	case apperr.IsValidation(err):
		slog.Info("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrRateLimited):
		slog.Warn("order rate limited", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
	}
}
