package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey string

// TraceIdKey is the request-context key under which middleware.Logger stores the trace id.
const TraceIdKey ctxKey = "traceId"

// WithTraceId returns a copy of ctx carrying traceId.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIdKey, traceId)
}

// GetTraceId reads the trace id from a plain context, "Unknown" when absent.
func GetTraceId(ctx context.Context) string {
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		return "Unknown"
	}
	return traceId
}

// GetTraceIdOfRequest returns the trace id attached to the gin request.
func GetTraceIdOfRequest(c *gin.Context) string {
	return GetTraceId(c.Request.Context())
}
