package response

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// maxClientRequestID bounds client supplied IDs before they reach the logs.
const maxClientRequestID = 128

type gatewayRequestIDKey struct{}

// WithGatewayRequestID attaches the API Gateway request ID to ctx. It takes
// precedence over any client supplied header.
func WithGatewayRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, gatewayRequestIDKey{}, id)
}

// GatewayRequestID returns the ID set by WithGatewayRequestID.
func GatewayRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(gatewayRequestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDMiddleware picks the request ID in order: gateway ID, a well formed
// X-Request-ID header, a fresh UUID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID, ok := GatewayRequestID(c.Request.Context())
		if !ok {
			reqID = c.GetHeader(HeaderRequestID)
			if !validClientRequestID(reqID) {
				reqID = uuid.New().String()
			}
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(HeaderRequestID, reqID)
		c.Next()
	}
}

func validClientRequestID(id string) bool {
	if id == "" || len(id) > maxClientRequestID {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
