package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS header values sent on every response.
const (
	CORSAllowOrigin  = "*"
	CORSAllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	CORSAllowMethods = "GET,POST,OPTIONS"
)

// CORS returns the permissive CORS middleware when origins is empty and a
// gin-contrib/cors policy restricted to origins otherwise.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return PermissiveCORS()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "X-Amz-Security-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,

		OptionsResponseStatusCode: http.StatusOK,
	})
}

// PermissiveCORS sets the fixed CORS headers before the handler runs, so error
// and preflight responses carry them too. Preflight requests still reach the
// handler, which answers them itself.
func PermissiveCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", CORSAllowOrigin)
		h.Set("Access-Control-Allow-Headers", CORSAllowHeaders)
		h.Set("Access-Control-Allow-Methods", CORSAllowMethods)
		c.Next()
	}
}
