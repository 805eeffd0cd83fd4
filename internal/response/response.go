package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends data as the top-level JSON body. Clients of both surfaces read
// the fields directly, so there is no envelope.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// Empty sends a bodiless response, used for CORS preflight.
func Empty(c *gin.Context, statusCode int) {
	c.Status(statusCode)
}

// Fail sends an error response with the default message of code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, ErrorBody{Code: code, Message: GetMessage(code)})
}

// FailWithMessage sends an error response with a specific message.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.JSON(statusCode, ErrorBody{Code: code, Message: message})
}

// FailWithError sends an error response whose "error" field carries detail.
func FailWithError(c *gin.Context, statusCode int, code ErrCode, message, detail string) {
	c.JSON(statusCode, ErrorBody{Code: code, Message: message, Error: detail})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, message string, fields map[string]string) {
	c.JSON(statusCode, ErrorBody{Code: code, Message: message, Fields: fields})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Code: code, Message: GetMessage(code)})
}
