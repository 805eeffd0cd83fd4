package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Client errors ─────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrUnauthorized     ErrCode = "AUTHENTICATION_ERROR"
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrMethodNotAllowed ErrCode = "METHOD_NOT_ALLOWED"
	ErrConflict         ErrCode = "CONFLICT"
	ErrPayloadTooLarge  ErrCode = "PAYLOAD_TOO_LARGE"
	ErrRateLimited      ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_FAILURE"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the default human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrUnauthorized:
		return "Unauthorized: User ID not found"
	case ErrNotFound:
		return "Resource not found"
	case ErrMethodNotAllowed:
		return "Method not allowed"
	case ErrConflict:
		return "Resource already exists"
	case ErrPayloadTooLarge:
		return "Request body exceeds the upload limit"
	case ErrRateLimited:
		return "Too many requests. Please try again later."
	case ErrUpstream:
		return "Upstream service failed"
	case ErrInternal:
		return "Internal error"
	default:
		return "An unexpected error occurred"
	}
}
