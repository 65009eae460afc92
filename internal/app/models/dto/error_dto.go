package dto

// ErrorResponse is the wire format for every error this service returns.
// Consumers depend on the single "error" message string; no structured
// error codes are exposed.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an error response with the given message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
