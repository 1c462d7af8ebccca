package errors

// APIError represents the standardized error response of the relay.
// Every non-200 response carries success=false plus a human-readable message,
// matching what the mobile client already parses.
type APIError struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewAPIError creates a new APIError with the given message and optional details.
func NewAPIError(message string, details map[string]interface{}) *APIError {
	return &APIError{
		Success: false,
		Error:   message,
		Details: details,
	}
}
