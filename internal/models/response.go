package models

// APIResponse is the uniform envelope returned by every endpoint:
// {"success": bool, "data": ..., "error": "..."}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SuccessResponse wraps data in a successful envelope
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// SuccessMessageResponse wraps data and a human-readable message in a successful envelope
func SuccessMessageResponse(data interface{}, message string) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message}
}

// ErrorResponse wraps a human-readable error message in a failed envelope
func ErrorResponse(message string) APIResponse {
	return APIResponse{Success: false, Error: message}
}
