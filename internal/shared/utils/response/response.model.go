package response

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries an informational message
type MessageResponse struct {
	Message string `json:"message"`
}
