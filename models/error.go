package models

// ErrorResponse is the uniform body for every 4xx and 5xx response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
