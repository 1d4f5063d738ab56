package models

// HealthCheckResponse is the liveness body
type HealthCheckResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness body, Error is set when the store is unreachable
type ReadyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
