package models

// ErrorResponse is the uniform error body returned by every handler
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
