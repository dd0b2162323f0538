package api

import "github.com/example/chat-relay/modules/stats"

// StatusResponse is the GET / payload.
type StatusResponse struct {
	Message        string `json:"message"`
	ConnectedUsers int    `json:"connectedUsers"`
}

// StatsResponse is the GET /stats payload.
type StatsResponse struct {
	Stats stats.Summary `json:"stats"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status           string `json:"status"`
	ConnectedClients int    `json:"connected_clients"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
