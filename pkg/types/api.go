package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// UsageToggleRequest is accepted by PUT /usage.
type UsageToggleRequest struct {
	// Whether usage statistics should be collected and sent.
	// example: true
	Enabled *bool `json:"enabled" example:"true"`
}

// UsageStatus is returned by GET /usage.
type UsageStatus struct {
	// Whether the deployment handler currently sends envelopes.
	// example: true
	Enabled bool `json:"enabled" example:"true"`
	// Envelopes handed to the sender successfully.
	// example: 12
	Sent uint64 `json:"sent" example:"12"`
	// Events dropped because the handler was disabled or the diagram type is not reported.
	// example: 3
	Skipped uint64 `json:"skipped" example:"3"`
	// Events that failed during metric extraction or sending.
	// example: 1
	Failed uint64 `json:"failed" example:"1"`
	// Lifecycle event names the handler is subscribed to, in registration order.
	// example: ["deployment.done","deployment.error"]
	Subscriptions []string `json:"subscriptions" example:"deployment.done,deployment.error"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// PublishResponse acknowledges an accepted lifecycle event.
type PublishResponse struct {
	// example: deployment.done
	Event string `json:"event" example:"deployment.done"`
	// example: accepted
	Status string `json:"status" example:"accepted"`
}
