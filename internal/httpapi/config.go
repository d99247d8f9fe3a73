package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Diagrams travel inside the payload, so the default is generous.
var maxBodyBytes int64 = 4 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 4 << 20
		return
	}
	maxBodyBytes = n
}

// publishTimeout bounds how long a POST /events request may spend in
// handlers (and therefore in the sender). Zero means no additional timeout.
var publishTimeout time.Duration

// SetPublishTimeoutSeconds sets the publish timeout in seconds (0 disables).
func SetPublishTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	publishTimeout = time.Duration(sec) * time.Second
}

// eventRateLimit is the per-IP budget for POST /events per minute. Zero disables.
var eventRateLimit = 60

// SetEventRateLimit configures per-IP event ingestion limits.
func SetEventRateLimit(perMinute int) {
	if perMinute < 0 {
		perMinute = 0
	}
	eventRateLimit = perMinute
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
