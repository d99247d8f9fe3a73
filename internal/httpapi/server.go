package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"usagestats/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Publish(ctx context.Context, name string, p types.DeploymentPayload) error
	SetEnabled(on bool)
	Status() types.UsageStatus
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: orDefault(corsAllowedOrigins, []string{"*"}),
			AllowedMethods: orDefault(corsAllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
			AllowedHeaders: orDefault(corsAllowedHeaders, []string{"Content-Type", "X-Request-ID"}),
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Group(func(r chi.Router) {
		if eventRateLimit > 0 {
			r.Use(httprate.Limit(
				eventRateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					IncrementRejected("rate_limit")
					observeEvent(chi.URLParam(r, "name"), http.StatusTooManyRequests)
					writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				}),
			))
		}
		r.Post("/events/{name}", publishHandler(svc))
	})

	r.Get("/usage", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Put("/usage", func(w http.ResponseWriter, r *http.Request) {
		if !isJSON(r) {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
		var req types.UsageToggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Enabled == nil {
			writeJSONError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		svc.SetEnabled(*req.Enabled)
		// state changes are logged regardless of the request log level
		zlog.Info().Str("event", "usage.toggled").Str("request_id", middleware.GetReqID(r.Context())).
			Bool("enabled", *req.Enabled).Msg("usage toggled")
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not subscribed"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

func publishHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !isJSON(r) {
			IncrementRejected("media_type")
			observeEvent(name, http.StatusUnsupportedMediaType)
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var p types.DeploymentPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				IncrementRejected("body_too_large")
			} else {
				IncrementRejected("bad_json")
			}
			// same status for both to avoid leaking size limits
			observeEvent(name, http.StatusBadRequest)
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		start := time.Now()
		// Join server base context with request context so shutdown cancels sends too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if publishTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, publishTimeout)
			defer tcancel()
		}

		if err := svc.Publish(ctx, name, p); err != nil {
			// client went away; nothing to answer
			if r.Context().Err() != nil {
				return
			}
			status := statusFor(err)
			requestEvent(r, LevelError, status).Str("event", name).Dur("dur", time.Since(start)).Err(err).Msg("publish failed")
			observeEvent(name, status)
			writeJSONError(w, status, err.Error())
			return
		}
		requestEvent(r, LevelInfo, http.StatusAccepted).Str("event", name).Str("tab_type", string(p.Tab.Type)).Dur("dur", time.Since(start)).Msg("event published")
		observeEvent(name, http.StatusAccepted)
		writeJSON(w, http.StatusAccepted, types.PublishResponse{Event: name, Status: "accepted"})
	}
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct != "" && strings.HasPrefix(strings.ToLower(ct), "application/json")
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
