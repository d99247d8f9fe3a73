package usage

import (
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"usagestats/internal/diagram"
	"usagestats/internal/events"
	"usagestats/internal/sender"
)

const tracerName = "usagestats/internal/usage"

// Config encapsulates the collaborators and tunables of a DeploymentEventHandler.
type Config struct {
	// Subscribe registers lifecycle callbacks. Required.
	Subscribe events.SubscribeFunc
	// OnSend delivers envelopes. Required.
	OnSend sender.Func
	// Enabled is the initial state. Usage statistics are opt-in.
	Enabled bool
	// Extractor computes diagram metrics; nil uses diagram defaults.
	Extractor *diagram.Extractor
	Logger    *zerolog.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// New constructs a handler and subscribes it to deployment.done and
// deployment.error, in that order.
func New(cfg Config) (*DeploymentEventHandler, error) {
	if cfg.Subscribe == nil {
		return nil, errors.New("usage: Subscribe is required")
	}
	if cfg.OnSend == nil {
		return nil, errors.New("usage: OnSend is required")
	}
	h := &DeploymentEventHandler{
		send:      cfg.OnSend,
		extractor: cfg.Extractor,
		log:       zerolog.Nop(),
	}
	if h.extractor == nil {
		h.extractor = diagram.New()
	}
	if cfg.Logger != nil {
		h.log = cfg.Logger.With().Str("component", "usage").Logger()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	h.tracer = tp.Tracer(tracerName)
	h.enabled.Store(cfg.Enabled)

	cfg.Subscribe(events.DeploymentDone, h.handleDeploymentDone)
	cfg.Subscribe(events.DeploymentError, h.handleDeploymentError)
	h.subscriptions = []string{events.DeploymentDone, events.DeploymentError}
	return h, nil
}
