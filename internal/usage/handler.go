package usage

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"usagestats/internal/diagram"
	"usagestats/internal/sender"
	"usagestats/pkg/types"
)

// reportedTypes are the diagram types that produce envelopes.
var reportedTypes = map[types.DiagramType]bool{
	types.DiagramBPMN:      true,
	types.DiagramCloudBPMN: true,
	types.DiagramDMN:       true,
}

// Reported reports whether deployments of t are sent at all.
func Reported(t types.DiagramType) bool { return reportedTypes[t] }

// DeploymentEventHandler sends a telemetry envelope for every deployment
// outcome while enabled.
type DeploymentEventHandler struct {
	enabled atomic.Bool

	send      sender.Func
	extractor *diagram.Extractor
	log       zerolog.Logger
	tracer    trace.Tracer

	subscriptions []string

	sent    atomic.Uint64
	skipped atomic.Uint64
	failed  atomic.Uint64
}

// Enable starts sending envelopes. Idempotent.
func (h *DeploymentEventHandler) Enable() {
	if !h.enabled.Swap(true) {
		h.log.Info().Str("event", "usage.enabled").Msg("usage statistics enabled")
	}
}

// Disable stops sending envelopes. Idempotent.
func (h *DeploymentEventHandler) Disable() {
	if h.enabled.Swap(false) {
		h.log.Info().Str("event", "usage.disabled").Msg("usage statistics disabled")
	}
}

// Enabled reports the current state.
func (h *DeploymentEventHandler) Enabled() bool { return h.enabled.Load() }

// Subscriptions returns the event names the handler registered, in order.
func (h *DeploymentEventHandler) Subscriptions() []string {
	return append([]string(nil), h.subscriptions...)
}

// Status returns a snapshot of the handler counters.
func (h *DeploymentEventHandler) Status() types.UsageStatus {
	return types.UsageStatus{
		Enabled:       h.Enabled(),
		Sent:          h.sent.Load(),
		Skipped:       h.skipped.Load(),
		Failed:        h.failed.Load(),
		Subscriptions: h.Subscriptions(),
	}
}

func (h *DeploymentEventHandler) handleDeploymentDone(ctx context.Context, p types.DeploymentPayload) error {
	return h.handle(ctx, types.OutcomeSuccess, p)
}

func (h *DeploymentEventHandler) handleDeploymentError(ctx context.Context, p types.DeploymentPayload) error {
	return h.handle(ctx, types.OutcomeFailure, p)
}

func (h *DeploymentEventHandler) handle(ctx context.Context, outcome types.Outcome, p types.DeploymentPayload) error {
	tab := p.Tab
	if !h.Enabled() {
		h.skip("disabled", tab)
		return nil
	}
	if !Reported(tab.Type) {
		h.skip("unsupported_type", tab)
		return nil
	}

	diagramType := tab.Type.Normalize()
	ctx, span := h.tracer.Start(ctx, "usage.deployment", trace.WithAttributes(
		attribute.String("diagram.type", string(diagramType)),
		attribute.String("deployment.outcome", string(outcome)),
		attribute.String("tab.id", string(tab.ID)),
	))
	defer span.End()

	start := time.Now()
	metrics, err := h.extractor.Extract(tab.Type, tab.File.Contents)
	extractDuration.WithLabelValues(string(diagramType)).Observe(time.Since(start).Seconds())
	if err != nil {
		h.fail(span, "extract", tab, err)
		return fmt.Errorf("diagram metrics for tab %s: %w", tab.ID, err)
	}

	env := types.TelemetryEnvelope{
		Event:          types.EventDeployment,
		DiagramType:    diagramType,
		DiagramMetrics: metrics,
		Deployment: types.Deployment{
			Outcome: outcome,
			Context: p.Context,
		},
	}
	if outcome == types.OutcomeFailure && p.Error != nil {
		env.Deployment.Error = p.Error.Code
	}

	if err := h.send(ctx, env); err != nil {
		h.fail(span, "send", tab, err)
		return fmt.Errorf("send deployment envelope: %w", err)
	}
	h.sent.Add(1)
	envelopesTotal.WithLabelValues(string(diagramType), string(outcome)).Inc()
	h.log.Debug().
		Str("event", "deployment.sent").
		Str("tab", string(tab.ID)).
		Str("diagram_type", string(diagramType)).
		Str("outcome", string(outcome)).
		Msg("deployment envelope sent")
	return nil
}

func (h *DeploymentEventHandler) skip(reason string, tab types.Tab) {
	h.skipped.Add(1)
	skippedTotal.WithLabelValues(reason).Inc()
	h.log.Debug().
		Str("event", "deployment.skipped").
		Str("reason", reason).
		Str("tab", string(tab.ID)).
		Str("diagram_type", string(tab.Type)).
		Msg("deployment not reported")
}

func (h *DeploymentEventHandler) fail(span trace.Span, stage string, tab types.Tab, err error) {
	h.failed.Add(1)
	failedTotal.WithLabelValues(stage).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	h.log.Warn().
		Err(err).
		Str("event", "deployment.failed").
		Str("stage", stage).
		Str("tab", string(tab.ID)).
		Msg("deployment envelope not sent")
}
