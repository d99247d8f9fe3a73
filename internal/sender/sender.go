// Package sender delivers telemetry envelopes.
package sender

import (
	"context"

	"usagestats/pkg/types"
)

// Func is the sender contract consumed by the deployment handler.
type Func func(ctx context.Context, env types.TelemetryEnvelope) error

// Sender is implemented by every concrete sender in this package.
type Sender interface {
	Send(ctx context.Context, env types.TelemetryEnvelope) error
}

// Of adapts a Sender to a Func.
func Of(s Sender) Func { return s.Send }
