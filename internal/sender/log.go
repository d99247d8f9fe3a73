package sender

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"usagestats/pkg/types"
)

// Log writes one structured line per envelope. It is the default sender when
// no collector endpoint is configured.
type Log struct {
	log zerolog.Logger
}

// NewLog returns a Log sender writing through l.
func NewLog(l zerolog.Logger) *Log { return &Log{log: l} }

// Send logs env as a single info line.
func (s *Log) Send(_ context.Context, env types.TelemetryEnvelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("event", "telemetry.envelope").
		Str("diagram_type", string(env.DiagramType)).
		Str("outcome", string(env.Deployment.Outcome)).
		RawJSON("envelope", b).
		Msg("usage statistics")
	return nil
}
