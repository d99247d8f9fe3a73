package sender

import (
	"context"
	"sync"

	"usagestats/pkg/types"
)

// Memory stores envelopes in-memory. Useful for tests and dry runs.
type Memory struct {
	mu        sync.Mutex
	envelopes []types.TelemetryEnvelope
	err       error
}

// NewMemory returns an empty Memory sender.
func NewMemory() *Memory { return &Memory{} }

// FailWith makes subsequent sends record the envelope and return err.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Send stores env and returns the error set by FailWith, if any.
func (m *Memory) Send(_ context.Context, env types.TelemetryEnvelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.envelopes = append(m.envelopes, env)
	return m.err
}

// Envelopes returns a copy of everything sent so far.
func (m *Memory) Envelopes() []types.TelemetryEnvelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.TelemetryEnvelope, len(m.envelopes))
	copy(out, m.envelopes)
	return out
}
