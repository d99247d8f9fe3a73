package events

import (
	"context"
	"sync"

	"usagestats/pkg/types"
)

// Record is one registration seen by a Recorder.
type Record struct {
	Name    string
	Handler Handler
}

// Recorder is a SubscribeFunc target that only remembers registrations, for
// tests that need to fire handlers by position.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Subscribe records the registration without dispatching anything.
func (r *Recorder) Subscribe(name string, h Handler) {
	r.mu.Lock()
	r.records = append(r.records, Record{Name: name, Handler: h})
	r.mu.Unlock()
}

// Records returns a copy of the registrations in order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Call invokes the i-th registered handler.
func (r *Recorder) Call(ctx context.Context, i int, p types.DeploymentPayload) error {
	return r.Records()[i].Handler(ctx, p)
}
