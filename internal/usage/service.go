package usage

import (
	"context"
	"time"

	"usagestats/internal/events"
	"usagestats/pkg/types"
)

// Service couples a bus with the deployment handler subscribed to it.
type Service struct {
	bus       *events.Bus
	handler   *DeploymentEventHandler
	startTime time.Time
}

// NewService builds a handler subscribed to bus. cfg.Subscribe is ignored.
func NewService(bus *events.Bus, cfg Config) (*Service, error) {
	cfg.Subscribe = bus.Subscribe
	h, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{bus: bus, handler: h, startTime: time.Now()}, nil
}

// Handler exposes the underlying handler.
func (s *Service) Handler() *DeploymentEventHandler { return s.handler }

// Publish forwards a lifecycle event to the bus. Unknown names are rejected.
func (s *Service) Publish(ctx context.Context, name string, p types.DeploymentPayload) error {
	if !events.Known(name) {
		return ErrUnknownEvent(name)
	}
	return s.bus.Publish(ctx, name, p)
}

// SetEnabled toggles the handler.
func (s *Service) SetEnabled(on bool) {
	if on {
		s.handler.Enable()
		return
	}
	s.handler.Disable()
}

// Status reports handler counters plus process uptime.
func (s *Service) Status() types.UsageStatus {
	st := s.handler.Status()
	now := time.Now()
	st.UptimeSeconds = int64(now.Sub(s.startTime).Seconds())
	st.ServerTimeUnix = now.Unix()
	return st
}

// Ready is true once the handler is subscribed.
func (s *Service) Ready() bool { return len(s.handler.Subscriptions()) == 2 }
