package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"usagestats/pkg/types"
)

func TestBus_PublishInRegistrationOrder(t *testing.T) {
	b := NewBus(zerolog.Nop())
	var order []string
	b.Subscribe(DeploymentDone, func(ctx context.Context, p types.DeploymentPayload) error {
		order = append(order, "first:"+string(p.Tab.ID))
		return nil
	})
	b.Subscribe(DeploymentError, func(ctx context.Context, p types.DeploymentPayload) error {
		order = append(order, "error")
		return nil
	})
	b.Subscribe(DeploymentDone, func(ctx context.Context, p types.DeploymentPayload) error {
		order = append(order, "second:"+string(p.Tab.ID))
		return nil
	})

	if err := b.Publish(context.Background(), DeploymentDone, types.DeploymentPayload{Tab: types.Tab{ID: "42"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(order) != 2 || order[0] != "first:42" || order[1] != "second:42" {
		t.Fatalf("unexpected delivery order: %v", order)
	}
	subs := b.Subscriptions()
	if len(subs) != 3 || subs[0] != DeploymentDone || subs[1] != DeploymentError || subs[2] != DeploymentDone {
		t.Fatalf("unexpected subscriptions: %v", subs)
	}
}

func TestBus_PublishJoinsErrors(t *testing.T) {
	b := NewBus(zerolog.Nop())
	errA := errors.New("a failed")
	called := 0
	b.Subscribe(DeploymentError, func(context.Context, types.DeploymentPayload) error { called++; return errA })
	b.Subscribe(DeploymentError, func(context.Context, types.DeploymentPayload) error { called++; return nil })

	err := b.Publish(context.Background(), DeploymentError, types.DeploymentPayload{})
	if !errors.Is(err, errA) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if called != 2 {
		t.Fatalf("expected every handler to run, got %d", called)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewBus(zerolog.Nop())
	if err := b.Publish(context.Background(), "unknown", types.DeploymentPayload{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestBus_PublishCanceledContext(t *testing.T) {
	b := NewBus(zerolog.Nop())
	b.Subscribe(DeploymentDone, func(context.Context, types.DeploymentPayload) error {
		t.Fatal("handler must not run on a canceled context")
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Publish(ctx, DeploymentDone, types.DeploymentPayload{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecorder_CallByPosition(t *testing.T) {
	r := NewRecorder()
	var got string
	r.Subscribe(DeploymentDone, func(_ context.Context, p types.DeploymentPayload) error { got = "done"; return nil })
	r.Subscribe(DeploymentError, func(_ context.Context, p types.DeploymentPayload) error { got = p.Error.Code; return nil })

	recs := r.Records()
	if len(recs) != 2 || recs[0].Name != DeploymentDone || recs[1].Name != DeploymentError {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if err := r.Call(context.Background(), 1, types.DeploymentPayload{Error: &types.DeploymentError{Code: "boom"}}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != "boom" {
		t.Fatalf("expected second handler to run, got %q", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known(DeploymentDone) || !Known(DeploymentError) || Known("deployment.started") {
		t.Fatal("Known mismatch")
	}
}
