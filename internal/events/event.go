package events

import (
	"context"

	"usagestats/pkg/types"
)

// Lifecycle event names published by the editor.
const (
	DeploymentDone  = "deployment.done"
	DeploymentError = "deployment.error"
)

// Known reports whether name is a lifecycle event producers may publish.
func Known(name string) bool {
	return name == DeploymentDone || name == DeploymentError
}

// Handler receives a lifecycle event. Returning an error fails the publish.
type Handler func(ctx context.Context, p types.DeploymentPayload) error

// SubscribeFunc registers h for the named event. *Bus.Subscribe satisfies it.
type SubscribeFunc func(name string, h Handler)
