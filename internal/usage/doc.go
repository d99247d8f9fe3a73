// Package usage turns deployment lifecycle events into usage statistics.
//
//   - handler.go: DeploymentEventHandler, its enable/disable state and the
//     deployment.done / deployment.error callbacks.
//   - config.go: Config and defaults; New subscribes the callbacks.
//   - service.go: Service, the bus-facing facade used by the HTTP API.
//   - metrics.go: Prometheus collectors.
//   - errors.go: error helpers (IsUnknownEvent).
//
// Only bpmn, cloud-bpmn and dmn tabs are reported. Diagram metrics come from
// package diagram and are attached for BPMN flavors only.
package usage
