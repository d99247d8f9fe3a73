package types

// EventDeployment is the only telemetry event kind emitted for deployments.
const EventDeployment = "deployment"

// Outcome of a deployment as reported in the envelope.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// DeploymentError is the minimal error descriptor attached to failed deployments.
type DeploymentError struct {
	Code string `json:"code"`
}

// DeploymentPayload is what lifecycle producers publish for deployment.done
// and deployment.error.
type DeploymentPayload struct {
	Tab     Tab              `json:"tab"`
	Context any              `json:"context,omitempty"`
	Error   *DeploymentError `json:"error,omitempty"`
}

// FormMetrics counts user task form bindings per category.
// Count is always Embedded+External+Generated+Other.
type FormMetrics struct {
	Count     int `json:"count"`
	Embedded  int `json:"embedded"`
	External  int `json:"external"`
	Generated int `json:"generated"`
	Other     int `json:"other"`
}

// UserTaskMetrics summarizes the user tasks of a diagram.
type UserTaskMetrics struct {
	Count int         `json:"count"`
	Form  FormMetrics `json:"form"`
}

// TaskMetrics groups per task kind metrics.
type TaskMetrics struct {
	UserTask UserTaskMetrics `json:"userTask"`
}

// DiagramMetrics holds the metrics available for a diagram. Absent fields
// mean "not applicable" and are omitted on the wire, so an empty value
// encodes as {}.
type DiagramMetrics struct {
	ProcessVariablesCount *int         `json:"processVariablesCount,omitempty"`
	Tasks                 *TaskMetrics `json:"tasks,omitempty"`
}

// IsEmpty reports whether no metric is present.
func (m DiagramMetrics) IsEmpty() bool {
	return m.ProcessVariablesCount == nil && m.Tasks == nil
}

// Deployment describes the outcome part of the envelope.
type Deployment struct {
	Outcome Outcome `json:"outcome"`
	Context any     `json:"context,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// TelemetryEnvelope is the normalized record handed to senders.
type TelemetryEnvelope struct {
	Event          string         `json:"event"`
	DiagramType    DiagramType    `json:"diagramType"`
	DiagramMetrics DiagramMetrics `json:"diagramMetrics"`
	Deployment     Deployment     `json:"deployment"`
}
