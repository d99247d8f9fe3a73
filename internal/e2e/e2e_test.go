package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usagestats/pkg/types"
)

func TestE2E_DisabledByDefault(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)

	resp, body := do(t, http.MethodPost, srv.URL+"/events/deployment.done",
		types.DeploymentPayload{Tab: fixtureTab(t, "user-tasks.bpmn")})
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))
	assert.Empty(t, c.received())

	resp, body = do(t, http.MethodGet, srv.URL+"/usage", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st types.UsageStatus
	require.NoError(t, json.Unmarshal(body, &st))
	assert.False(t, st.Enabled)
	assert.Equal(t, uint64(1), st.Skipped)
	assert.Equal(t, []string{"deployment.done", "deployment.error"}, st.Subscriptions)
}

func TestE2E_DeploymentDoneSendsMetrics(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	payload := types.DeploymentPayload{
		Tab:     fixtureTab(t, "user-tasks.bpmn"),
		Context: map[string]any{"gatewayVersion": "7.20"},
	}
	resp, body := do(t, http.MethodPost, srv.URL+"/events/deployment.done", payload)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))

	got := c.received()
	require.Len(t, got, 1)
	env := got[0]
	assert.Equal(t, types.EventDeployment, env.Event)
	assert.Equal(t, types.DiagramBPMN, env.DiagramType)
	assert.Equal(t, types.OutcomeSuccess, env.Deployment.Outcome)
	assert.Empty(t, env.Deployment.Error)
	assert.Equal(t, map[string]any{"gatewayVersion": "7.20"}, env.Deployment.Context)
	require.NotNil(t, env.DiagramMetrics.Tasks)
	assert.Equal(t, types.UserTaskMetrics{
		Count: 8,
		Form:  types.FormMetrics{Count: 6, Embedded: 3, External: 1, Generated: 1, Other: 1},
	}, env.DiagramMetrics.Tasks.UserTask)
	assert.NotEmpty(t, c.requestIDs[0])
}

func TestE2E_CloudDeploymentErrorNormalized(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	tab := fixtureTab(t, "cloud-user-tasks.bpmn")
	require.Equal(t, types.DiagramCloudBPMN, tab.Type)
	resp, body := do(t, http.MethodPost, srv.URL+"/events/deployment.error", types.DeploymentPayload{
		Tab:   tab,
		Error: &types.DeploymentError{Code: "DIAGRAM_PARSE_ERROR"},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))

	got := c.received()
	require.Len(t, got, 1)
	assert.Equal(t, types.DiagramBPMN, got[0].DiagramType)
	assert.Equal(t, types.OutcomeFailure, got[0].Deployment.Outcome)
	assert.Equal(t, "DIAGRAM_PARSE_ERROR", got[0].Deployment.Error)
	assert.Nil(t, got[0].Deployment.Context)
	require.NotNil(t, got[0].DiagramMetrics.ProcessVariablesCount)
	assert.Equal(t, 2, *got[0].DiagramMetrics.ProcessVariablesCount)
}

func TestE2E_DMNSendsEmptyMetrics(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	tab := writeTab(t, "decision.dmn", `<definitions xmlns="https://www.omg.org/spec/DMN/20191111/MODEL/" />`)
	resp, _ := do(t, http.MethodPost, srv.URL+"/events/deployment.done", types.DeploymentPayload{Tab: tab})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	got := c.received()
	require.Len(t, got, 1)
	assert.Equal(t, types.DiagramDMN, got[0].DiagramType)
	assert.True(t, got[0].DiagramMetrics.IsEmpty())
}

func TestE2E_UnsupportedTypeFiltered(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	for _, name := range []string{"case.cmmn", "form.form"} {
		tab := writeTab(t, name, "{}")
		resp, _ := do(t, http.MethodPost, srv.URL+"/events/deployment.done", types.DeploymentPayload{Tab: tab})
		require.Equal(t, http.StatusAccepted, resp.StatusCode, name)
	}
	assert.Empty(t, c.received())
}

func TestE2E_MalformedDiagram422(t *testing.T) {
	c, col := newCollector(t)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	tab := writeTab(t, "broken.bpmn", "<bpmn:definitions")
	resp, body := do(t, http.MethodPost, srv.URL+"/events/deployment.done", types.DeploymentPayload{Tab: tab})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	assert.Empty(t, c.received())
}

func TestE2E_CollectorFailure502(t *testing.T) {
	c, col := newCollector(t)
	c.failWith(http.StatusInternalServerError)
	srv, _ := newServer(t, col.URL)
	enable(t, srv.URL)

	resp, body := do(t, http.MethodPost, srv.URL+"/events/deployment.done",
		types.DeploymentPayload{Tab: fixtureTab(t, "empty.bpmn")})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/usage", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st types.UsageStatus
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, uint64(1), st.Failed)
	assert.Equal(t, uint64(0), st.Sent)
}

func TestE2E_UnknownEvent404(t *testing.T) {
	_, col := newCollector(t)
	srv, _ := newServer(t, col.URL)

	resp, _ := do(t, http.MethodPost, srv.URL+"/events/deployment.started",
		types.DeploymentPayload{Tab: fixtureTab(t, "empty.bpmn")})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_ToggleOffStopsSending(t *testing.T) {
	c, col := newCollector(t)
	srv, svc := newServer(t, col.URL)
	enable(t, srv.URL)

	payload := types.DeploymentPayload{Tab: fixtureTab(t, "process-variables.bpmn")}
	resp, _ := do(t, http.MethodPost, srv.URL+"/events/deployment.done", payload)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	svc.SetEnabled(false)
	resp, _ = do(t, http.MethodPost, srv.URL+"/events/deployment.done", payload)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Len(t, c.received(), 1)
}
