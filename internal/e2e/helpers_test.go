package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"usagestats/internal/events"
	"usagestats/internal/httpapi"
	"usagestats/internal/sender"
	"usagestats/internal/tabs"
	"usagestats/internal/usage"
	"usagestats/pkg/types"
)

// collector stands in for the usage statistics backend.
type collector struct {
	mu         sync.Mutex
	envelopes  []types.TelemetryEnvelope
	requestIDs []string
	status     int
}

func newCollector(t *testing.T) (*collector, *httptest.Server) {
	t.Helper()
	c := &collector{status: http.StatusNoContent}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env types.TelemetryEnvelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.envelopes = append(c.envelopes, env)
		c.requestIDs = append(c.requestIDs, r.Header.Get("X-Request-ID"))
		status := c.status
		c.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return c, srv
}

func (c *collector) failWith(status int) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *collector) received() []types.TelemetryEnvelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.TelemetryEnvelope(nil), c.envelopes...)
}

// newServer wires bus, handler, HTTP sender and API the way serve does.
func newServer(t *testing.T, collectorURL string) (*httptest.Server, *usage.Service) {
	t.Helper()
	log := zerolog.Nop()
	s, err := sender.NewHTTP(sender.HTTPConfig{Endpoint: collectorURL, Timeout: 2 * time.Second, RatePerSec: 100})
	if err != nil {
		t.Fatalf("sender: %v", err)
	}
	svc, err := usage.NewService(events.NewBus(log), usage.Config{OnSend: sender.Of(s), Logger: &log})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func fixtureTab(t *testing.T, name string) types.Tab {
	t.Helper()
	tab, err := tabs.LoadFile(filepath.Join("..", "diagram", "testdata", name))
	if err != nil {
		t.Fatalf("load fixture %s: %v", name, err)
	}
	return tab
}

func writeTab(t *testing.T, name, contents string) types.Tab {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	tab, err := tabs.LoadFile(p)
	if err != nil {
		t.Fatalf("load %s: %v", p, err)
	}
	return tab
}

func do(t *testing.T, method, url string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func enable(t *testing.T, base string) {
	t.Helper()
	on := true
	resp, body := do(t, http.MethodPut, base+"/usage", types.UsageToggleRequest{Enabled: &on})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("enable: status=%d body=%s", resp.StatusCode, body)
	}
}
