package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usagestats/internal/config"
	"usagestats/pkg/types"
)

const fixtures = "../../internal/diagram/testdata"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := buildRootCmdWith(&options{stderr: &errOut})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestMetrics_File(t *testing.T) {
	out, err := run(t, "metrics", filepath.Join(fixtures, "user-tasks.bpmn"))
	require.NoError(t, err)

	var report []fileMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 1)
	assert.Equal(t, types.DiagramBPMN, report[0].DiagramType)
	require.NotNil(t, report[0].Metrics.Tasks)
	assert.Equal(t, 8, report[0].Metrics.Tasks.UserTask.Count)
	assert.Equal(t, 6, report[0].Metrics.Tasks.UserTask.Form.Count)
}

func TestMetrics_CloudFile(t *testing.T) {
	out, err := run(t, "metrics", filepath.Join(fixtures, "cloud-user-tasks.bpmn"))
	require.NoError(t, err)

	var report []fileMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report, 1)
	assert.Equal(t, types.DiagramCloudBPMN, report[0].DiagramType)
	assert.Equal(t, 3, report[0].Metrics.Tasks.UserTask.Count)
}

func TestMetrics_DirAndOut(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join(fixtures, "process-variables.bpmn"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bpmn"), src, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.dmn"), []byte("<definitions/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("skip"), 0o644))

	outPath := filepath.Join(t.TempDir(), "report.json")
	stdout, err := run(t, "metrics", dir, "--out", outPath, "--workers", "2")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var report []fileMetrics
	require.NoError(t, json.Unmarshal(b, &report))
	require.Len(t, report, 2)

	byType := map[types.DiagramType]fileMetrics{}
	for _, r := range report {
		byType[r.DiagramType] = r
	}
	require.NotNil(t, byType[types.DiagramBPMN].Metrics.ProcessVariablesCount)
	assert.Equal(t, 3, *byType[types.DiagramBPMN].Metrics.ProcessVariablesCount)
	assert.True(t, byType[types.DiagramDMN].Metrics.IsEmpty())
}

func TestMetrics_ParseError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.bpmn")
	require.NoError(t, os.WriteFile(p, []byte("<bpmn:definitions"), 0o644))
	_, err := run(t, "metrics", p)
	assert.Error(t, err)
}

func TestMetrics_RequiresArgs(t *testing.T) {
	_, err := run(t, "metrics")
	assert.Error(t, err)
}

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte("log_level: warn\nenabled: true\n"), 0o644))

	opts := &options{configPath: p, logLevel: "debug"}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, config.DefaultAddr, cfg.Addr)
}

func TestNewSender(t *testing.T) {
	s, err := newSender(config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s)

	s, err = newSender(config.Config{Endpoint: "http://127.0.0.1:1/collect"}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

type toggles struct{ calls []bool }

func (t *toggles) SetEnabled(on bool) { t.calls = append(t.calls, on) }

func TestApplyReload_OnlyFollowsEnabledEdits(t *testing.T) {
	tg := &toggles{}
	apply := applyReload(tg, zerolog.Nop())

	// serve --enabled with a file that has no enabled key, then log_level edited
	apply(config.Config{LogLevel: "info"}, config.Config{LogLevel: "debug"})
	assert.Empty(t, tg.calls)

	apply(config.Config{}, config.Config{Enabled: true})
	apply(config.Config{Enabled: true}, config.Config{Enabled: true, Addr: ":1"})
	apply(config.Config{Enabled: true}, config.Config{})
	assert.Equal(t, []bool{true, false}, tg.calls)
}
