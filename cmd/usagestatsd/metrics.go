package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"usagestats/internal/common/fsutil"
	"usagestats/internal/diagram"
	"usagestats/internal/tabs"
	"usagestats/pkg/types"
)

// fileMetrics is one line of the metrics report.
type fileMetrics struct {
	Path        string               `json:"path"`
	DiagramType types.DiagramType    `json:"diagramType"`
	Metrics     types.DiagramMetrics `json:"diagramMetrics"`
}

func newMetricsCmd(opts *options) *cobra.Command {
	var (
		out     string
		workers int
	)
	cmd := &cobra.Command{
		Use:     "metrics <file|dir>...",
		Short:   "Compute diagram metrics for files or directories",
		Example: "  usagestatsd metrics invoice.bpmn\n  usagestatsd metrics ~/diagrams --out report.json",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadTabs(args)
			if err != nil {
				return err
			}
			report, err := computeMetrics(loaded, workers)
			if err != nil {
				return err
			}
			write := func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if out == "" {
				return write(cmd.OutOrStdout())
			}
			return fsutil.WriteAtomic(out, write)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to this file atomically instead of stdout")
	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "Number of diagrams parsed concurrently")
	return cmd
}

// loadTabs expands directories (non-recursively) and opens files in argument order.
func loadTabs(args []string) ([]types.Tab, error) {
	var out []types.Tab
	for _, a := range args {
		p, err := fsutil.ExpandHome(a)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if fi.IsDir() {
			ts, err := tabs.LoadDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, ts...)
			continue
		}
		t, err := tabs.LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// computeMetrics extracts metrics for every tab; the first parse error aborts.
func computeMetrics(ts []types.Tab, workers int) ([]fileMetrics, error) {
	report := make([]fileMetrics, len(ts))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	x := diagram.New()
	for i, t := range ts {
		i, t := i, t
		g.Go(func() error {
			m, err := x.Extract(t.Type, t.File.Contents)
			if err != nil {
				return fmt.Errorf("%s: %w", t.File.Path, err)
			}
			report[i] = fileMetrics{Path: t.File.Path, DiagramType: t.Type, Metrics: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
