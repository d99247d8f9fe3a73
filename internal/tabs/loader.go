package tabs

import (
	"fmt"
	"os"
	"path/filepath"

	"usagestats/internal/common/fsutil"
	"usagestats/pkg/types"
)

// LoadDir scans a directory (non-recursively) for diagram files and opens a
// tab for each. Files with unknown extensions are skipped.
func LoadDir(dir string) ([]types.Tab, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []types.Tab
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		// case-insensitive, e.g. "A.BPMN"
		if _, ok := DetectType(e.Name(), ""); !ok {
			continue
		}
		tab, err := LoadFile(filepath.Join(abs, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, tab)
	}
	return out, nil
}

// LoadFile reads a single diagram file into a tab.
func LoadFile(path string) (types.Tab, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return types.Tab{}, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return types.Tab{}, fmt.Errorf("read %s: %w", p, err)
	}
	return CreateTabForFile(types.File{Name: filepath.Base(p), Contents: string(b), Path: p})
}
