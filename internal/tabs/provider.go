// Package tabs creates editor tabs for diagram files and detects their type.
package tabs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"usagestats/pkg/types"
)

// extensions maps file extensions to their base diagram type.
var extensions = map[string]types.DiagramType{
	".bpmn": types.DiagramBPMN,
	".dmn":  types.DiagramDMN,
	".cmmn": types.DiagramCMMN,
	".form": types.DiagramForm,
}

var emptyNames = map[types.DiagramType]string{
	types.DiagramBPMN:      "diagram_1.bpmn",
	types.DiagramCloudBPMN: "diagram_1.bpmn",
	types.DiagramDMN:       "diagram_1.dmn",
	types.DiagramCloudDMN:  "diagram_1.dmn",
	types.DiagramCMMN:      "diagram_1.cmmn",
	types.DiagramForm:      "form_1.form",
}

// cloudMarkers identify documents modeled for the cloud execution platform.
var cloudMarkers = []string{
	"http://camunda.org/schema/zeebe/1.0",
	`executionPlatform="Camunda Cloud"`,
}

// TabNames returns the diagram types a tab can be created for.
func TabNames() []string {
	return []string{
		string(types.DiagramBPMN),
		string(types.DiagramCloudBPMN),
		string(types.DiagramDMN),
		string(types.DiagramCloudDMN),
		string(types.DiagramCMMN),
		string(types.DiagramForm),
	}
}

// DetectType infers the diagram type from a file name and its contents.
func DetectType(name, contents string) (types.DiagramType, bool) {
	t, ok := extensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", false
	}
	if t != types.DiagramBPMN && t != types.DiagramDMN {
		return t, true
	}
	for _, m := range cloudMarkers {
		if strings.Contains(contents, m) {
			if t == types.DiagramBPMN {
				return types.DiagramCloudBPMN, true
			}
			return types.DiagramCloudDMN, true
		}
	}
	return t, true
}

// CreateTabForFile opens f in a new tab.
func CreateTabForFile(f types.File) (types.Tab, error) {
	t, ok := DetectType(f.Name, f.Contents)
	if !ok {
		return types.Tab{}, fmt.Errorf("unsupported file type: %s", f.Name)
	}
	return types.Tab{
		ID:    types.TabID(uuid.NewString()),
		Name:  f.Name,
		Type:  t,
		Title: f.Name,
		File:  f,
	}, nil
}

// CreateEmptyTab creates an unsaved tab of the given type.
func CreateEmptyTab(t types.DiagramType) (types.Tab, error) {
	name, ok := emptyNames[t]
	if !ok {
		return types.Tab{}, fmt.Errorf("unsupported tab type: %s", t)
	}
	return types.Tab{
		ID:    types.TabID(uuid.NewString()),
		Name:  name,
		Type:  t,
		Title: name,
		File:  types.File{Name: name},
	}, nil
}
