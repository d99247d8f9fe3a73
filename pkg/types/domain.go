package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiagramType classifies a tab's document.
type DiagramType string

const (
	DiagramBPMN      DiagramType = "bpmn"
	DiagramCloudBPMN DiagramType = "cloud-bpmn"
	DiagramDMN       DiagramType = "dmn"
	DiagramCloudDMN  DiagramType = "cloud-dmn"
	DiagramCMMN      DiagramType = "cmmn"
	DiagramForm      DiagramType = "form"
)

// Normalize maps flavored BPMN variants onto the base bpmn type.
// Other types are returned unchanged.
func (t DiagramType) Normalize() DiagramType {
	if t == DiagramCloudBPMN {
		return DiagramBPMN
	}
	return t
}

// IsBPMN reports whether t is bpmn or one of its flavors.
func (t DiagramType) IsBPMN() bool {
	return t.Normalize() == DiagramBPMN
}

// File is the serialized document behind a tab.
type File struct {
	// File name including extension.
	// example: invoice.bpmn
	Name string `json:"name" example:"invoice.bpmn"`
	// Serialized document contents; may be empty for unsaved tabs.
	Contents string `json:"contents"`
	// Absolute path on disk, empty when the file was never saved.
	// example: /home/user/diagrams/invoice.bpmn
	Path string `json:"path,omitempty" example:"/home/user/diagrams/invoice.bpmn"`
}

// TabID identifies a tab. Editors send it either as a JSON string or as a
// number; both decode to the same textual form.
type TabID string

func (id *TabID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TabID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("tab id must be a string or number: %w", err)
	}
	*id = TabID(n.String())
	return nil
}

func (id TabID) String() string { return string(id) }

// Tab is an open document session in the editor.
type Tab struct {
	// example: 42
	ID TabID `json:"id" swaggertype:"string" example:"42"`
	// example: invoice.bpmn
	Name string `json:"name" example:"invoice.bpmn"`
	// example: bpmn
	Type DiagramType `json:"type" example:"bpmn"`
	// example: invoice.bpmn
	Title string         `json:"title" example:"invoice.bpmn"`
	File  File           `json:"file"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// HasContents reports whether the tab carries a non-blank document.
func (t Tab) HasContents() bool {
	return strings.TrimSpace(t.File.Contents) != ""
}
