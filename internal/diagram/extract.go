package diagram

import (
	"strings"

	"github.com/beevik/etree"

	"usagestats/pkg/types"
)

// Extractor computes DiagramMetrics. The zero value is not usable; use New.
type Extractor struct {
	rules []VariableRule
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithVariableRules replaces the process variable scan rules.
func WithVariableRules(rules ...VariableRule) Option {
	return func(x *Extractor) {
		x.rules = append([]VariableRule(nil), rules...)
	}
}

// New returns an Extractor using DefaultVariableRules unless overridden.
func New(opts ...Option) *Extractor {
	x := &Extractor{rules: DefaultVariableRules}
	for _, o := range opts {
		o(x)
	}
	return x
}

var defaultExtractor = New()

// Extract computes metrics with the default rules.
func Extract(t types.DiagramType, contents string) (types.DiagramMetrics, error) {
	return defaultExtractor.Extract(t, contents)
}

// Extract returns the metrics of a document of type t. Blank contents and
// non-BPMN types produce an empty value. Malformed BPMN returns a *ParseError.
func (x *Extractor) Extract(t types.DiagramType, contents string) (types.DiagramMetrics, error) {
	var m types.DiagramMetrics
	if !t.IsBPMN() || strings.TrimSpace(contents) == "" {
		return m, nil
	}
	defs, err := Parse(contents)
	if err != nil {
		return m, err
	}
	vars := countVariables(defs, x.rules)
	m.ProcessVariablesCount = &vars
	m.Tasks = &types.TaskMetrics{UserTask: userTaskMetrics(userTasks(defs))}
	return m, nil
}

// Parse reads a BPMN document and returns its definitions element.
func Parse(contents string) (Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(contents); err != nil {
		return Node{}, &ParseError{Reason: "invalid XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return Node{}, &ParseError{Reason: "document has no root element"}
	}
	n := Node{el: root}
	if !n.Is(NSBPMN, "definitions") {
		return Node{}, &ParseError{Reason: "root element is not bpmn:definitions (got " + root.FullTag() + ")"}
	}
	return n, nil
}
