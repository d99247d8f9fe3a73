// Package diagram computes usage metrics from serialized diagram documents.
// It is structured into small files by concern:
//
//   - extract.go: Extractor and the Extract entry point.
//   - node.go: namespace-aware view over the parsed element tree.
//   - tasks.go: container traversal collecting user tasks.
//   - forms.go: user task form binding classification.
//   - variables.go: process variable scan rules.
//   - errors.go: ParseError and IsParseError.
//
// Only BPMN documents (including the cloud flavor) produce metrics. Other
// diagram types yield an empty DiagramMetrics value.
package diagram
