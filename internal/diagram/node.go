package diagram

import (
	"github.com/beevik/etree"
)

// XML namespaces understood by the extractor.
const (
	NSBPMN    = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	NSCamunda = "http://camunda.org/schema/1.0/bpmn"
	NSZeebe   = "http://camunda.org/schema/zeebe/1.0"
	NSModeler = "http://camunda.org/schema/modeler/1.0"
)

// Node is a namespace-aware view of a parsed element. Prefixes are resolved
// against the xmlns declarations in scope, so documents may bind the BPMN
// model to any prefix or to the default namespace.
type Node struct {
	el *etree.Element
}

// Local returns the element's local name.
func (n Node) Local() string { return n.el.Tag }

// Namespace returns the namespace URI bound to the element's prefix.
func (n Node) Namespace() string { return resolvePrefix(n.el, n.el.Space) }

// Is reports whether the element has the given namespace and local name.
func (n Node) Is(ns, local string) bool {
	return n.el.Tag == local && n.Namespace() == ns
}

// Attr returns the value of a namespaced attribute. An empty ns matches
// unprefixed attributes.
func (n Node) Attr(ns, key string) (string, bool) {
	for _, a := range n.el.Attr {
		if a.Key != key || a.Space == "xmlns" {
			continue
		}
		if ns == "" {
			if a.Space == "" {
				return a.Value, true
			}
			continue
		}
		if a.Space != "" && resolvePrefix(n.el, a.Space) == ns {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the child elements in document order.
func (n Node) Children() []Node {
	kids := n.el.ChildElements()
	out := make([]Node, len(kids))
	for i, k := range kids {
		out[i] = Node{el: k}
	}
	return out
}

// Child returns the first child with the given namespace and local name.
func (n Node) Child(ns, local string) (Node, bool) {
	for _, c := range n.Children() {
		if c.Is(ns, local) {
			return c, true
		}
	}
	return Node{}, false
}

// Extension returns the first extension element with the given namespace
// and local name, looking inside bpmn:extensionElements.
func (n Node) Extension(ns, local string) (Node, bool) {
	ext, ok := n.Child(NSBPMN, "extensionElements")
	if !ok {
		return Node{}, false
	}
	return ext.Child(ns, local)
}

// resolvePrefix walks up the tree looking for the xmlns declaration of prefix.
// The empty prefix resolves the default namespace.
func resolvePrefix(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if prefix == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}
