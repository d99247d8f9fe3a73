package diagram

import "strings"

// VariableRule returns the process variable names declared by a single
// element. Rules are applied to every element of the document regardless of
// nesting; the extractor counts the distinct names across all rules.
type VariableRule func(Node) []string

// DefaultVariableRules covers the variable-writing constructs of the Camunda 7
// and Camunda 8 BPMN extensions.
var DefaultVariableRules = []VariableRule{
	attrRule("", "", NSCamunda, "resultVariable"),
	attrRule(NSCamunda, "outputParameter", "", "name"),
	attrRule(NSCamunda, "out", "", "target"),
	attrRule(NSCamunda, "formField", "", "id"),
	attrRule(NSBPMN, "multiInstanceLoopCharacteristics", NSCamunda, "elementVariable"),
	attrRule(NSBPMN, "errorEventDefinition", NSCamunda, "errorCodeVariable"),
	attrRule(NSBPMN, "errorEventDefinition", NSCamunda, "errorMessageVariable"),
	attrRule(NSBPMN, "escalationEventDefinition", NSCamunda, "escalationCodeVariable"),
	attrRule(NSZeebe, "output", "", "target"),
	attrRule(NSZeebe, "loopCharacteristics", "", "inputElement"),
	attrRule(NSZeebe, "loopCharacteristics", "", "outputCollection"),
	attrRule(NSZeebe, "calledDecision", "", "resultVariable"),
	attrRule(NSZeebe, "script", "", "resultVariable"),
}

// attrRule matches elements by namespace and local name (both empty match
// any element) and reads one attribute as a variable name.
func attrRule(elNS, elLocal, attrNS, attr string) VariableRule {
	return func(n Node) []string {
		if elLocal != "" && !n.Is(elNS, elLocal) {
			return nil
		}
		v, ok := n.Attr(attrNS, attr)
		if !ok {
			return nil
		}
		if v = strings.TrimSpace(v); v == "" {
			return nil
		}
		return []string{v}
	}
}

// countVariables applies rules to every element below root and returns the
// number of distinct names.
func countVariables(root Node, rules []VariableRule) int {
	seen := make(map[string]struct{})
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, rule := range rules {
			for _, name := range rule(n) {
				seen[name] = struct{}{}
			}
		}
		stack = append(stack, n.Children()...)
	}
	return len(seen)
}
