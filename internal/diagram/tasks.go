package diagram

// flowContainers are the BPMN elements whose children are flow elements.
var flowContainers = map[string]bool{
	"process":         true,
	"subProcess":      true,
	"adHocSubProcess": true,
	"transaction":     true,
}

// userTasks collects every bpmn:userTask reachable from definitions.
// Containers are visited once each through an explicit worklist; pools
// (collaboration participants) are followed through their processRef.
func userTasks(definitions Node) []Node {
	processes := make(map[string]Node)
	for _, c := range definitions.Children() {
		if c.Is(NSBPMN, "process") {
			if id, ok := c.Attr("", "id"); ok {
				processes[id] = c
			}
		}
	}

	visited := make(map[Node]bool)
	stack := []Node{definitions}
	visited[definitions] = true
	push := func(n Node) {
		if !visited[n] {
			visited[n] = true
			stack = append(stack, n)
		}
	}

	var tasks []Node
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range cur.Children() {
			if c.Namespace() != NSBPMN {
				continue
			}
			switch name := c.Local(); {
			case name == "userTask":
				tasks = append(tasks, c)
			case flowContainers[name]:
				push(c)
			case name == "collaboration":
				for _, p := range c.Children() {
					if !p.Is(NSBPMN, "participant") {
						continue
					}
					ref, _ := p.Attr("", "processRef")
					if proc, ok := processes[ref]; ok {
						push(proc)
					}
				}
			}
		}
	}
	return tasks
}
