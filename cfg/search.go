package cfg

import "github.com/viant/rvlint/isa"

// FindFirstWriter performs a backward BFS from start over Prevs, looking
// for the first node that writes reg. Used to annotate the real source
// of a callee-saved-register violation rather than just its symptom
// (spec.md §4.10 CalleeSavedRegister).
func FindFirstWriter(c *CFG, start int, reg isa.Register) []int {
	visited := map[int]bool{start: true}
	queue := append([]int(nil), c.Nodes[start].Prevs...)
	for _, p := range queue {
		visited[p] = true
	}
	var found []int
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		if rd, ok := c.Nodes[n].PNode.Writes(); ok && rd == reg {
			found = append(found, n)
			continue
		}
		for _, p := range c.Nodes[n].Prevs {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return found
}

// FindFirstUse performs a forward BFS from start over Nexts, stopping at
// the first node that reads reg (spec.md §4.10 InvalidUseAfterCall wants
// the actual use site closest to the call, not every later one).
func FindFirstUse(c *CFG, start int, reg isa.Register) (int, bool) {
	visited := map[int]bool{start: true}
	queue := append([]int(nil), c.Nodes[start].Nexts...)
	for _, n := range queue {
		visited[n] = true
	}
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		for _, r := range c.Nodes[n].PNode.Reads() {
			if r == reg {
				return n, true
			}
		}
		for _, nx := range c.Nodes[n].Nexts {
			if !visited[nx] {
				visited[nx] = true
				queue = append(queue, nx)
			}
		}
	}
	return 0, false
}
