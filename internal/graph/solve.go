package graph

import (
	"container/heap"
	"sort"

	"github.com/pgrxgen/pgrxgen/internal/logger"
)

// Solve produces the total emission order as node indices. The traversal
// is Kahn's algorithm over the dependency relation, with ready nodes drawn
// from a priority queue keyed on (kind rank, full path) so equal inputs
// always produce byte-equal orders. A graph that cannot be linearized
// yields a CyclicDependency naming one strongly connected component.
func (g *Graph) Solve() ([]int, error) {
	deps := g.dependencies()

	indegree := make([]int, len(g.Nodes))
	dependents := make([][]int, len(g.Nodes))
	for node, ds := range deps {
		indegree[node] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], node)
		}
	}

	ready := &nodeQueue{g: g}
	heap.Init(ready)
	for node := range g.Nodes {
		if indegree[node] == 0 {
			heap.Push(ready, node)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for ready.Len() > 0 {
		node := heap.Pop(ready).(int)
		order = append(order, node)
		for _, dep := range dependents[node] {
			indegree[dep]--
			if indegree[dep] == 0 {
				heap.Push(ready, dep)
			}
		}
	}

	if len(order) < len(g.Nodes) {
		return nil, &CyclicDependency{SCC: g.cyclePaths(deps, indegree)}
	}

	logger.Get().Debug("emission order solved", "nodes", len(order))
	return order, nil
}

// dependencies flattens the typed edges plus the anchor constraints into a
// plain adjacency list: deps[n] lists the nodes n must follow
func (g *Graph) dependencies() [][]int {
	deps := make([][]int, len(g.Nodes))
	add := func(node, dep int) {
		if node == dep {
			return
		}
		deps[node] = append(deps[node], dep)
	}

	for _, e := range g.Edges {
		switch e.Class {
		case EdgeRequires, EdgeInSchema, EdgeUsesType, EdgeUsesFunction:
			add(e.From, e.To)
		case EdgeBefore:
			add(e.To, e.From)
		case EdgeProvidesName:
			// name resolution only
		}
	}

	// Anchor constraints: everything sits between the bootstrap and
	// finalize anchors, and the user bootstrap/finalize blocks pin
	// against every other node
	for node := range g.Nodes {
		if node == g.Bootstrap || node == g.Finalize {
			continue
		}
		add(node, g.Bootstrap)
		add(g.Finalize, node)

		if g.BootstrapSQL >= 0 && node != g.BootstrapSQL {
			add(node, g.BootstrapSQL)
		}
		if g.FinalizeSQL >= 0 && node != g.FinalizeSQL {
			add(g.FinalizeSQL, node)
		}
	}
	return deps
}

// cyclePaths extracts one offending strongly connected component from the
// nodes Kahn could not drain, via Tarjan's algorithm restricted to them
func (g *Graph) cyclePaths(deps [][]int, indegree []int) []string {
	stuck := map[int]bool{}
	for node, degree := range indegree {
		if degree > 0 {
			stuck[node] = true
		}
	}

	t := &tarjan{
		deps:    deps,
		stuck:   stuck,
		index:   map[int]int{},
		lowlink: map[int]int{},
		onStack: map[int]bool{},
	}
	var nodes []int
	for node := range stuck {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)
	for _, node := range nodes {
		if _, visited := t.index[node]; !visited {
			t.connect(node)
		}
	}

	best := t.cycle
	paths := make([]string, 0, len(best))
	for _, node := range best {
		paths = append(paths, g.Nodes[node].Path)
	}
	sort.Strings(paths)
	return paths
}

type tarjan struct {
	deps    [][]int
	stuck   map[int]bool
	counter int
	index   map[int]int
	lowlink map[int]int
	stack   []int
	onStack map[int]bool
	cycle   []int // first non-trivial SCC found
}

func (t *tarjan) connect(node int) {
	t.index[node] = t.counter
	t.lowlink[node] = t.counter
	t.counter++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for _, dep := range t.deps[node] {
		if !t.stuck[dep] {
			continue
		}
		if _, visited := t.index[dep]; !visited {
			t.connect(dep)
			if t.lowlink[dep] < t.lowlink[node] {
				t.lowlink[node] = t.lowlink[dep]
			}
		} else if t.onStack[dep] {
			if t.index[dep] < t.lowlink[node] {
				t.lowlink[node] = t.index[dep]
			}
		}
	}

	if t.lowlink[node] == t.index[node] {
		var scc []int
		for {
			top := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[top] = false
			scc = append(scc, top)
			if top == node {
				break
			}
		}
		if len(scc) > 1 && t.cycle == nil {
			t.cycle = scc
		}
	}
}

// nodeQueue is the ready queue: a min-heap over (kind rank, full path)
type nodeQueue struct {
	g     *Graph
	items []int
}

func (q *nodeQueue) Len() int { return len(q.items) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := &q.g.Nodes[q.items[i]], &q.g.Nodes[q.items[j]]
	if ra, rb := a.Kind.Rank(), b.Kind.Rank(); ra != rb {
		return ra < rb
	}
	return a.Path < b.Path
}

func (q *nodeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *nodeQueue) Push(x any) { q.items = append(q.items, x.(int)) }

func (q *nodeQueue) Pop() any {
	last := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return last
}
