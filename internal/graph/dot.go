package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Graphviz styling per node kind. Types are diamonds, callables ellipses,
// namespaces boxes, raw SQL notes.
var dotNodeStyle = map[NodeKind]string{
	NodeBootstrapAnchor:     `shape=point`,
	NodeExtensionRoot:       `shape=doublecircle, label="root"`,
	NodeFinalizeAnchor:      `shape=point`,
	NodeSchema:              `shape=box, style=filled, fillcolor=lightyellow`,
	NodeEnum:                `shape=diamond, style=filled, fillcolor=lightblue`,
	NodeCompositeShell:      `shape=diamond, style=dashed`,
	NodeCompositeConcrete:   `shape=diamond, style=filled, fillcolor=lightblue`,
	NodeFunction:            `shape=ellipse`,
	NodeFunctionCompositeIO: `shape=ellipse, style=dashed`,
	NodeOperator:            `shape=ellipse, style=filled, fillcolor=lightgray`,
	NodeHashOpClass:         `shape=hexagon`,
	NodeOrdOpClass:          `shape=hexagon`,
	NodeTrigger:             `shape=ellipse, peripheries=2`,
	NodeAggregate:           `shape=ellipse, peripheries=2`,
	NodeRawSQL:              `shape=note, style=filled, fillcolor=lightpink`,
}

var dotEdgeColor = map[EdgeClass]string{
	EdgeRequires:     "black",
	EdgeInSchema:     "gray",
	EdgeUsesType:     "blue",
	EdgeUsesFunction: "green",
	EdgeBefore:       "red",
}

// WriteDOT renders the graph in Graphviz DOT form for inspection. Output
// is deterministic: nodes in index order, edges sorted.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph schema {\n")
	b.WriteString("    rankdir=TB;\n")
	b.WriteString("    node [fontsize=10];\n")
	b.WriteString("    edge [fontsize=8];\n\n")

	for idx, n := range g.Nodes {
		label := n.Path
		if n.Desc != nil {
			label = n.Desc.DotIdentifier()
		}
		if n.Kind == NodeCompositeShell {
			label += " (shell)"
		}
		style := dotNodeStyle[n.Kind]
		if label != "" {
			fmt.Fprintf(&b, "    n%d [%s, label=%q];\n", idx, style, label)
		} else {
			fmt.Fprintf(&b, "    n%d [%s];\n", idx, style)
		}
	}
	b.WriteString("\n")

	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Class == EdgeProvidesName {
			continue
		}
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Class < edges[j].Class
	})
	for _, e := range edges {
		fmt.Fprintf(&b, "    n%d -> n%d [color=%s, label=%q];\n",
			e.From, e.To, dotEdgeColor[e.Class], e.Class.String())
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
