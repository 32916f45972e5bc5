// Package graph builds the typed dependency graph over a collected
// descriptor population and produces the total emission order. Nodes are
// entities (plus three synthetic anchors); edges are typed; the solver is
// a Kahn traversal with a deterministic secondary key, so a fixed input
// population always yields the same order.
package graph

import (
	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

// NodeKind discriminates graph nodes. Composites with IO functions occupy
// two nodes, shell and concrete, sharing one descriptor; the split is what
// linearizes the type/IO-function cycle.
type NodeKind int

const (
	NodeBootstrapAnchor NodeKind = iota
	NodeExtensionRoot
	NodeSchema
	NodeEnum
	NodeCompositeShell
	NodeFunctionCompositeIO
	NodeCompositeConcrete
	NodeFunction
	NodeOperator
	NodeHashOpClass
	NodeOrdOpClass
	NodeTrigger
	NodeAggregate
	NodeRawSQL
	NodeFinalizeAnchor
)

var nodeKindNames = map[NodeKind]string{
	NodeBootstrapAnchor:     "bootstrap_anchor",
	NodeExtensionRoot:       "extension_root",
	NodeSchema:              "schema",
	NodeEnum:                "enum",
	NodeCompositeShell:      "composite_shell",
	NodeFunctionCompositeIO: "composite_io_function",
	NodeCompositeConcrete:   "composite",
	NodeFunction:            "function",
	NodeOperator:            "operator",
	NodeHashOpClass:         "hash_opclass",
	NodeOrdOpClass:          "ord_opclass",
	NodeTrigger:             "trigger",
	NodeAggregate:           "aggregate",
	NodeRawSQL:              "sql",
	NodeFinalizeAnchor:      "finalize_anchor",
}

func (k NodeKind) String() string { return nodeKindNames[k] }

// Rank is the solver's primary tie-break key: among unconstrained nodes,
// lower kinds emit first. The NodeKind declaration order is the rank
// order, with hash and ord opclasses sharing a rank.
func (k NodeKind) Rank() int {
	if k == NodeOrdOpClass {
		return int(NodeHashOpClass)
	}
	return int(k)
}

// Synthetic reports whether the node emits no SQL of its own
func (k NodeKind) Synthetic() bool {
	return k == NodeBootstrapAnchor || k == NodeExtensionRoot || k == NodeFinalizeAnchor
}

// EdgeClass types graph edges
type EdgeClass int

const (
	// EdgeRequires is a hard ordering: target precedes source
	EdgeRequires EdgeClass = iota
	// EdgeInSchema places source inside target schema; implies requires
	EdgeInSchema
	// EdgeUsesType records a signature type use; implies requires
	EdgeUsesType
	// EdgeUsesFunction records a function use; implies requires
	EdgeUsesFunction
	// EdgeBefore is a reverse ordering: source precedes target
	EdgeBefore
	// EdgeProvidesName has no ordering implication; it records a
	// creates[] handle for diagnostics
	EdgeProvidesName
)

var edgeClassNames = map[EdgeClass]string{
	EdgeRequires:     "requires",
	EdgeInSchema:     "in-schema",
	EdgeUsesType:     "uses-type",
	EdgeUsesFunction: "uses-function",
	EdgeBefore:       "before",
	EdgeProvidesName: "provides-name",
}

func (c EdgeClass) String() string { return edgeClassNames[c] }

// Edge is one typed edge between node indices
type Edge struct {
	From  int
	To    int
	Class EdgeClass
}

// ResolvedType is a type position after signature resolution: either a
// literal SQL spelling (primitives, explicit mappings) or a reference to
// a registered type node, optionally array-bracketed
type ResolvedType struct {
	SQL   string // literal spelling; empty when Node >= 0
	Node  int    // registered type node, -1 for literals
	Array bool
}

// ResolvedArg is one signature argument after resolution
type ResolvedArg struct {
	Name     string
	Type     ResolvedType
	Default  *string
	Variadic bool
}

// ResolvedColumn is one column of a resolved TABLE return
type ResolvedColumn struct {
	Name string
	Type ResolvedType
}

// ResolvedReturn is a return shape after resolution
type ResolvedReturn struct {
	Kind    entity.ReturnKind
	Type    ResolvedType
	Columns []ResolvedColumn
}

// FnSig is the fully resolved SQL signature of a function node
type FnSig struct {
	Args []ResolvedArg
	Ret  ResolvedReturn
}

// AggSig holds the resolved type positions of an aggregate node. An unset
// MovingState or Final has SQL == "" and Node == -1.
type AggSig struct {
	State          ResolvedType
	MovingState    ResolvedType
	Args           []ResolvedArg
	OrderedSetArgs []ResolvedArg
}

// Node is one graph node. Desc is nil for the synthetic nodes. Sig is set
// on function nodes; FnRef points at the backing function for operator,
// opclass, and trigger nodes; TypeRef points at the operated type for
// opclass nodes. Unused references are -1.
type Node struct {
	Kind    NodeKind
	Path    string
	Desc    entity.Descriptor
	Sig     *FnSig
	FnRef   int
	TypeRef int
}

// typeRef locates a registered type for signature resolution
type typeRef struct {
	node int
	ids  metadata.IDSet
}

// Graph is the built dependency graph. It exclusively owns node storage;
// edges are indices into it. After Build returns, the graph is read-only.
type Graph struct {
	Nodes []Node
	Edges []Edge

	Root      int
	Bootstrap int
	Finalize  int

	// BootstrapSQL and FinalizeSQL index the user SQL blocks holding the
	// anchors, or -1 when absent
	BootstrapSQL int
	FinalizeSQL  int

	// AggSigs holds resolved aggregate signatures by node index
	AggSigs map[int]*AggSig

	byPath   map[string][]int
	byName   map[string][]int
	types    []typeRef
	bySource map[string]int // host source spelling -> type node
	schemaOf map[int]int    // node -> owning schema node
}

// addNode appends a node and indexes its path and bare name
func (g *Graph) addNode(n Node) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	if n.Path != "" {
		g.byPath[n.Path] = append(g.byPath[n.Path], idx)
		g.byName[entity.BareName(n.Path)] = append(g.byName[entity.BareName(n.Path)], idx)
	}
	return idx
}

// addNodeNoIndex appends a node without touching the name indices. Shell
// nodes share a path with their concrete form and operator nodes shadow
// their function; neither may be a name-resolution target.
func (g *Graph) addNodeNoIndex(n Node) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return idx
}

func (g *Graph) addEdge(from, to int, class EdgeClass) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Class: class})
}

// SchemaOf returns the owning schema node, or -1 for the default schema
func (g *Graph) SchemaOf(node int) int {
	if schema, ok := g.schemaOf[node]; ok {
		return schema
	}
	return -1
}

// TypeNodeByID resolves a stable type id across every registered
// id-mapping set
func (g *Graph) TypeNodeByID(id metadata.TypeID) (int, metadata.Role, bool) {
	for _, ref := range g.types {
		if role, ok := ref.ids.Match(id); ok {
			return ref.node, role, true
		}
	}
	return -1, "", false
}

// TypeNodeBySource resolves a host source spelling to a registered type
// node: full path first, then bare type name (the alias fallback)
func (g *Graph) TypeNodeBySource(spelling string) (int, bool) {
	node, ok := g.bySource[spelling]
	return node, ok
}
