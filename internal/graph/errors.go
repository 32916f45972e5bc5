package graph

import (
	"fmt"
	"strings"
)

// UnresolvedReference reports a positional or type reference that matched
// no registered entity
type UnresolvedReference struct {
	From string // full path of the referring entity
	To   string // the reference that failed to resolve
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("%s references %q, which resolves to no known entity", e.From, e.To)
}

// AmbiguousReference reports a bare-name reference that matched more than
// one candidate; the listing lets the user qualify the reference
type AmbiguousReference struct {
	From       string
	Target     string
	Candidates []string // full paths of every match
}

func (e *AmbiguousReference) Error() string {
	return fmt.Sprintf("%s references %q ambiguously; candidates: %s",
		e.From, e.Target, strings.Join(e.Candidates, ", "))
}

// AnchorKind names the two ordering anchors
type AnchorKind string

const (
	AnchorBootstrap AnchorKind = "bootstrap"
	AnchorFinalize  AnchorKind = "finalize"
)

// DuplicateAnchor reports more than one bootstrap or finalize block
type DuplicateAnchor struct {
	Kind  AnchorKind
	First string // full path of the block already holding the anchor
	Extra string // full path of the conflicting block
}

func (e *DuplicateAnchor) Error() string {
	return fmt.Sprintf("duplicate %s block: %s conflicts with %s", e.Kind, e.Extra, e.First)
}

// CyclicDependency reports a dependency cycle the solver cannot order.
// SCC holds the full paths of the strongly connected component.
type CyclicDependency struct {
	SCC []string
}

func (e *CyclicDependency) Error() string {
	return fmt.Sprintf("cyclic dependency between: %s", strings.Join(e.SCC, ", "))
}

// Dot renders the component as a DOT digraph for stderr diagnostics
func (e *CyclicDependency) Dot() string {
	var b strings.Builder
	b.WriteString("digraph cycle {\n")
	for i, path := range e.SCC {
		next := e.SCC[(i+1)%len(e.SCC)]
		fmt.Fprintf(&b, "    %q -> %q;\n", path, next)
	}
	b.WriteString("}\n")
	return b.String()
}
