package pgrxgen

import (
	"github.com/pgrxgen/pgrxgen/internal/collect"
	"github.com/pgrxgen/pgrxgen/internal/emit"
	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/graph"
)

// Re-export important types for external consumption

// Descriptor is the read-only surface of one SQL-visible entity record.
type Descriptor = entity.Descriptor

// Set is an unordered descriptor population collected from an extension.
type Set = collect.Set

// Registry collects descriptor producers registered in-process.
type Registry = collect.Registry

// Producer yields one descriptor when invoked during collection.
type Producer = collect.Producer

// Graph is the typed dependency graph over a descriptor population.
type Graph = graph.Graph

// Script is the rendered install script before it reaches disk.
type Script = emit.Script

// ProducerFault reports a descriptor producer that terminated abnormally.
type ProducerFault = collect.ProducerFault

// UnresolvedReference reports a reference that matched no known entity.
type UnresolvedReference = graph.UnresolvedReference

// AmbiguousReference reports a bare-name reference with multiple matches.
type AmbiguousReference = graph.AmbiguousReference

// DuplicateAnchor reports more than one bootstrap or finalize block.
type DuplicateAnchor = graph.DuplicateAnchor

// CyclicDependency reports a dependency cycle the solver cannot order.
type CyclicDependency = graph.CyclicDependency

// EmissionIO reports a failure writing an output file.
type EmissionIO = emit.EmissionIO
