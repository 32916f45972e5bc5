// Package entity defines the descriptor records for every SQL-visible item
// an extension declares. A descriptor is an immutable, serializable record
// produced at host compile time and collected once per generator run; it
// carries its source location, a stable identity, and the kind-specific
// payload the emitter renders from.
//
// Descriptors never embed graph indices. Cross-references are by stable
// type id or by positioning reference, resolved during graph build.
package entity

import (
	"fmt"
	"strings"
)

// Kind discriminates descriptor variants
type Kind string

const (
	KindSchema      Kind = "schema"
	KindEnum        Kind = "enum"
	KindComposite   Kind = "composite"
	KindFunction    Kind = "function"
	KindOperator    Kind = "operator"
	KindHashOpClass Kind = "hash_opclass"
	KindOrdOpClass  Kind = "ord_opclass"
	KindTrigger     Kind = "trigger"
	KindAggregate   Kind = "aggregate"
	KindRawSQL      Kind = "sql"
)

// SourceLoc records where an item was declared in the extension source
type SourceLoc struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l SourceLoc) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Descriptor is the read-only surface shared by every entity variant
type Descriptor interface {
	Kind() Kind
	// FullPath is the fully qualified host path, e.g. "demo::greet"
	FullPath() string
	// Name is the bare item name, the last path segment
	Name() string
	// Module is the owning module path, empty for top-level items
	Module() string
	Source() SourceLoc
	// DotIdentifier labels the node in GraphViz output
	DotIdentifier() string
}

// PathSep separates segments of a host module path
const PathSep = "::"

// BareName returns the last segment of a host path
func BareName(path string) string {
	if idx := strings.LastIndex(path, PathSep); idx != -1 {
		return path[idx+len(PathSep):]
	}
	return path
}

// ModuleOf returns the owning module of a host path, empty for top-level paths
func ModuleOf(path string) string {
	if idx := strings.LastIndex(path, PathSep); idx != -1 {
		return path[:idx]
	}
	return ""
}

// common carries the fields every descriptor variant shares
type common struct {
	Path string    `json:"path"`
	Loc  SourceLoc `json:"loc"`
}

func (c common) FullPath() string  { return c.Path }
func (c common) Name() string      { return BareName(c.Path) }
func (c common) Module() string    { return ModuleOf(c.Path) }
func (c common) Source() SourceLoc { return c.Loc }
