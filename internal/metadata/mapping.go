// Package metadata defines the vocabulary that connects host-language types
// to their SQL renderings: how a type spells itself at an argument or return
// position, and the stable identifiers by which function signatures are
// matched back to registered types.
package metadata

import "strings"

// MappingKind discriminates the variants of SqlMapping
type MappingKind string

const (
	// MappingLiteral renders as a literal SQL type name
	MappingLiteral MappingKind = "literal"
	// MappingComposite defers the SQL name to the registered composite type at emission
	MappingComposite MappingKind = "composite"
	// MappingSource resolves the SQL name by the host source spelling (type aliases)
	MappingSource MappingKind = "source"
	// MappingSkip marks an internal call-site value that is not part of the SQL signature
	MappingSkip MappingKind = "skip"
)

// SqlMapping describes how one host type position renders in SQL
type SqlMapping struct {
	Kind          MappingKind `json:"kind"`
	Literal       string      `json:"literal,omitempty"`        // MappingLiteral: the SQL type name
	Source        string      `json:"source,omitempty"`         // MappingSource: host source spelling
	ArrayBrackets bool        `json:"array_brackets,omitempty"` // MappingComposite/MappingSource: append []
}

// As returns a mapping that renders as the given literal SQL type name
func As(sql string) SqlMapping {
	return SqlMapping{Kind: MappingLiteral, Literal: sql}
}

// Composite returns a mapping deferred to the owning composite type
func Composite(arrayBrackets bool) SqlMapping {
	return SqlMapping{Kind: MappingComposite, ArrayBrackets: arrayBrackets}
}

// Source returns a mapping resolved by host source spelling
func Source(spelling string, arrayBrackets bool) SqlMapping {
	return SqlMapping{Kind: MappingSource, Source: spelling, ArrayBrackets: arrayBrackets}
}

// Skip returns a mapping for internal call-site values omitted from the SQL signature
func Skip() SqlMapping {
	return SqlMapping{Kind: MappingSkip}
}

// ReturnsKind discriminates the variants of Returns
type ReturnsKind string

const (
	ReturnsOne   ReturnsKind = "one"
	ReturnsSetOf ReturnsKind = "setof"
	ReturnsTable ReturnsKind = "table"
)

// TableColumn is one named column of a table-returning function
type TableColumn struct {
	Name    string     `json:"name,omitempty"`
	Mapping SqlMapping `json:"mapping"`
}

// Returns describes the SQL return shape of a function: a single value,
// a set of values, or a table of named columns
type Returns struct {
	Kind    ReturnsKind   `json:"kind"`
	Mapping *SqlMapping   `json:"mapping,omitempty"` // ReturnsOne, ReturnsSetOf
	Columns []TableColumn `json:"columns,omitempty"` // ReturnsTable
}

// One returns a plain single-value return shape
func One(m SqlMapping) Returns {
	return Returns{Kind: ReturnsOne, Mapping: &m}
}

// SetOf returns a SETOF return shape
func SetOf(m SqlMapping) Returns {
	return Returns{Kind: ReturnsSetOf, Mapping: &m}
}

// Table returns a TABLE(...) return shape
func Table(columns []TableColumn) Returns {
	return Returns{Kind: ReturnsTable, Columns: columns}
}

// IsArray reports whether the mapping renders with trailing array brackets.
// Literal mappings carry brackets inside the literal itself.
func (m SqlMapping) IsArray() bool {
	if m.Kind == MappingLiteral {
		return strings.HasSuffix(m.Literal, "[]")
	}
	return m.ArrayBrackets
}
