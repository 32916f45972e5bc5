package entity

import "github.com/pgrxgen/pgrxgen/internal/metadata"

// Enum declares a host enumeration exposed as a SQL ENUM type
type Enum struct {
	common
	Variants []string       `json:"variants"`
	IDs      metadata.IDSet `json:"ids"`
}

// NewEnum builds an enum descriptor; the id-mapping set is derived from the path
func NewEnum(path string, variants []string, loc SourceLoc) *Enum {
	return &Enum{
		common:   common{Path: path, Loc: loc},
		Variants: variants,
		IDs:      metadata.IDSetForPath(path),
	}
}

func (*Enum) Kind() Kind { return KindEnum }

func (e *Enum) DotIdentifier() string { return "enum " + e.FullPath() }
