package entity

import "github.com/pgrxgen/pgrxgen/internal/metadata"

// Attribute is one named field of a record-form composite type
type Attribute struct {
	Name    string              `json:"name"`
	Mapping metadata.SqlMapping `json:"mapping"`
}

// Composite declares a host type exposed as a SQL type. Two forms exist:
//
//   - varlena form: InFn/OutFn name the text IO functions; the type is
//     emitted split as shell, IO functions, then the concrete CREATE TYPE
//     naming INPUT and OUTPUT (the IO functions take the type itself, so
//     the split is what breaks the declaration cycle);
//   - record form: Attributes lists the fields and the type is emitted in
//     one statement as CREATE TYPE ... AS (...).
//
// Exactly one form must be populated; the graph builder rejects the rest.
type Composite struct {
	common
	InFn       string         `json:"in_fn,omitempty"`  // bare name of the input function
	OutFn      string         `json:"out_fn,omitempty"` // bare name of the output function
	Attributes []Attribute    `json:"attributes,omitempty"`
	IDs        metadata.IDSet `json:"ids"`
}

// NewComposite builds a varlena-form composite descriptor
func NewComposite(path, inFn, outFn string, loc SourceLoc) *Composite {
	return &Composite{
		common: common{Path: path, Loc: loc},
		InFn:   inFn,
		OutFn:  outFn,
		IDs:    metadata.IDSetForPath(path),
	}
}

// NewRecordComposite builds a record-form composite descriptor
func NewRecordComposite(path string, attributes []Attribute, loc SourceLoc) *Composite {
	return &Composite{
		common:     common{Path: path, Loc: loc},
		Attributes: attributes,
		IDs:        metadata.IDSetForPath(path),
	}
}

func (*Composite) Kind() Kind { return KindComposite }

func (c *Composite) DotIdentifier() string { return "type " + c.FullPath() }

// Split reports whether the composite uses the shell/concrete split emission
func (c *Composite) Split() bool { return c.InFn != "" || c.OutFn != "" }
