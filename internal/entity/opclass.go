package entity

import "strings"

// HashOpClass declares the default hash operator class for a type. The
// class derives from a registered function named <type>_hash taking the
// type and returning a 32-bit hash.
type HashOpClass struct {
	common
	// TypePath is the full path of the hashed type
	TypePath string `json:"type_path"`
}

// NewHashOpClass builds a hash opclass descriptor for the given type path
func NewHashOpClass(typePath string, loc SourceLoc) *HashOpClass {
	return &HashOpClass{
		common:   common{Path: typePath + PathSep + derivedName(typePath, "hash"), Loc: loc},
		TypePath: typePath,
	}
}

func (*HashOpClass) Kind() Kind { return KindHashOpClass }

func (h *HashOpClass) DotIdentifier() string { return "hash opclass " + h.TypePath }

// HashFnName is the bare name of the function the opclass derives from
func (h *HashOpClass) HashFnName() string { return derivedName(h.TypePath, "hash") }

// OrdOpClass declares the default btree operator class for a type,
// derived from a registered function named <type>_cmp.
type OrdOpClass struct {
	common
	TypePath string `json:"type_path"`
}

// NewOrdOpClass builds a btree opclass descriptor for the given type path
func NewOrdOpClass(typePath string, loc SourceLoc) *OrdOpClass {
	return &OrdOpClass{
		common:   common{Path: typePath + PathSep + derivedName(typePath, "cmp"), Loc: loc},
		TypePath: typePath,
	}
}

func (*OrdOpClass) Kind() Kind { return KindOrdOpClass }

func (o *OrdOpClass) DotIdentifier() string { return "ord opclass " + o.TypePath }

// CmpFnName is the bare name of the function the opclass derives from
func (o *OrdOpClass) CmpFnName() string { return derivedName(o.TypePath, "cmp") }

// derivedName lowers the type name and appends the opclass suffix, e.g.
// demo::Color -> color_hash
func derivedName(typePath, suffix string) string {
	return strings.ToLower(BareName(typePath)) + "_" + suffix
}
