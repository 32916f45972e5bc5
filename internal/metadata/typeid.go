package metadata

import (
	"crypto/sha256"
	"fmt"
)

// TypeID is a stable identifier for a host type, comparable across
// compilation units. It is a fingerprint of the fully qualified host path
// plus a role suffix, so the array-of and reference-of forms of the same
// type hash to distinct ids.
type TypeID string

// Role distinguishes the forms under which a single host type can appear
// at a function argument or return position
type Role string

const (
	RoleCanonical Role = "canonical"
	RoleArray     Role = "array"
	RoleReference Role = "reference"
	RoleOption    Role = "option"
	RoleVarlena   Role = "varlena"
)

// IDForPath fingerprints a fully qualified host type path
func IDForPath(path string) TypeID {
	return idFor(path, RoleCanonical)
}

func idFor(path string, role Role) TypeID {
	sum := sha256.Sum256([]byte(path + "#" + string(role)))
	return TypeID(fmt.Sprintf("%x", sum[:16]))
}

// IDSet is the id-mapping set of one registered type: every stable id by
// which the type can be recognized in a function signature, keyed by role.
// Varlena is present only for types with a by-reference varlena form.
type IDSet struct {
	Canonical TypeID `json:"canonical"`
	Array     TypeID `json:"array,omitempty"`
	Reference TypeID `json:"reference,omitempty"`
	Option    TypeID `json:"option,omitempty"`
	Varlena   TypeID `json:"varlena,omitempty"`
}

// IDSetForPath derives the full id-mapping set of a host type path
func IDSetForPath(path string) IDSet {
	return IDSet{
		Canonical: idFor(path, RoleCanonical),
		Array:     idFor(path, RoleArray),
		Reference: idFor(path, RoleReference),
		Option:    idFor(path, RoleOption),
	}
}

// Match reports the role under which id is known to this set
func (s IDSet) Match(id TypeID) (Role, bool) {
	switch id {
	case "":
		return "", false
	case s.Canonical:
		return RoleCanonical, true
	case s.Array:
		return RoleArray, true
	case s.Reference:
		return RoleReference, true
	case s.Option:
		return RoleOption, true
	case s.Varlena:
		return RoleVarlena, true
	}
	return "", false
}
