package entity

import "github.com/pgrxgen/pgrxgen/internal/metadata"

// Argument is one declared function argument. UsedType carries the stable
// id looked up across every registered id-mapping set; HostType is the
// source spelling used for primitive matching and alias fallback. An
// explicit Mapping overrides both (As / Skip decorations).
type Argument struct {
	Name     string               `json:"name"`
	UsedType metadata.TypeID      `json:"used_type,omitempty"`
	HostType string               `json:"host_type,omitempty"`
	Mapping  *metadata.SqlMapping `json:"mapping,omitempty"`
	Default  *string              `json:"default,omitempty"`
	Variadic bool                 `json:"variadic,omitempty"`
	Optional bool                 `json:"optional,omitempty"`
}

// ReturnKind discriminates the return shape of a function
type ReturnKind string

const (
	ReturnNone    ReturnKind = "none"
	ReturnOne     ReturnKind = "one"
	ReturnSetOf   ReturnKind = "setof"
	ReturnTable   ReturnKind = "table"
	ReturnTrigger ReturnKind = "trigger"
)

// ReturnColumn is one column of a table-returning function
type ReturnColumn struct {
	Name     string               `json:"name,omitempty"`
	UsedType metadata.TypeID      `json:"used_type,omitempty"`
	HostType string               `json:"host_type,omitempty"`
	Mapping  *metadata.SqlMapping `json:"mapping,omitempty"`
}

// Return describes what a function returns. One and SetOf use the
// UsedType/HostType/Mapping triple; Table uses Columns. A trigger return
// selects the trigger-function emitter instead of the regular one.
type Return struct {
	Kind     ReturnKind           `json:"kind"`
	UsedType metadata.TypeID      `json:"used_type,omitempty"`
	HostType string               `json:"host_type,omitempty"`
	Mapping  *metadata.SqlMapping `json:"mapping,omitempty"`
	Columns  []ReturnColumn       `json:"columns,omitempty"`
}

// Operator is the operator decoration a function may carry. Commutator and
// negator are operator names resolved against other declared operators
// during linkage; unresolvable references are left to Postgres, which
// accepts forward operator references.
type Operator struct {
	Opname     string `json:"opname"`
	Commutator string `json:"commutator,omitempty"`
	Negator    string `json:"negator,omitempty"`
	Restrict   string `json:"restrict,omitempty"`
	Join       string `json:"join,omitempty"`
	Hashes     bool   `json:"hashes,omitempty"`
	Merges     bool   `json:"merges,omitempty"`
}

// Function declares one extension function callable from SQL
type Function struct {
	common
	WrapperSymbol string     `json:"wrapper_symbol"`
	Arguments     []Argument `json:"arguments,omitempty"`
	Returns       Return     `json:"returns"`
	Strict        bool       `json:"strict,omitempty"`
	Volatility    string     `json:"volatility,omitempty"` // IMMUTABLE, STABLE, VOLATILE
	Parallel      string     `json:"parallel,omitempty"`   // SAFE, RESTRICTED, UNSAFE
	SearchPath    []string   `json:"search_path,omitempty"`
	Operator      *Operator  `json:"operator,omitempty"`
	// Requires, Before, and After hold positioning references using the
	// same vocabulary as raw SQL blocks
	Requires []string `json:"requires,omitempty"`
	Before   []string `json:"before,omitempty"`
	After    []string `json:"after,omitempty"`
}

// NewFunction builds a function descriptor with the default wrapper symbol
func NewFunction(path string, loc SourceLoc) *Function {
	return &Function{
		common:        common{Path: path, Loc: loc},
		WrapperSymbol: BareName(path) + "_wrapper",
		Strict:        true,
	}
}

func (*Function) Kind() Kind { return KindFunction }

func (f *Function) DotIdentifier() string {
	if f.Returns.Kind == ReturnTrigger {
		return "trigger fn " + f.FullPath()
	}
	return "fn " + f.FullPath()
}

// SignatureArguments returns the arguments that appear in the SQL
// signature; skipped internal arguments keep their wrapper position but
// are excluded here.
func (f *Function) SignatureArguments() []Argument {
	args := make([]Argument, 0, len(f.Arguments))
	for _, arg := range f.Arguments {
		if arg.Mapping != nil && arg.Mapping.Kind == metadata.MappingSkip {
			continue
		}
		args = append(args, arg)
	}
	return args
}
