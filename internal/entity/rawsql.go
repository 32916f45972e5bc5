package entity

// RawSQL declares an opaque SQL block emitted verbatim. The body is never
// parsed; ordering is driven entirely by the declared positioning
// directives. Creates registers named handles other blocks can name in
// Requires; Before/After/Requires hold positioning references (full path
// first, bare name fallback).
type RawSQL struct {
	common
	SQL       string   `json:"sql"`
	Bootstrap bool     `json:"bootstrap,omitempty"`
	Finalize  bool     `json:"finalize,omitempty"`
	Before    []string `json:"before,omitempty"`
	After     []string `json:"after,omitempty"`
	Requires  []string `json:"requires,omitempty"`
	Creates   []string `json:"creates,omitempty"`
}

// NewRawSQL builds a raw SQL descriptor
func NewRawSQL(path, sql string, loc SourceLoc) *RawSQL {
	return &RawSQL{
		common: common{Path: path, Loc: loc},
		SQL:    sql,
	}
}

func (*RawSQL) Kind() Kind { return KindRawSQL }

func (r *RawSQL) DotIdentifier() string { return "sql " + r.FullPath() }
