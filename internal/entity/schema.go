package entity

// ReservedSchemas are external namespaces that can be referenced but are
// never emitted; declaring them is a registration error.
var ReservedSchemas = map[string]bool{
	"public":     true,
	"pg_catalog": true,
}

// Schema declares one extension schema (namespace). The host module path
// doubles as the full path; the SQL name is the last segment.
type Schema struct {
	common
}

// NewSchema builds a schema descriptor for the given module path
func NewSchema(modulePath string, loc SourceLoc) *Schema {
	return &Schema{common: common{Path: modulePath, Loc: loc}}
}

func (*Schema) Kind() Kind { return KindSchema }

func (s *Schema) DotIdentifier() string { return "schema " + s.Name() }
