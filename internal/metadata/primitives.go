package metadata

// primitiveSQL maps host primitive spellings to the SQL type names the
// emitter writes into signatures. Spellings match Postgres internal names
// where the two differ; the handful of uppercase renderings are kept
// byte-for-byte stable because installers diff generated scripts.
var primitiveSQL = map[string]string{
	// Boolean
	"bool":    "bool",
	"boolean": "bool",
	// Integers
	"i8":       "\"char\"",
	"i16":      "smallint",
	"smallint": "smallint",
	"i32":      "INT",
	"int":      "INT",
	"int4":     "INT",
	"integer":  "INT",
	"i64":      "bigint",
	"int8":     "bigint",
	"bigint":   "bigint",
	// Floating point
	"f32":              "real",
	"real":             "real",
	"f64":              "double precision",
	"double precision": "double precision",
	// Text
	"str":     "TEXT",
	"string":  "TEXT",
	"text":    "TEXT",
	"char":    "varchar",
	"varchar": "varchar",
	// Binary
	"bytes": "bytea",
	"bytea": "bytea",
	// Structured
	"json":  "json",
	"jsonb": "jsonb",
	"xml":   "xml",
	// Identifiers
	"uuid": "uuid",
	"oid":  "oid",
	// Date/time
	"date":        "date",
	"time":        "time",
	"timetz":      "time with time zone",
	"timestamp":   "timestamp",
	"timestamptz": "timestamp with time zone",
	"interval":    "interval",
	// Numeric
	"numeric": "numeric",
	// Network
	"inet":    "inet",
	"cidr":    "cidr",
	"macaddr": "macaddr",
	// Geometric
	"point": "point",
	"box":   "box",
	// Text search
	"tsvector": "tsvector",
	"tsquery":  "tsquery",
	// Misc
	"money":  "money",
	"pg_lsn": "pg_lsn",
	"void":   "void",
}

// PrimitiveSQL returns the SQL spelling of a built-in primitive host type
func PrimitiveSQL(host string) (string, bool) {
	sql, ok := primitiveSQL[host]
	return sql, ok
}

// IsPrimitive reports whether the host spelling names a built-in SQL type
func IsPrimitive(host string) bool {
	_, ok := primitiveSQL[host]
	return ok
}

// Primitives returns the full host-spelling to SQL-name table, used by
// tests to verify round-trip signatures
func Primitives() map[string]string {
	table := make(map[string]string, len(primitiveSQL))
	for host, sql := range primitiveSQL {
		table[host] = sql
	}
	return table
}
