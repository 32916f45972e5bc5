package metadata

import "fmt"

// SqlTranslatable is the capability every host type with SQL visibility
// implements: it can spell itself at an argument position and at a return
// position, and declares variadic/optional behavior. Both queries are
// fallible; a forbidden shape surfaces as *ArgumentError or *ReturnsError
// and aborts generation.
type SqlTranslatable interface {
	ArgumentSQL() (SqlMapping, error)
	ReturnSQL() (Returns, error)
	Variadic() bool
	Optional() bool
}

// base provides the non-variadic, non-optional defaults
type base struct{}

func (base) Variadic() bool { return false }
func (base) Optional() bool { return false }

// Primitive is a built-in SQL type identified by its host spelling
type Primitive struct {
	base
	Host string
}

func (p Primitive) ArgumentSQL() (SqlMapping, error) {
	if p.Host == "u8" {
		return SqlMapping{}, &ArgumentError{Code: ArgBareU8, HostType: p.Host}
	}
	sql, ok := PrimitiveSQL(p.Host)
	if !ok {
		return SqlMapping{}, fmt.Errorf("unknown primitive type %q", p.Host)
	}
	return As(sql), nil
}

func (p Primitive) ReturnSQL() (Returns, error) {
	if p.Host == "u8" {
		return Returns{}, &ReturnsError{Code: RetBareU8, HostType: p.Host}
	}
	sql, ok := PrimitiveSQL(p.Host)
	if !ok {
		return Returns{}, fmt.Errorf("unknown primitive type %q", p.Host)
	}
	return One(As(sql)), nil
}

// Datum is a raw datum with no inherent SQL rendering
type Datum struct {
	base
}

func (Datum) ArgumentSQL() (SqlMapping, error) {
	return SqlMapping{}, &ArgumentError{Code: ArgDatum}
}

func (Datum) ReturnSQL() (Returns, error) {
	return Returns{}, &ReturnsError{Code: RetDatum}
}

// Internal is an internal call-site value excluded from the SQL signature
type Internal struct {
	base
}

func (Internal) ArgumentSQL() (SqlMapping, error) { return Skip(), nil }
func (Internal) ReturnSQL() (Returns, error)      { return One(Skip()), nil }

// CompositeRef names a registered composite type; the SQL spelling is
// deferred to the owning entity at emission
type CompositeRef struct {
	base
}

func (CompositeRef) ArgumentSQL() (SqlMapping, error) { return Composite(false), nil }
func (CompositeRef) ReturnSQL() (Returns, error)      { return One(Composite(false)), nil }

// Alias resolves by host source spelling, the documented fallback for
// type aliases that carry no stable id
type Alias struct {
	base
	Spelling string
}

func (a Alias) ArgumentSQL() (SqlMapping, error) { return Source(a.Spelling, false), nil }
func (a Alias) ReturnSQL() (Returns, error)      { return One(Source(a.Spelling, false)), nil }

// ArrayOf is an array of an element shape
type ArrayOf struct {
	base
	Elem SqlTranslatable
}

func (a ArrayOf) ArgumentSQL() (SqlMapping, error) {
	switch a.Elem.(type) {
	case SetOfShape:
		return SqlMapping{}, &ArgumentError{Code: ArgSetOfInArray}
	case TableShape:
		return SqlMapping{}, &ArgumentError{Code: ArgTableInArray}
	case Internal:
		return SqlMapping{}, &ArgumentError{Code: ArgSkipInArray}
	}
	elem, err := a.Elem.ArgumentSQL()
	if err != nil {
		return SqlMapping{}, err
	}
	return bracket(elem), nil
}

func (a ArrayOf) ReturnSQL() (Returns, error) {
	switch a.Elem.(type) {
	case SetOfShape:
		return Returns{}, &ReturnsError{Code: RetSetOfInArray}
	case TableShape:
		return Returns{}, &ReturnsError{Code: RetTableInArray}
	case Internal:
		return Returns{}, &ReturnsError{Code: RetSkipInArray}
	}
	elem, err := a.Elem.ArgumentSQL()
	if err != nil {
		return Returns{}, err
	}
	return One(bracket(elem)), nil
}

// bracket appends array notation to an element mapping
func bracket(elem SqlMapping) SqlMapping {
	switch elem.Kind {
	case MappingLiteral:
		return As(elem.Literal + "[]")
	case MappingComposite:
		return Composite(true)
	case MappingSource:
		return Source(elem.Source, true)
	}
	return elem
}

// SetOfShape is a set-returning shape; valid only at a return position
type SetOfShape struct {
	base
	Elem SqlTranslatable
}

func (s SetOfShape) ArgumentSQL() (SqlMapping, error) {
	return SqlMapping{}, fmt.Errorf("a set-returning shape has no argument rendering")
}

func (s SetOfShape) ReturnSQL() (Returns, error) {
	switch s.Elem.(type) {
	case SetOfShape:
		return Returns{}, &ReturnsError{Code: RetNestedSetOf}
	case TableShape:
		return Returns{}, &ReturnsError{Code: RetSetOfContainingTable}
	}
	elem, err := s.Elem.ArgumentSQL()
	if err != nil {
		return Returns{}, err
	}
	return SetOf(elem), nil
}

// NamedShape pairs a column name with its shape for table returns
type NamedShape struct {
	Name  string
	Shape SqlTranslatable
}

// TableShape is a table-of-named-columns shape; valid only at a return position
type TableShape struct {
	base
	Columns []NamedShape
}

func (t TableShape) ArgumentSQL() (SqlMapping, error) {
	return SqlMapping{}, fmt.Errorf("a table shape has no argument rendering")
}

func (t TableShape) ReturnSQL() (Returns, error) {
	columns := make([]TableColumn, 0, len(t.Columns))
	for _, col := range t.Columns {
		switch col.Shape.(type) {
		case SetOfShape:
			return Returns{}, &ReturnsError{Code: RetTableContainingSetOf}
		case TableShape:
			return Returns{}, &ReturnsError{Code: RetNestedTable}
		}
		mapping, err := col.Shape.ArgumentSQL()
		if err != nil {
			return Returns{}, err
		}
		columns = append(columns, TableColumn{Name: col.Name, Mapping: mapping})
	}
	return Table(columns), nil
}

// OptionOf marks a shape as nullable; the wrapped shape renders unchanged
type OptionOf struct {
	Elem SqlTranslatable
}

func (o OptionOf) ArgumentSQL() (SqlMapping, error) { return o.Elem.ArgumentSQL() }
func (o OptionOf) ReturnSQL() (Returns, error)      { return o.Elem.ReturnSQL() }
func (o OptionOf) Variadic() bool                   { return o.Elem.Variadic() }
func (o OptionOf) Optional() bool                   { return true }

// VariadicOf marks a trailing argument as VARIADIC
type VariadicOf struct {
	Elem SqlTranslatable
}

func (v VariadicOf) ArgumentSQL() (SqlMapping, error) {
	return ArrayOf{Elem: v.Elem}.ArgumentSQL()
}

func (v VariadicOf) ReturnSQL() (Returns, error) {
	return Returns{}, fmt.Errorf("a variadic shape has no return rendering")
}

func (v VariadicOf) Variadic() bool { return true }
func (v VariadicOf) Optional() bool { return false }
