package entity

import (
	"fmt"

	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

// ArgumentFromShape builds a declared argument from a translatable shape.
// Shape errors pass through unchanged, so a producer returning one fails
// collection with the original argument taxonomy intact.
func ArgumentFromShape(name string, shape metadata.SqlTranslatable) (Argument, error) {
	m, err := shape.ArgumentSQL()
	if err != nil {
		return Argument{}, err
	}
	return Argument{
		Name:     name,
		Mapping:  &m,
		Variadic: shape.Variadic(),
		Optional: shape.Optional(),
	}, nil
}

// ReturnFromShape builds a declared return from a translatable shape
func ReturnFromShape(shape metadata.SqlTranslatable) (Return, error) {
	r, err := shape.ReturnSQL()
	if err != nil {
		return Return{}, err
	}
	switch r.Kind {
	case metadata.ReturnsOne:
		return Return{Kind: ReturnOne, Mapping: r.Mapping}, nil
	case metadata.ReturnsSetOf:
		return Return{Kind: ReturnSetOf, Mapping: r.Mapping}, nil
	case metadata.ReturnsTable:
		columns := make([]ReturnColumn, len(r.Columns))
		for i, col := range r.Columns {
			m := col.Mapping
			columns[i] = ReturnColumn{Name: col.Name, Mapping: &m}
		}
		return Return{Kind: ReturnTable, Columns: columns}, nil
	}
	return Return{}, fmt.Errorf("return shape has unknown kind %q", r.Kind)
}
