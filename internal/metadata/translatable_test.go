package metadata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrimitiveArgumentSQL(t *testing.T) {
	m, err := Primitive{Host: "text"}.ArgumentSQL()
	if err != nil {
		t.Fatalf("ArgumentSQL failed: %v", err)
	}
	if diff := cmp.Diff(As("TEXT"), m); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestPrimitiveRoundTrip(t *testing.T) {
	for host, sql := range Primitives() {
		if host == "u8" {
			t.Fatal("u8 must not appear in the primitive table")
		}
		arg, err := Primitive{Host: host}.ArgumentSQL()
		if err != nil {
			t.Fatalf("%s: ArgumentSQL failed: %v", host, err)
		}
		if arg.Literal != sql {
			t.Errorf("%s: argument SQL = %q, want %q", host, arg.Literal, sql)
		}
		ret, err := Primitive{Host: host}.ReturnSQL()
		if err != nil {
			t.Fatalf("%s: ReturnSQL failed: %v", host, err)
		}
		if ret.Kind != ReturnsOne || ret.Mapping.Literal != sql {
			t.Errorf("%s: return SQL = %q, want %q", host, ret.Mapping.Literal, sql)
		}
	}
}

func TestBareU8Forbidden(t *testing.T) {
	_, err := Primitive{Host: "u8"}.ArgumentSQL()
	var argErr *ArgumentError
	if !errors.As(err, &argErr) || argErr.Code != ArgBareU8 {
		t.Fatalf("got %v, want ArgumentError{BareU8}", err)
	}

	_, err = Primitive{Host: "u8"}.ReturnSQL()
	var retErr *ReturnsError
	if !errors.As(err, &retErr) || retErr.Code != RetBareU8 {
		t.Fatalf("got %v, want ReturnsError{BareU8}", err)
	}
}

func TestDatumHasNoRendering(t *testing.T) {
	if _, err := (Datum{}).ArgumentSQL(); err == nil {
		t.Error("Datum argument rendering should fail")
	}
	if _, err := (Datum{}).ReturnSQL(); err == nil {
		t.Error("Datum return rendering should fail")
	}
}

func TestArrayShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		elem SqlTranslatable
		code ArgumentErrorCode
	}{
		{"setof in array", SetOfShape{Elem: Primitive{Host: "int"}}, ArgSetOfInArray},
		{"table in array", TableShape{}, ArgTableInArray},
		{"skip in array", Internal{}, ArgSkipInArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ArrayOf{Elem: tt.elem}.ArgumentSQL()
			var argErr *ArgumentError
			if !errors.As(err, &argErr) || argErr.Code != tt.code {
				t.Fatalf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArrayOfPrimitive(t *testing.T) {
	m, err := ArrayOf{Elem: Primitive{Host: "i32"}}.ArgumentSQL()
	if err != nil {
		t.Fatalf("ArgumentSQL failed: %v", err)
	}
	if m.Literal != "INT[]" {
		t.Errorf("array SQL = %q, want INT[]", m.Literal)
	}
	if !m.IsArray() {
		t.Error("IsArray should report true for a bracketed literal")
	}
}

func TestNestedReturnShapes(t *testing.T) {
	tests := []struct {
		name  string
		shape SqlTranslatable
		code  ReturnsErrorCode
	}{
		{"setof of setof", SetOfShape{Elem: SetOfShape{Elem: Primitive{Host: "int"}}}, RetNestedSetOf},
		{"setof of table", SetOfShape{Elem: TableShape{}}, RetSetOfContainingTable},
		{"table of setof", TableShape{Columns: []NamedShape{{Name: "c", Shape: SetOfShape{Elem: Primitive{Host: "int"}}}}}, RetTableContainingSetOf},
		{"table of table", TableShape{Columns: []NamedShape{{Name: "c", Shape: TableShape{}}}}, RetNestedTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.shape.ReturnSQL()
			var retErr *ReturnsError
			if !errors.As(err, &retErr) || retErr.Code != tt.code {
				t.Fatalf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestTableReturn(t *testing.T) {
	shape := TableShape{Columns: []NamedShape{
		{Name: "id", Shape: Primitive{Host: "i64"}},
		{Name: "label", Shape: Primitive{Host: "text"}},
	}}
	ret, err := shape.ReturnSQL()
	if err != nil {
		t.Fatalf("ReturnSQL failed: %v", err)
	}
	want := Table([]TableColumn{
		{Name: "id", Mapping: As("bigint")},
		{Name: "label", Mapping: As("TEXT")},
	})
	if diff := cmp.Diff(want, ret); diff != "" {
		t.Errorf("table return mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionAndVariadicWrappers(t *testing.T) {
	opt := OptionOf{Elem: Primitive{Host: "text"}}
	if !opt.Optional() {
		t.Error("OptionOf should be optional")
	}
	m, err := opt.ArgumentSQL()
	if err != nil || m.Literal != "TEXT" {
		t.Errorf("OptionOf renders unchanged, got %q err %v", m.Literal, err)
	}

	v := VariadicOf{Elem: Primitive{Host: "text"}}
	if !v.Variadic() {
		t.Error("VariadicOf should be variadic")
	}
	m, err = v.ArgumentSQL()
	if err != nil || m.Literal != "TEXT[]" {
		t.Errorf("VariadicOf renders as element array, got %q err %v", m.Literal, err)
	}
	if _, err := v.ReturnSQL(); err == nil {
		t.Error("VariadicOf has no return rendering")
	}
}

func TestInternalSkips(t *testing.T) {
	m, err := (Internal{}).ArgumentSQL()
	if err != nil {
		t.Fatalf("ArgumentSQL failed: %v", err)
	}
	if m.Kind != MappingSkip {
		t.Errorf("Internal should map to skip, got %s", m.Kind)
	}
}
