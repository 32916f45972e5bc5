package entity

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

func TestBlobRoundTripFunction(t *testing.T) {
	def := "0"
	fn := NewFunction("demo::scale", SourceLoc{File: "src/lib.rs", Line: 42})
	fn.Arguments = []Argument{
		{Name: "value", HostType: "f64"},
		{Name: "factor", HostType: "f64", Default: &def},
	}
	fn.Returns = Return{Kind: ReturnOne, HostType: "f64"}
	fn.Volatility = "IMMUTABLE"
	fn.Operator = &Operator{Opname: "*", Commutator: "*"}
	fn.Requires = []string{"demo::setup"}

	blob, err := EncodeBlob(fn)
	if err != nil {
		t.Fatalf("EncodeBlob failed: %v", err)
	}
	decoded, consumed, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("DecodeBlob failed: %v", err)
	}
	if consumed != len(blob) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(blob))
	}
	if diff := cmp.Diff(fn, decoded, cmp.AllowUnexported(Function{})); diff != "" {
		t.Errorf("function round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBlobRoundTripEnum(t *testing.T) {
	e := NewEnum("demo::Color", []string{"Red", "Green", "Blue"}, SourceLoc{File: "src/color.rs", Line: 7})

	blob, err := EncodeBlob(e)
	if err != nil {
		t.Fatalf("EncodeBlob failed: %v", err)
	}
	decoded, _, err := DecodeBlob(blob)
	if err != nil {
		t.Fatalf("DecodeBlob failed: %v", err)
	}
	got, ok := decoded.(*Enum)
	if !ok {
		t.Fatalf("decoded kind = %s, want enum", decoded.Kind())
	}
	if diff := cmp.Diff(e, got, cmp.AllowUnexported(Enum{})); diff != "" {
		t.Errorf("enum round-trip mismatch (-want +got):\n%s", diff)
	}
	// the id-mapping set must survive serialization intact
	if role, ok := got.IDs.Match(metadata.IDSetForPath("demo::Color").Array); !ok || role != metadata.RoleArray {
		t.Error("decoded enum lost its id-mapping set")
	}
}

func TestDecodeBlobTruncated(t *testing.T) {
	fn := NewFunction("demo::f", SourceLoc{})
	blob, err := EncodeBlob(fn)
	if err != nil {
		t.Fatalf("EncodeBlob failed: %v", err)
	}

	if _, _, err := DecodeBlob(blob[:2]); err == nil {
		t.Error("truncated header should fail")
	}
	if _, _, err := DecodeBlob(blob[:len(blob)-1]); err == nil {
		t.Error("truncated body should fail")
	}
}

func TestDecodeBlobUnknownKind(t *testing.T) {
	blob, err := EncodeBlob(NewSchema("demo", SourceLoc{}))
	if err != nil {
		t.Fatalf("EncodeBlob failed: %v", err)
	}
	bad := []byte(strings.Replace(string(blob[4:]), `"schema"`, `"mystery"`, 1))
	framed := append([]byte{0, 0, 0, byte(len(bad))}, bad...)

	if _, _, err := DecodeBlob(framed); err == nil || !strings.Contains(err.Error(), "unknown descriptor kind") {
		t.Errorf("got %v, want unknown kind error", err)
	}
}
