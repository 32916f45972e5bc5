package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

func loc(line int) entity.SourceLoc {
	return entity.SourceLoc{File: "src/lib.rs", Line: line}
}

func simpleFn(path string, line int, argHost, retHost string) *entity.Function {
	f := entity.NewFunction(path, loc(line))
	if argHost != "" {
		f.Arguments = []entity.Argument{{Name: "value", HostType: argHost}}
	}
	if retHost != "" {
		f.Returns = entity.Return{Kind: entity.ReturnOne, HostType: retHost}
	} else {
		f.Returns = entity.Return{Kind: entity.ReturnNone}
	}
	return f
}

func nodeByPath(t *testing.T, g *Graph, path string, kind NodeKind) int {
	t.Helper()
	for idx, n := range g.Nodes {
		if n.Path == path && n.Kind == kind {
			return idx
		}
	}
	t.Fatalf("no %s node at %s", kind, path)
	return -1
}

func hasEdge(g *Graph, from, to int, class EdgeClass) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Class == class {
			return true
		}
	}
	return false
}

func TestBuildResolvesPrimitiveSignature(t *testing.T) {
	g, err := Build([]entity.Descriptor{
		entity.NewSchema("demo", loc(1)),
		simpleFn("demo::greet", 3, "text", "text"),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	schema := nodeByPath(t, g, "demo", NodeSchema)
	fn := nodeByPath(t, g, "demo::greet", NodeFunction)

	sig := g.Nodes[fn].Sig
	if len(sig.Args) != 1 || sig.Args[0].Type.SQL != "TEXT" {
		t.Errorf("argument resolution = %+v, want literal TEXT", sig.Args)
	}
	if sig.Ret.Kind != entity.ReturnOne || sig.Ret.Type.SQL != "TEXT" {
		t.Errorf("return resolution = %+v, want literal TEXT", sig.Ret)
	}
	if !hasEdge(g, fn, schema, EdgeInSchema) {
		t.Error("function should carry an in-schema edge to its schema")
	}
	if g.SchemaOf(fn) != schema {
		t.Error("SchemaOf should name the owning schema")
	}
}

func TestBuildResolvesTypeByStableID(t *testing.T) {
	e := entity.NewEnum("demo::Color", []string{"Red", "Blue"}, loc(2))
	f := entity.NewFunction("demo::tint", loc(5))
	f.Arguments = []entity.Argument{{Name: "c", UsedType: e.IDs.Canonical}}
	f.Returns = entity.Return{Kind: entity.ReturnOne, UsedType: e.IDs.Array}

	g, err := Build([]entity.Descriptor{entity.NewSchema("demo", loc(1)), e, f})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	enum := nodeByPath(t, g, "demo::Color", NodeEnum)
	fn := nodeByPath(t, g, "demo::tint", NodeFunction)
	sig := g.Nodes[fn].Sig

	if sig.Args[0].Type.Node != enum || sig.Args[0].Type.Array {
		t.Errorf("canonical id should resolve to the enum node: %+v", sig.Args[0].Type)
	}
	if sig.Ret.Type.Node != enum || !sig.Ret.Type.Array {
		t.Errorf("array-role id should resolve with brackets: %+v", sig.Ret.Type)
	}
	if !hasEdge(g, fn, enum, EdgeUsesType) {
		t.Error("signature use should add a uses-type edge")
	}
}

func TestBuildSourceSpellingFallback(t *testing.T) {
	e := entity.NewEnum("demo::Color", []string{"Red"}, loc(2))
	f := entity.NewFunction("demo::tint", loc(5))
	f.Arguments = []entity.Argument{{Name: "c", HostType: "Color"}}
	f.Returns = entity.Return{Kind: entity.ReturnOne, HostType: "Color[]"}

	g, err := Build([]entity.Descriptor{e, f})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	enum := nodeByPath(t, g, "demo::Color", NodeEnum)
	sig := g.Nodes[nodeByPath(t, g, "demo::tint", NodeFunction)].Sig
	if sig.Args[0].Type.Node != enum {
		t.Errorf("bare spelling should fall back to the registered type: %+v", sig.Args[0].Type)
	}
	if !sig.Ret.Type.Array {
		t.Errorf("bracketed spelling should resolve as array: %+v", sig.Ret.Type)
	}
}

func TestBuildUnresolvedTypeReference(t *testing.T) {
	_, err := Build([]entity.Descriptor{simpleFn("demo::f", 1, "Mystery", "")})
	var unresolved *UnresolvedReference
	if !errors.As(err, &unresolved) {
		t.Fatalf("got %v, want UnresolvedReference", err)
	}
	if unresolved.From != "demo::f" || unresolved.To != "Mystery" {
		t.Errorf("got %+v", unresolved)
	}
}

func TestBuildRejectsReservedSchema(t *testing.T) {
	for _, name := range []string{"public", "pg_catalog"} {
		_, err := Build([]entity.Descriptor{entity.NewSchema(name, loc(1))})
		if err == nil || !strings.Contains(err.Error(), "reserved") {
			t.Errorf("schema %q: got %v, want reserved-schema error", name, err)
		}
	}
}

func TestBuildRejectsDuplicateSchema(t *testing.T) {
	_, err := Build([]entity.Descriptor{
		entity.NewSchema("demo", loc(1)),
		entity.NewSchema("demo", loc(9)),
	})
	if err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Errorf("got %v, want duplicate-schema error", err)
	}
}

func TestBuildCompositeFormValidation(t *testing.T) {
	empty := entity.NewRecordComposite("demo::Bad", nil, loc(1))
	if _, err := Build([]entity.Descriptor{empty}); err == nil {
		t.Error("a composite with neither form should fail")
	}

	both := entity.NewComposite("demo::Bad", "in", "out", loc(1))
	both.Attributes = []entity.Attribute{{Name: "a", Mapping: metadata.As("INT")}}
	if _, err := Build([]entity.Descriptor{both}); err == nil {
		t.Error("a composite with both forms should fail")
	}

	half := entity.NewComposite("demo::Bad", "in", "", loc(1))
	if _, err := Build([]entity.Descriptor{half}); err == nil {
		t.Error("a composite with only an in function should fail")
	}
}

func TestBuildCompositeSplit(t *testing.T) {
	c := entity.NewComposite("demo::Pt", "pt_in", "pt_out", loc(2))
	ptIn := entity.NewFunction("demo::pt_in", loc(4))
	ptIn.Arguments = []entity.Argument{{Name: "input", HostType: "text"}}
	comp := metadata.Composite(false)
	ptIn.Returns = entity.Return{Kind: entity.ReturnOne, Mapping: &comp}
	ptOut := entity.NewFunction("demo::pt_out", loc(8))
	ptOut.Arguments = []entity.Argument{{Name: "value", Mapping: &comp}}
	ptOut.Returns = entity.Return{Kind: entity.ReturnOne, HostType: "text"}

	g, err := Build([]entity.Descriptor{
		entity.NewSchema("demo", loc(1)), c, ptIn, ptOut,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	shell := nodeByPath(t, g, "demo::Pt", NodeCompositeShell)
	concrete := nodeByPath(t, g, "demo::Pt", NodeCompositeConcrete)
	in := nodeByPath(t, g, "demo::pt_in", NodeFunctionCompositeIO)
	out := nodeByPath(t, g, "demo::pt_out", NodeFunctionCompositeIO)

	if !hasEdge(g, in, shell, EdgeRequires) {
		t.Error("the in function should require the shell")
	}
	if !hasEdge(g, concrete, in, EdgeUsesFunction) || !hasEdge(g, concrete, out, EdgeUsesFunction) {
		t.Error("the concrete form should use both IO functions")
	}
	// the IO functions reference the shell, not the concrete form
	if g.Nodes[in].Sig.Ret.Type.Node != shell {
		t.Errorf("in function return resolved to node %d, want shell %d", g.Nodes[in].Sig.Ret.Type.Node, shell)
	}
	if g.Nodes[out].Sig.Args[0].Type.Node != shell {
		t.Errorf("out function argument resolved to node %d, want shell %d", g.Nodes[out].Sig.Args[0].Type.Node, shell)
	}
}

func TestBuildCompositeMissingIOFunction(t *testing.T) {
	c := entity.NewComposite("demo::Pt", "pt_in", "pt_out", loc(2))
	_, err := Build([]entity.Descriptor{c})
	var unresolved *UnresolvedReference
	if !errors.As(err, &unresolved) || unresolved.To != "pt_in" {
		t.Fatalf("got %v, want UnresolvedReference to pt_in", err)
	}
}

func TestBuildDuplicateBootstrap(t *testing.T) {
	a := entity.NewRawSQL("init_a", "CREATE TABLE a();", loc(1))
	a.Bootstrap = true
	b := entity.NewRawSQL("init_b", "CREATE TABLE b();", loc(5))
	b.Bootstrap = true

	_, err := Build([]entity.Descriptor{a, b})
	var dup *DuplicateAnchor
	if !errors.As(err, &dup) || dup.Kind != AnchorBootstrap {
		t.Fatalf("got %v, want DuplicateAnchor{bootstrap}", err)
	}
}

func TestBuildDuplicateFinalize(t *testing.T) {
	a := entity.NewRawSQL("done_a", "ANALYZE;", loc(1))
	a.Finalize = true
	b := entity.NewRawSQL("done_b", "ANALYZE;", loc(5))
	b.Finalize = true

	_, err := Build([]entity.Descriptor{a, b})
	var dup *DuplicateAnchor
	if !errors.As(err, &dup) || dup.Kind != AnchorFinalize {
		t.Fatalf("got %v, want DuplicateAnchor{finalize}", err)
	}
}

func TestBuildAmbiguousReference(t *testing.T) {
	a := entity.NewRawSQL("mod_a::target", "SELECT 1;", loc(1))
	b := entity.NewRawSQL("mod_b::target", "SELECT 2;", loc(3))
	ref := entity.NewRawSQL("user", "SELECT 3;", loc(5))
	ref.Requires = []string{"target"}

	_, err := Build([]entity.Descriptor{a, b, ref})
	var ambiguous *AmbiguousReference
	if !errors.As(err, &ambiguous) {
		t.Fatalf("got %v, want AmbiguousReference", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("candidates = %v, want both targets", ambiguous.Candidates)
	}
}

func TestBuildScopedBareNameResolution(t *testing.T) {
	a := entity.NewRawSQL("mod_a::target", "SELECT 1;", loc(1))
	b := entity.NewRawSQL("mod_b::target", "SELECT 2;", loc(3))
	ref := entity.NewRawSQL("mod_a::user", "SELECT 3;", loc(5))
	ref.Requires = []string{"target"}

	g, err := Build([]entity.Descriptor{a, b, ref})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	from := nodeByPath(t, g, "mod_a::user", NodeRawSQL)
	to := nodeByPath(t, g, "mod_a::target", NodeRawSQL)
	if !hasEdge(g, from, to, EdgeRequires) {
		t.Error("a bare name should resolve to the referrer's own module first")
	}
}

func TestBuildCreatesHandles(t *testing.T) {
	table := entity.NewRawSQL("setup", "CREATE TABLE widgets();", loc(1))
	table.Creates = []string{"widgets"}
	user := entity.NewRawSQL("seed", "INSERT INTO widgets DEFAULT VALUES;", loc(5))
	user.Requires = []string{"widgets"}

	g, err := Build([]entity.Descriptor{table, user})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	from := nodeByPath(t, g, "seed", NodeRawSQL)
	to := nodeByPath(t, g, "setup", NodeRawSQL)
	if !hasEdge(g, from, to, EdgeRequires) {
		t.Error("a creates[] handle should be a nameable requires target")
	}
}

func TestBuildHandleNamedLikeBlockKeepsDirectives(t *testing.T) {
	// "apple" registers a handle that spells another block's path; the
	// directives declared on block "seed" must still attach to "seed"
	handle := entity.NewRawSQL("apple", "CREATE TABLE seed();", loc(1))
	handle.Creates = []string{"seed"}
	block := entity.NewRawSQL("seed", "SELECT 1;", loc(3))
	block.Before = []string{"demo::zebra"}
	fn := simpleFn("demo::zebra", 5, "", "int")

	g, err := Build([]entity.Descriptor{handle, block, fn})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	apple := nodeByPath(t, g, "apple", NodeRawSQL)
	seed := nodeByPath(t, g, "seed", NodeRawSQL)
	zebra := nodeByPath(t, g, "demo::zebra", NodeFunction)

	if !hasEdge(g, seed, zebra, EdgeBefore) {
		t.Error("before directive lost from the block sharing its path with a handle")
	}
	if hasEdge(g, apple, zebra, EdgeBefore) {
		t.Error("before directive attached to the handle-registering block")
	}
}

func TestBuildTriggerValidation(t *testing.T) {
	tgFn := entity.NewFunction("demo::audit", loc(2))
	tgFn.Returns = entity.Return{Kind: entity.ReturnTrigger}
	tg := entity.NewTrigger("demo::audit_trigger", "demo::audit", loc(4))

	g, err := Build([]entity.Descriptor{tgFn, tg})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	trigger := nodeByPath(t, g, "demo::audit_trigger", NodeTrigger)
	fn := nodeByPath(t, g, "demo::audit", NodeFunction)
	if !hasEdge(g, trigger, fn, EdgeUsesFunction) {
		t.Error("trigger should use its wrapped function")
	}

	plain := simpleFn("demo::not_trigger", 2, "", "int")
	bad := entity.NewTrigger("demo::bad", "demo::not_trigger", loc(4))
	if _, err := Build([]entity.Descriptor{plain, bad}); err == nil {
		t.Error("wrapping a non-trigger function should fail")
	}
}

func TestBuildOperatorValidation(t *testing.T) {
	f := simpleFn("demo::concat_text", 2, "text", "text")
	f.Arguments = append(f.Arguments, entity.Argument{Name: "other", HostType: "text"})
	f.Operator = &entity.Operator{Opname: "||"}

	g, err := Build([]entity.Descriptor{f})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	op := nodeByPath(t, g, "demo::concat_text::||", NodeOperator)
	fn := nodeByPath(t, g, "demo::concat_text", NodeFunction)
	if g.Nodes[op].FnRef != fn {
		t.Error("operator node should reference its backing function")
	}

	bad := simpleFn("demo::bad", 2, "text", "text")
	bad.Operator = &entity.Operator{Opname: "no letters allowed"}
	if _, err := Build([]entity.Descriptor{bad}); err == nil {
		t.Error("an alphabetic operator name should fail")
	}
}

func TestBuildOpClassResolution(t *testing.T) {
	e := entity.NewEnum("demo::Color", []string{"Red"}, loc(2))
	hashFn := entity.NewFunction("demo::color_hash", loc(4))
	hashFn.Arguments = []entity.Argument{{Name: "value", UsedType: e.IDs.Canonical}}
	hashFn.Returns = entity.Return{Kind: entity.ReturnOne, HostType: "i32"}
	h := entity.NewHashOpClass("demo::Color", loc(6))

	g, err := Build([]entity.Descriptor{e, hashFn, h})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	opclass := nodeByPath(t, g, "demo::Color::color_hash", NodeHashOpClass)
	if g.Nodes[opclass].TypeRef != nodeByPath(t, g, "demo::Color", NodeEnum) {
		t.Error("opclass should reference the operated type")
	}
	if g.Nodes[opclass].FnRef != nodeByPath(t, g, "demo::color_hash", NodeFunction) {
		t.Error("opclass should reference the derived function")
	}

	// missing derived function
	_, err = Build([]entity.Descriptor{e, entity.NewOrdOpClass("demo::Color", loc(6))})
	var unresolved *UnresolvedReference
	if !errors.As(err, &unresolved) || unresolved.To != "color_cmp" {
		t.Fatalf("got %v, want UnresolvedReference to color_cmp", err)
	}
}

func TestBuildAggregateValidation(t *testing.T) {
	stateFn := entity.NewFunction("demo::sum_step", loc(2))
	stateFn.Arguments = []entity.Argument{
		{Name: "state", HostType: "i64"},
		{Name: "value", HostType: "i32"},
	}
	stateFn.Returns = entity.Return{Kind: entity.ReturnOne, HostType: "i64"}

	agg := entity.NewAggregate("demo::total", "i64", "sum_step", loc(6))
	agg.Args = []entity.AggregateArg{{Name: "value", HostType: "i32"}}

	g, err := Build([]entity.Descriptor{stateFn, agg})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	node := nodeByPath(t, g, "demo::total", NodeAggregate)
	sig := g.AggSigs[node]
	if sig.State.SQL != "bigint" {
		t.Errorf("state type = %+v, want bigint", sig.State)
	}
	if len(sig.Args) != 1 || sig.Args[0].Type.SQL != "INT" {
		t.Errorf("direct args = %+v", sig.Args)
	}

	// moving state without inverse is rejected
	bad := entity.NewAggregate("demo::bad", "i64", "sum_step", loc(9))
	bad.MovingStateFn = "sum_step"
	if _, err := Build([]entity.Descriptor{stateFn, bad}); err == nil {
		t.Error("a moving state function without its inverse should fail")
	}
}
