// Package emit renders the solved dependency graph into the final SQL
// install script. Rendering is pure: the graph and order in, a Script of
// steps out; file I/O lives in the writer.
package emit

import (
	"fmt"
	"strings"

	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/graph"
	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

// Step is one emitted group: the source comments plus the statement text.
// Raw steps carry user SQL verbatim and are excluded from linting.
type Step struct {
	Path string
	Loc  entity.SourceLoc
	SQL  string
	Raw  bool
}

// Script is the rendered install script
type Script struct {
	Version string
	Steps   []Step
}

// Render emits every non-synthetic node of the solved order
func Render(g *graph.Graph, order []int, version string) (*Script, error) {
	e := &emitter{g: g}
	script := &Script{Version: version}

	for _, idx := range order {
		n := &g.Nodes[idx]
		if n.Kind.Synthetic() {
			continue
		}
		sql, raw, err := e.render(idx)
		if err != nil {
			return nil, err
		}
		script.Steps = append(script.Steps, Step{
			Path: n.Path,
			Loc:  n.Desc.Source(),
			SQL:  sql,
			Raw:  raw,
		})
	}
	return script, nil
}

type emitter struct {
	g *graph.Graph
}

func (e *emitter) render(idx int) (sql string, raw bool, err error) {
	n := &e.g.Nodes[idx]
	switch n.Kind {
	case graph.NodeSchema:
		return e.schema(idx), false, nil
	case graph.NodeEnum:
		return e.enum(idx), false, nil
	case graph.NodeCompositeShell:
		return fmt.Sprintf("CREATE TYPE %s;", e.qualified(idx)), false, nil
	case graph.NodeCompositeConcrete:
		s, err := e.composite(idx)
		return s, false, err
	case graph.NodeFunction, graph.NodeFunctionCompositeIO:
		return e.function(idx), false, nil
	case graph.NodeOperator:
		return e.operator(idx), false, nil
	case graph.NodeHashOpClass:
		return e.hashOpClass(idx), false, nil
	case graph.NodeOrdOpClass:
		return e.ordOpClass(idx), false, nil
	case graph.NodeTrigger:
		return e.trigger(idx), false, nil
	case graph.NodeAggregate:
		return e.aggregate(idx), false, nil
	case graph.NodeRawSQL:
		return e.rawSQL(idx), true, nil
	}
	return "", false, fmt.Errorf("no emitter for node kind %s", n.Kind)
}

// qualified renders the schema-prefixed quoted SQL name of a node
func (e *emitter) qualified(idx int) string {
	name := QuoteIdentifier(e.g.Nodes[idx].Desc.Name())
	if schema := e.g.SchemaOf(idx); schema >= 0 {
		return QuoteIdentifier(e.g.Nodes[schema].Desc.Name()) + "." + name
	}
	return name
}

// typeSQL renders a resolved type position
func (e *emitter) typeSQL(rt graph.ResolvedType) string {
	if rt.Node < 0 {
		return rt.SQL
	}
	sql := e.qualified(rt.Node)
	if rt.Array {
		sql += "[]"
	}
	return sql
}

// usesFunctions returns the uses-function targets of a node in edge
// insertion order, which the builder keeps aligned with the declaration
// order of the referencing descriptor
func (e *emitter) usesFunctions(idx int) []int {
	var targets []int
	for _, edge := range e.g.Edges {
		if edge.From == idx && edge.Class == graph.EdgeUsesFunction {
			targets = append(targets, edge.To)
		}
	}
	return targets
}

func (e *emitter) schema(idx int) string {
	s := e.g.Nodes[idx].Desc.(*entity.Schema)
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s; /* %s */", QuoteIdentifier(s.Name()), s.FullPath())
}

func (e *emitter) enum(idx int) string {
	en := e.g.Nodes[idx].Desc.(*entity.Enum)
	labels := make([]string, len(en.Variants))
	for i, v := range en.Variants {
		labels[i] = QuoteLiteral(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s);", e.qualified(idx), strings.Join(labels, ","))
}

func (e *emitter) composite(idx int) (string, error) {
	c := e.g.Nodes[idx].Desc.(*entity.Composite)
	if c.Split() {
		fns := e.usesFunctions(idx)
		if len(fns) != 2 {
			return "", fmt.Errorf("composite %s resolved %d IO functions, want 2", c.FullPath(), len(fns))
		}
		return fmt.Sprintf("CREATE TYPE %s (INPUT=%s, OUTPUT=%s, INTERNALLENGTH=variable, STORAGE=extended);",
			e.qualified(idx), e.qualified(fns[0]), e.qualified(fns[1])), nil
	}

	attrs := make([]string, len(c.Attributes))
	for i, attr := range c.Attributes {
		sql, err := e.attributeSQL(c, attr)
		if err != nil {
			return "", err
		}
		attrs[i] = QuoteAlways(attr.Name) + " " + sql
	}
	return fmt.Sprintf("CREATE TYPE %s AS (%s);", e.qualified(idx), strings.Join(attrs, ", ")), nil
}

func (e *emitter) attributeSQL(c *entity.Composite, attr entity.Attribute) (string, error) {
	m := attr.Mapping
	switch m.Kind {
	case metadata.MappingLiteral:
		return m.Literal, nil
	case metadata.MappingSource:
		node, ok := e.g.TypeNodeBySource(m.Source)
		if !ok || node < 0 {
			return "", &graph.UnresolvedReference{From: c.FullPath(), To: m.Source}
		}
		sql := e.qualified(node)
		if m.ArrayBrackets {
			sql += "[]"
		}
		return sql, nil
	}
	return "", fmt.Errorf("composite %s attribute %q has no renderable mapping", c.FullPath(), attr.Name)
}

func (e *emitter) function(idx int) string {
	n := &e.g.Nodes[idx]
	f := n.Desc.(*entity.Function)

	if f.Returns.Kind == entity.ReturnTrigger {
		return fmt.Sprintf("CREATE FUNCTION %s() RETURNS TRIGGER LANGUAGE c AS 'MODULE_PATHNAME', '%s';",
			e.qualified(idx), f.WrapperSymbol)
	}

	args := make([]string, len(n.Sig.Args))
	for i, arg := range n.Sig.Args {
		args[i] = e.argSQL(arg)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE FUNCTION %s(%s) RETURNS %s",
		e.qualified(idx), strings.Join(args, ", "), e.returnsSQL(&n.Sig.Ret))
	if f.Volatility != "" {
		b.WriteString(" " + f.Volatility)
	}
	if f.Strict {
		b.WriteString(" STRICT")
	}
	if f.Parallel != "" {
		b.WriteString(" PARALLEL " + f.Parallel)
	}
	if len(f.SearchPath) > 0 {
		quoted := make([]string, len(f.SearchPath))
		for i, s := range f.SearchPath {
			quoted[i] = QuoteIdentifier(s)
		}
		b.WriteString(" SET search_path TO " + strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&b, " LANGUAGE c AS 'MODULE_PATHNAME', '%s';", f.WrapperSymbol)
	return b.String()
}

func (e *emitter) argSQL(arg graph.ResolvedArg) string {
	var b strings.Builder
	if arg.Variadic {
		b.WriteString("VARIADIC ")
	}
	if arg.Name != "" {
		b.WriteString(QuoteAlways(arg.Name) + " ")
	}
	b.WriteString(e.typeSQL(arg.Type))
	if arg.Default != nil {
		b.WriteString(" DEFAULT " + *arg.Default)
	}
	return b.String()
}

func (e *emitter) returnsSQL(ret *graph.ResolvedReturn) string {
	switch ret.Kind {
	case entity.ReturnNone:
		return "void"
	case entity.ReturnOne:
		return e.typeSQL(ret.Type)
	case entity.ReturnSetOf:
		return "SETOF " + e.typeSQL(ret.Type)
	case entity.ReturnTable:
		cols := make([]string, len(ret.Columns))
		for i, col := range ret.Columns {
			cols[i] = QuoteAlways(col.Name) + " " + e.typeSQL(col.Type)
		}
		return "TABLE (" + strings.Join(cols, ", ") + ")"
	}
	return "void"
}

func (e *emitter) operator(idx int) string {
	n := &e.g.Nodes[idx]
	f := n.Desc.(*entity.Function)
	op := f.Operator
	sig := e.g.Nodes[n.FnRef].Sig

	clauses := []string{"PROCEDURE=" + e.qualified(n.FnRef)}
	switch len(sig.Args) {
	case 1:
		clauses = append(clauses, "RIGHTARG="+e.typeSQL(sig.Args[0].Type))
	default:
		clauses = append(clauses,
			"LEFTARG="+e.typeSQL(sig.Args[0].Type),
			"RIGHTARG="+e.typeSQL(sig.Args[1].Type))
	}
	if op.Commutator != "" {
		clauses = append(clauses, "COMMUTATOR="+op.Commutator)
	}
	if op.Negator != "" {
		clauses = append(clauses, "NEGATOR="+op.Negator)
	}
	if op.Restrict != "" {
		clauses = append(clauses, "RESTRICT="+op.Restrict)
	}
	if op.Join != "" {
		clauses = append(clauses, "JOIN="+op.Join)
	}
	if op.Hashes {
		clauses = append(clauses, "HASHES")
	}
	if op.Merges {
		clauses = append(clauses, "MERGES")
	}
	return fmt.Sprintf("CREATE OPERATOR %s (%s);", op.Opname, strings.Join(clauses, ", "))
}

// opsFamilyName renders the schema-qualified operator family name for an
// opclass node
func (e *emitter) opsFamilyName(idx int, suffix string) string {
	n := &e.g.Nodes[idx]
	typeName := strings.ToLower(e.g.Nodes[n.TypeRef].Desc.Name())
	name := QuoteIdentifier(typeName + suffix)
	if schema := e.g.SchemaOf(idx); schema >= 0 {
		return QuoteIdentifier(e.g.Nodes[schema].Desc.Name()) + "." + name
	}
	return name
}

func (e *emitter) hashOpClass(idx int) string {
	n := &e.g.Nodes[idx]
	t := e.qualified(n.TypeRef)
	fn := e.qualified(n.FnRef)
	ops := e.opsFamilyName(idx, "_hash_ops")
	return fmt.Sprintf("CREATE OPERATOR FAMILY %s USING hash;\n"+
		"CREATE OPERATOR CLASS %s DEFAULT FOR TYPE %s USING hash FAMILY %s AS OPERATOR 1 =(%s,%s), FUNCTION 1 %s(%s);",
		ops, ops, t, ops, t, t, fn, t)
}

func (e *emitter) ordOpClass(idx int) string {
	n := &e.g.Nodes[idx]
	t := e.qualified(n.TypeRef)
	fn := e.qualified(n.FnRef)
	ops := e.opsFamilyName(idx, "_btree_ops")
	return fmt.Sprintf("CREATE OPERATOR FAMILY %s USING btree;\n"+
		"CREATE OPERATOR CLASS %s DEFAULT FOR TYPE %s USING btree FAMILY %s AS"+
		" OPERATOR 1 <(%s,%s), OPERATOR 2 <=(%s,%s), OPERATOR 3 =(%s,%s), OPERATOR 4 >=(%s,%s), OPERATOR 5 >(%s,%s), FUNCTION 1 %s(%s,%s);",
		ops, ops, t, ops, t, t, t, t, t, t, t, t, t, t, fn, t, t)
}

// trigger emits no DDL of its own: binding to a table is a CREATE TRIGGER
// the extension user writes. The step documents the wrapper function.
func (e *emitter) trigger(idx int) string {
	n := &e.g.Nodes[idx]
	return fmt.Sprintf("-- trigger %s fires %s", n.Desc.Name(), e.qualified(n.FnRef))
}

func (e *emitter) aggregate(idx int) string {
	n := &e.g.Nodes[idx]
	a := n.Desc.(*entity.Aggregate)
	agg := e.g.AggSigs[idx]

	// uses-function edges align with the populated SupportFns slots
	fnNodes := e.usesFunctions(idx)
	fns := map[string]string{}
	for i, name := range a.SupportFns() {
		fns[name] = e.qualified(fnNodes[i])
	}

	renderArgs := func(args []graph.ResolvedArg) string {
		out := make([]string, len(args))
		for i, arg := range args {
			if arg.Name != "" {
				out[i] = QuoteAlways(arg.Name) + " " + e.typeSQL(arg.Type)
			} else {
				out[i] = e.typeSQL(arg.Type)
			}
		}
		return strings.Join(out, ", ")
	}
	argList := renderArgs(agg.Args)
	if a.OrderedSet {
		argList += " ORDER BY " + renderArgs(agg.OrderedSetArgs)
	}

	clauses := []string{
		"SFUNC=" + fns[a.StateFn],
		"STYPE=" + e.typeSQL(agg.State),
	}
	if a.FinalFn != "" {
		clauses = append(clauses, "FINALFUNC="+fns[a.FinalFn])
	}
	if a.CombineFn != "" {
		clauses = append(clauses, "COMBINEFUNC="+fns[a.CombineFn])
	}
	if a.SerialFn != "" {
		clauses = append(clauses, "SERIALFUNC="+fns[a.SerialFn])
	}
	if a.DeserialFn != "" {
		clauses = append(clauses, "DESERIALFUNC="+fns[a.DeserialFn])
	}
	if a.MovingStateFn != "" {
		clauses = append(clauses, "MSFUNC="+fns[a.MovingStateFn])
		clauses = append(clauses, "MSTYPE="+e.typeSQL(agg.MovingState))
		clauses = append(clauses, "MINVFUNC="+fns[a.MovingInverseFn])
	}
	if a.MovingFinalFn != "" {
		clauses = append(clauses, "MFINALFUNC="+fns[a.MovingFinalFn])
	}
	if a.InitialCondition != nil {
		clauses = append(clauses, "INITCOND="+QuoteLiteral(*a.InitialCondition))
	}
	if a.MovingInitialCondition != nil {
		clauses = append(clauses, "MINITCOND="+QuoteLiteral(*a.MovingInitialCondition))
	}
	if a.Parallel != "" {
		clauses = append(clauses, "PARALLEL="+a.Parallel)
	}
	if a.Hypothetical {
		clauses = append(clauses, "HYPOTHETICAL")
	}
	if a.FinalFuncModify != "" {
		clauses = append(clauses, "FINALFUNC_MODIFY="+a.FinalFuncModify)
	}
	if a.MovingFinalFuncModify != "" {
		clauses = append(clauses, "MFINALFUNC_MODIFY="+a.MovingFinalFuncModify)
	}

	return fmt.Sprintf("CREATE AGGREGATE %s(%s) (%s);", e.qualified(idx), argList, strings.Join(clauses, ", "))
}

// rawSQL emits the block verbatim, substituting the wrapper placeholders.
// @FUNCTION_NAME@ resolves to the wrapper symbol of the first function
// the block requires.
func (e *emitter) rawSQL(idx int) string {
	r := e.g.Nodes[idx].Desc.(*entity.RawSQL)
	sql := strings.TrimRight(r.SQL, "\n")
	sql = strings.ReplaceAll(sql, "@MODULE_PATHNAME@", "MODULE_PATHNAME")

	if strings.Contains(sql, "@FUNCTION_NAME@") {
		if wrapper, ok := e.requiredWrapper(idx); ok {
			sql = strings.ReplaceAll(sql, "@FUNCTION_NAME@", wrapper)
		}
	}
	return sql
}

// requiredWrapper finds the wrapper symbol of the lexicographically first
// function a raw block requires
func (e *emitter) requiredWrapper(idx int) (string, bool) {
	best := -1
	for _, edge := range e.g.Edges {
		if edge.From != idx || edge.Class != graph.EdgeRequires {
			continue
		}
		target := &e.g.Nodes[edge.To]
		if target.Kind != graph.NodeFunction && target.Kind != graph.NodeFunctionCompositeIO {
			continue
		}
		if best < 0 || target.Path < e.g.Nodes[best].Path {
			best = edge.To
		}
	}
	if best < 0 {
		return "", false
	}
	return e.g.Nodes[best].Desc.(*entity.Function).WrapperSymbol, true
}
