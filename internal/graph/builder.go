package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgrxgen/pgrxgen/internal/entity"
	"github.com/pgrxgen/pgrxgen/internal/logger"
	"github.com/pgrxgen/pgrxgen/internal/metadata"
)

// builder carries the intermediate state of one graph construction
type builder struct {
	g *Graph
	// schemas maps a module path to its schema node
	schemas map[string]int
	// fns maps a function full path to its node
	fns map[string]int
	// composites maps a composite full path to its shell node (split
	// form only); IO functions reference the shell, everyone else the
	// concrete node
	shells map[string]int
	// raws maps a raw block's full path to its own node. byPath cannot
	// serve here: creates[] handles land in byPath too, so a handle named
	// like another block's path would shadow that block
	raws map[string]int
}

// Build constructs the typed dependency graph from an unordered descriptor
// population. Discovery order never influences the result: every insertion
// pass sorts by full path first.
func Build(descriptors []entity.Descriptor) (*Graph, error) {
	g := &Graph{
		byPath:       map[string][]int{},
		byName:       map[string][]int{},
		bySource:     map[string]int{},
		schemaOf:     map[int]int{},
		AggSigs:      map[int]*AggSig{},
		BootstrapSQL: -1,
		FinalizeSQL:  -1,
	}
	b := &builder{
		g:       g,
		schemas: map[string]int{},
		fns:     map[string]int{},
		shells:  map[string]int{},
		raws:    map[string]int{},
	}

	// Seed the fixed nodes
	g.Bootstrap = g.addNode(Node{Kind: NodeBootstrapAnchor, FnRef: -1, TypeRef: -1})
	g.Root = g.addNode(Node{Kind: NodeExtensionRoot, FnRef: -1, TypeRef: -1})
	g.Finalize = g.addNode(Node{Kind: NodeFinalizeAnchor, FnRef: -1, TypeRef: -1})

	parts := partition(descriptors)

	if err := b.insertSchemas(parts.schemas); err != nil {
		return nil, err
	}
	if err := b.insertTypes(parts.enums, parts.composites); err != nil {
		return nil, err
	}
	if err := b.insertFunctions(parts.functions, parts.composites); err != nil {
		return nil, err
	}
	if err := b.linkComposites(parts.composites); err != nil {
		return nil, err
	}
	if err := b.insertOperators(parts.functions); err != nil {
		return nil, err
	}
	if err := b.insertOpClasses(parts.hashes, parts.ords); err != nil {
		return nil, err
	}
	if err := b.insertTriggers(parts.triggers); err != nil {
		return nil, err
	}
	if err := b.insertAggregates(parts.aggregates); err != nil {
		return nil, err
	}
	if err := b.insertRawSQL(parts.rawsql); err != nil {
		return nil, err
	}
	if err := b.resolvePositioning(parts.rawsql, parts.functions); err != nil {
		return nil, err
	}

	logger.Get().Debug("graph built", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

// partitioned is the population split by descriptor kind
type partitioned struct {
	schemas    []*entity.Schema
	enums      []*entity.Enum
	composites []*entity.Composite
	functions  []*entity.Function
	hashes     []*entity.HashOpClass
	ords       []*entity.OrdOpClass
	triggers   []*entity.Trigger
	aggregates []*entity.Aggregate
	rawsql     []*entity.RawSQL
}

func partition(descriptors []entity.Descriptor) *partitioned {
	p := &partitioned{}
	for _, d := range descriptors {
		switch d := d.(type) {
		case *entity.Schema:
			p.schemas = append(p.schemas, d)
		case *entity.Enum:
			p.enums = append(p.enums, d)
		case *entity.Composite:
			p.composites = append(p.composites, d)
		case *entity.Function:
			p.functions = append(p.functions, d)
		case *entity.HashOpClass:
			p.hashes = append(p.hashes, d)
		case *entity.OrdOpClass:
			p.ords = append(p.ords, d)
		case *entity.Trigger:
			p.triggers = append(p.triggers, d)
		case *entity.Aggregate:
			p.aggregates = append(p.aggregates, d)
		case *entity.RawSQL:
			p.rawsql = append(p.rawsql, d)
		}
	}
	sortByPath(p.schemas)
	sortByPath(p.enums)
	sortByPath(p.composites)
	sortByPath(p.functions)
	sortByPath(p.hashes)
	sortByPath(p.ords)
	sortByPath(p.triggers)
	sortByPath(p.aggregates)
	sortByPath(p.rawsql)
	return p
}

func sortByPath[D entity.Descriptor](ds []D) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].FullPath() < ds[j].FullPath() })
}

func (b *builder) insertSchemas(schemas []*entity.Schema) error {
	seen := map[string]string{}
	for _, s := range schemas {
		if entity.ReservedSchemas[s.Name()] {
			return fmt.Errorf("schema %q is a reserved external namespace and cannot be declared (%s)", s.Name(), s.Source())
		}
		if prev, dup := seen[s.Name()]; dup {
			return fmt.Errorf("schema %q declared twice: %s and %s", s.Name(), prev, s.FullPath())
		}
		seen[s.Name()] = s.FullPath()

		idx := b.g.addNode(Node{Kind: NodeSchema, Path: s.FullPath(), Desc: s, FnRef: -1, TypeRef: -1})
		b.g.addEdge(idx, b.g.Root, EdgeRequires)
		b.schemas[s.FullPath()] = idx
	}
	return nil
}

// placeInSchema wires the in-schema edge by walking from the node's module
// toward the root until a declared schema matches. Entities outside any
// declared schema land in the default schema and get a root edge instead.
func (b *builder) placeInSchema(idx int, module string) {
	for m := module; m != ""; m = entity.ModuleOf(m) {
		if schema, ok := b.schemas[m]; ok {
			b.g.schemaOf[idx] = schema
			b.g.addEdge(idx, schema, EdgeInSchema)
			return
		}
	}
	b.g.addEdge(idx, b.g.Root, EdgeRequires)
}

// registerSource indexes a type node under its host source spellings for
// alias resolution. A bare name claimed by two types stops resolving: the
// colliding key is poisoned rather than silently rebound.
func (b *builder) registerSource(path string, node int) {
	b.g.bySource[path] = node
	bare := entity.BareName(path)
	if prev, exists := b.g.bySource[bare]; exists && prev != node {
		b.g.bySource[bare] = -1
		return
	}
	b.g.bySource[bare] = node
}

func (b *builder) insertTypes(enums []*entity.Enum, composites []*entity.Composite) error {
	for _, e := range enums {
		if len(e.Variants) == 0 {
			return fmt.Errorf("enum %s has no variants (%s)", e.FullPath(), e.Source())
		}
		seen := map[string]bool{}
		for _, v := range e.Variants {
			if seen[v] {
				return fmt.Errorf("enum %s repeats variant %q (%s)", e.FullPath(), v, e.Source())
			}
			seen[v] = true
		}

		idx := b.g.addNode(Node{Kind: NodeEnum, Path: e.FullPath(), Desc: e, FnRef: -1, TypeRef: -1})
		b.placeInSchema(idx, e.Module())
		b.g.types = append(b.g.types, typeRef{node: idx, ids: e.IDs})
		b.registerSource(e.FullPath(), idx)
	}

	for _, c := range composites {
		split := c.Split()
		if split && (c.InFn == "" || c.OutFn == "") {
			return fmt.Errorf("composite %s must declare both in and out functions (%s)", c.FullPath(), c.Source())
		}
		if split && len(c.Attributes) > 0 {
			return fmt.Errorf("composite %s cannot combine IO functions with record attributes (%s)", c.FullPath(), c.Source())
		}
		if !split && len(c.Attributes) == 0 {
			return fmt.Errorf("composite %s declares neither IO functions nor record attributes (%s)", c.FullPath(), c.Source())
		}

		if split {
			shell := b.g.addNodeNoIndex(Node{Kind: NodeCompositeShell, Path: c.FullPath(), Desc: c, FnRef: -1, TypeRef: -1})
			b.placeInSchema(shell, c.Module())
			b.shells[c.FullPath()] = shell
		}
		idx := b.g.addNode(Node{Kind: NodeCompositeConcrete, Path: c.FullPath(), Desc: c, FnRef: -1, TypeRef: -1})
		b.placeInSchema(idx, c.Module())
		b.g.types = append(b.g.types, typeRef{node: idx, ids: c.IDs})
		b.registerSource(c.FullPath(), idx)
	}

	// Record-form attributes may name other registered types; resolve
	// once every type node exists
	for _, c := range composites {
		if c.Split() {
			continue
		}
		idx := b.g.byPath[c.FullPath()][0]
		for _, attr := range c.Attributes {
			if attr.Mapping.Kind != metadata.MappingSource {
				continue
			}
			target, ok := b.g.TypeNodeBySource(attr.Mapping.Source)
			if !ok || target < 0 {
				return &UnresolvedReference{From: c.FullPath(), To: attr.Mapping.Source}
			}
			if target != idx {
				b.g.addEdge(idx, target, EdgeUsesType)
			}
		}
	}
	return nil
}

// ioFunctionPaths returns the full paths of every composite IO function,
// which rank ahead of ordinary functions in the emission order
func ioFunctionPaths(composites []*entity.Composite) map[string]string {
	io := map[string]string{}
	for _, c := range composites {
		if !c.Split() {
			continue
		}
		prefix := ""
		if c.Module() != "" {
			prefix = c.Module() + entity.PathSep
		}
		io[prefix+c.InFn] = c.FullPath()
		io[prefix+c.OutFn] = c.FullPath()
	}
	return io
}

func (b *builder) insertFunctions(functions []*entity.Function, composites []*entity.Composite) error {
	io := ioFunctionPaths(composites)

	for _, f := range functions {
		if prev, dup := b.fns[f.FullPath()]; dup {
			return fmt.Errorf("function %s declared twice: %s and %s",
				f.FullPath(), b.g.Nodes[prev].Desc.Source(), f.Source())
		}

		kind := NodeFunction
		ownerComposite := ""
		if owner, isIO := io[f.FullPath()]; isIO {
			kind = NodeFunctionCompositeIO
			ownerComposite = owner
		}

		idx := b.g.addNode(Node{Kind: kind, Path: f.FullPath(), Desc: f, FnRef: -1, TypeRef: -1})
		b.placeInSchema(idx, f.Module())
		b.fns[f.FullPath()] = idx

		sig, err := b.resolveSignature(idx, f, ownerComposite)
		if err != nil {
			return err
		}
		b.g.Nodes[idx].Sig = sig
	}
	return nil
}

// resolveSignature translates every argument and return position of a
// function into its SQL rendering, wiring uses-type edges along the way
func (b *builder) resolveSignature(idx int, f *entity.Function, ownerComposite string) (*FnSig, error) {
	sig := &FnSig{}

	for _, arg := range f.Arguments {
		if arg.Mapping != nil && arg.Mapping.Kind == metadata.MappingSkip {
			continue
		}
		rt, err := b.resolvePosition(idx, f.FullPath(), ownerComposite, arg.UsedType, arg.HostType, arg.Mapping)
		if err != nil {
			return nil, err
		}
		sig.Args = append(sig.Args, ResolvedArg{
			Name:     arg.Name,
			Type:     rt,
			Default:  arg.Default,
			Variadic: arg.Variadic,
		})
	}

	sig.Ret.Kind = f.Returns.Kind
	switch f.Returns.Kind {
	case entity.ReturnNone, entity.ReturnTrigger:
		// nothing to resolve
	case entity.ReturnOne, entity.ReturnSetOf:
		rt, err := b.resolvePosition(idx, f.FullPath(), ownerComposite, f.Returns.UsedType, f.Returns.HostType, f.Returns.Mapping)
		if err != nil {
			return nil, err
		}
		sig.Ret.Type = rt
	case entity.ReturnTable:
		for _, col := range f.Returns.Columns {
			rt, err := b.resolvePosition(idx, f.FullPath(), ownerComposite, col.UsedType, col.HostType, col.Mapping)
			if err != nil {
				return nil, err
			}
			sig.Ret.Columns = append(sig.Ret.Columns, ResolvedColumn{Name: col.Name, Type: rt})
		}
	default:
		return nil, fmt.Errorf("function %s has unknown return kind %q", f.FullPath(), f.Returns.Kind)
	}
	return sig, nil
}

// resolvePosition resolves one type position: explicit mapping first, then
// stable id across every registered id-mapping set, then the primitive
// table, then source-spelling fallback. IO functions of a split composite
// reference the shell node so the concrete form can follow them.
func (b *builder) resolvePosition(fromNode int, fromPath, ownerComposite string, id metadata.TypeID, host string, mapping *metadata.SqlMapping) (ResolvedType, error) {
	if mapping != nil && mapping.Kind == metadata.MappingLiteral {
		return ResolvedType{SQL: mapping.Literal, Node: -1}, nil
	}
	if mapping != nil && mapping.Kind == metadata.MappingSource {
		node, ok := b.g.TypeNodeBySource(mapping.Source)
		if !ok || node < 0 {
			return ResolvedType{}, &UnresolvedReference{From: fromPath, To: mapping.Source}
		}
		return b.typeUse(fromNode, ownerComposite, node, mapping.ArrayBrackets), nil
	}
	if mapping != nil && mapping.Kind == metadata.MappingComposite && ownerComposite != "" {
		node := b.g.byPath[ownerComposite][0]
		return b.typeUse(fromNode, ownerComposite, node, mapping.ArrayBrackets), nil
	}

	if id != "" {
		if node, role, ok := b.g.TypeNodeByID(id); ok {
			return b.typeUse(fromNode, ownerComposite, node, role == metadata.RoleArray), nil
		}
	}
	if host != "" {
		array := strings.HasSuffix(host, "[]")
		elem := strings.TrimSuffix(host, "[]")
		if sql, ok := metadata.PrimitiveSQL(elem); ok {
			if array {
				sql += "[]"
			}
			return ResolvedType{SQL: sql, Node: -1}, nil
		}
		if node, ok := b.g.TypeNodeBySource(elem); ok && node >= 0 {
			return b.typeUse(fromNode, ownerComposite, node, array), nil
		}
	}

	ref := host
	if ref == "" {
		ref = string(id)
	}
	return ResolvedType{}, &UnresolvedReference{From: fromPath, To: ref}
}

// typeUse records a uses-type edge and returns the resolved reference
func (b *builder) typeUse(fromNode int, ownerComposite string, typeNode int, array bool) ResolvedType {
	target := typeNode
	if ownerComposite != "" && b.g.Nodes[typeNode].Path == ownerComposite {
		// An IO function referencing its own composite depends only on
		// the shell declaration
		if shell, ok := b.shells[ownerComposite]; ok {
			target = shell
		}
	}
	b.g.addEdge(fromNode, target, EdgeUsesType)
	return ResolvedType{Node: target, Array: array}
}

// linkComposites closes the shell/IO/concrete split: the concrete form
// follows both IO functions
func (b *builder) linkComposites(composites []*entity.Composite) error {
	for _, c := range composites {
		if !c.Split() {
			continue
		}
		concrete := b.g.byPath[c.FullPath()][0]
		shell := b.shells[c.FullPath()]

		for _, fnName := range []string{c.InFn, c.OutFn} {
			path := fnName
			if c.Module() != "" {
				path = c.Module() + entity.PathSep + fnName
			}
			fnNode, ok := b.fns[path]
			if !ok {
				return &UnresolvedReference{From: c.FullPath(), To: fnName}
			}
			b.g.addEdge(fnNode, shell, EdgeRequires)
			b.g.addEdge(concrete, fnNode, EdgeUsesFunction)
		}
	}
	return nil
}

// operatorNameChars are the characters SQL permits in an operator name
const operatorNameChars = "+-*/<>=~!@#%^&|`?"

func validOperatorName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(operatorNameChars, r) {
			return false
		}
	}
	return true
}

// insertOperators synthesizes an operator node for every function carrying
// an operator decoration
func (b *builder) insertOperators(functions []*entity.Function) error {
	for _, f := range functions {
		if f.Operator == nil {
			continue
		}
		if !validOperatorName(f.Operator.Opname) {
			return fmt.Errorf("function %s declares invalid operator name %q (%s)",
				f.FullPath(), f.Operator.Opname, f.Source())
		}
		if n := len(f.SignatureArguments()); n == 0 || n > 2 {
			return fmt.Errorf("operator %s on %s needs one or two arguments, has %d (%s)",
				f.Operator.Opname, f.FullPath(), n, f.Source())
		}
		fnNode := b.fns[f.FullPath()]
		idx := b.g.addNodeNoIndex(Node{
			Kind:    NodeOperator,
			Path:    f.FullPath() + entity.PathSep + f.Operator.Opname,
			Desc:    f,
			FnRef:   fnNode,
			TypeRef: -1,
		})
		b.g.addEdge(idx, fnNode, EdgeUsesFunction)
		b.placeInSchema(idx, f.Module())
	}
	return nil
}

func (b *builder) insertOpClasses(hashes []*entity.HashOpClass, ords []*entity.OrdOpClass) error {
	// method -> type node -> first claiming path
	defaults := map[string]map[int]string{"hash": {}, "btree": {}}

	claim := func(method, path string, typeNode int) error {
		if prev, taken := defaults[method][typeNode]; taken {
			return fmt.Errorf("type %s already has a default %s operator class from %s; %s conflicts",
				b.g.Nodes[typeNode].Path, method, prev, path)
		}
		defaults[method][typeNode] = path
		return nil
	}

	resolve := func(path, typePath, fnName string) (typeNode, fnNode int, err error) {
		nodes := b.g.byPath[typePath]
		if len(nodes) == 0 {
			return 0, 0, &UnresolvedReference{From: path, To: typePath}
		}
		typeNode = nodes[0]

		fnPath := fnName
		if module := entity.ModuleOf(typePath); module != "" {
			fnPath = module + entity.PathSep + fnName
		}
		fnNode, ok := b.fns[fnPath]
		if !ok {
			return 0, 0, &UnresolvedReference{From: path, To: fnName}
		}
		return typeNode, fnNode, nil
	}

	for _, h := range hashes {
		typeNode, fnNode, err := resolve(h.FullPath(), h.TypePath, h.HashFnName())
		if err != nil {
			return err
		}
		if err := claim("hash", h.FullPath(), typeNode); err != nil {
			return err
		}
		idx := b.g.addNode(Node{Kind: NodeHashOpClass, Path: h.FullPath(), Desc: h, FnRef: fnNode, TypeRef: typeNode})
		b.g.addEdge(idx, typeNode, EdgeUsesType)
		b.g.addEdge(idx, fnNode, EdgeUsesFunction)
		b.placeInSchema(idx, entity.ModuleOf(h.TypePath))
	}

	for _, o := range ords {
		typeNode, fnNode, err := resolve(o.FullPath(), o.TypePath, o.CmpFnName())
		if err != nil {
			return err
		}
		if err := claim("btree", o.FullPath(), typeNode); err != nil {
			return err
		}
		idx := b.g.addNode(Node{Kind: NodeOrdOpClass, Path: o.FullPath(), Desc: o, FnRef: fnNode, TypeRef: typeNode})
		b.g.addEdge(idx, typeNode, EdgeUsesType)
		b.g.addEdge(idx, fnNode, EdgeUsesFunction)
		b.placeInSchema(idx, entity.ModuleOf(o.TypePath))
	}
	return nil
}

func (b *builder) insertTriggers(triggers []*entity.Trigger) error {
	for _, t := range triggers {
		fnNode, ok := b.fns[t.FunctionPath]
		if !ok {
			return &UnresolvedReference{From: t.FullPath(), To: t.FunctionPath}
		}
		fn := b.g.Nodes[fnNode].Desc.(*entity.Function)
		if fn.Returns.Kind != entity.ReturnTrigger {
			return fmt.Errorf("trigger %s wraps %s, which does not return trigger (%s)",
				t.FullPath(), t.FunctionPath, t.Source())
		}
		idx := b.g.addNode(Node{Kind: NodeTrigger, Path: t.FullPath(), Desc: t, FnRef: fnNode, TypeRef: -1})
		b.g.addEdge(idx, fnNode, EdgeUsesFunction)
		b.placeInSchema(idx, t.Module())
	}
	return nil
}

func (b *builder) insertAggregates(aggregates []*entity.Aggregate) error {
	for _, a := range aggregates {
		if a.OrderedSet && len(a.OrderedSetArgs) == 0 {
			return fmt.Errorf("ordered-set aggregate %s must declare direct (ordered set) arguments (%s)", a.FullPath(), a.Source())
		}
		if a.MovingStateFn != "" && a.MovingInverseFn == "" {
			return fmt.Errorf("aggregate %s declares a moving state function without its inverse (%s)", a.FullPath(), a.Source())
		}
		if a.MovingFinalFn != "" && a.MovingStateFn == "" {
			return fmt.Errorf("aggregate %s declares a moving final function without a moving state function (%s)", a.FullPath(), a.Source())
		}

		idx := b.g.addNode(Node{Kind: NodeAggregate, Path: a.FullPath(), Desc: a, FnRef: -1, TypeRef: -1})
		b.placeInSchema(idx, a.Module())

		agg := &AggSig{}
		var err error
		agg.State, err = b.resolvePosition(idx, a.FullPath(), "", a.StateTypeID, a.StateType, nil)
		if err != nil {
			return err
		}
		if a.MovingStateType != "" {
			agg.MovingState, err = b.resolvePosition(idx, a.FullPath(), "", "", a.MovingStateType, nil)
			if err != nil {
				return err
			}
		} else {
			agg.MovingState = ResolvedType{Node: -1}
		}

		resolveArgs := func(args []entity.AggregateArg) ([]ResolvedArg, error) {
			var resolved []ResolvedArg
			for _, arg := range args {
				rt, err := b.resolvePosition(idx, a.FullPath(), "", arg.UsedType, arg.HostType, arg.Mapping)
				if err != nil {
					return nil, err
				}
				resolved = append(resolved, ResolvedArg{Name: arg.Name, Type: rt})
			}
			return resolved, nil
		}
		if agg.Args, err = resolveArgs(a.Args); err != nil {
			return err
		}
		if agg.OrderedSetArgs, err = resolveArgs(a.OrderedSetArgs); err != nil {
			return err
		}
		b.g.AggSigs[idx] = agg

		for _, fnName := range a.SupportFns() {
			fnPath := fnName
			if a.Module() != "" {
				fnPath = a.Module() + entity.PathSep + fnName
			}
			fnNode, ok := b.fns[fnPath]
			if !ok {
				return &UnresolvedReference{From: a.FullPath(), To: fnName}
			}
			b.g.addEdge(idx, fnNode, EdgeUsesFunction)
		}
	}
	return nil
}

func (b *builder) insertRawSQL(blocks []*entity.RawSQL) error {
	for _, r := range blocks {
		idx := b.g.addNode(Node{Kind: NodeRawSQL, Path: r.FullPath(), Desc: r, FnRef: -1, TypeRef: -1})
		b.raws[r.FullPath()] = idx
		if !r.Bootstrap {
			// bootstrap blocks precede schema creation, so they never
			// take an in-schema edge
			b.placeInSchema(idx, r.Module())
		}

		if r.Bootstrap {
			if b.g.BootstrapSQL != -1 {
				return &DuplicateAnchor{
					Kind:  AnchorBootstrap,
					First: b.g.Nodes[b.g.BootstrapSQL].Path,
					Extra: r.FullPath(),
				}
			}
			b.g.BootstrapSQL = idx
			b.g.addEdge(idx, b.g.Bootstrap, EdgeRequires)
		}
		if r.Finalize {
			if b.g.FinalizeSQL != -1 {
				return &DuplicateAnchor{
					Kind:  AnchorFinalize,
					First: b.g.Nodes[b.g.FinalizeSQL].Path,
					Extra: r.FullPath(),
				}
			}
			b.g.FinalizeSQL = idx
			b.g.addEdge(b.g.Finalize, idx, EdgeRequires)
		}

		// creates[] handles become nameable targets of requires[]
		for _, handle := range r.Creates {
			b.g.byPath[handle] = append(b.g.byPath[handle], idx)
			b.g.byName[entity.BareName(handle)] = append(b.g.byName[entity.BareName(handle)], idx)
			b.g.addEdge(idx, idx, EdgeProvidesName)
		}
	}
	return nil
}

// resolvePositioning wires every user-declared before/after/requires
// directive once all nameable nodes exist
func (b *builder) resolvePositioning(blocks []*entity.RawSQL, functions []*entity.Function) error {
	for _, r := range blocks {
		from := b.raws[r.FullPath()]
		for _, ref := range r.Requires {
			target, err := b.resolveRef(r.FullPath(), r.Module(), ref)
			if err != nil {
				return err
			}
			b.g.addEdge(from, target, EdgeRequires)
		}
		for _, ref := range r.After {
			target, err := b.resolveRef(r.FullPath(), r.Module(), ref)
			if err != nil {
				return err
			}
			b.g.addEdge(from, target, EdgeRequires)
		}
		for _, ref := range r.Before {
			target, err := b.resolveRef(r.FullPath(), r.Module(), ref)
			if err != nil {
				return err
			}
			b.g.addEdge(from, target, EdgeBefore)
		}
	}

	for _, f := range functions {
		from := b.fns[f.FullPath()]
		for _, ref := range append(append([]string{}, f.Requires...), f.After...) {
			target, err := b.resolveRef(f.FullPath(), f.Module(), ref)
			if err != nil {
				return err
			}
			b.g.addEdge(from, target, EdgeRequires)
		}
		for _, ref := range f.Before {
			target, err := b.resolveRef(f.FullPath(), f.Module(), ref)
			if err != nil {
				return err
			}
			b.g.addEdge(from, target, EdgeBefore)
		}
	}
	return nil
}

// resolveRef resolves a positioning reference: exact full-path match
// first, then bare name scoped to the referrer's module, then a unique
// bare name anywhere. Anything else is unresolved or ambiguous.
func (b *builder) resolveRef(fromPath, fromModule, ref string) (int, error) {
	if nodes := b.g.byPath[ref]; len(nodes) == 1 {
		return nodes[0], nil
	} else if len(nodes) > 1 {
		return 0, &AmbiguousReference{From: fromPath, Target: ref, Candidates: b.paths(nodes)}
	}

	candidates := b.g.byName[ref]
	if len(candidates) == 0 {
		return 0, &UnresolvedReference{From: fromPath, To: ref}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	var scoped []int
	for _, node := range candidates {
		if entity.ModuleOf(b.g.Nodes[node].Path) == fromModule {
			scoped = append(scoped, node)
		}
	}
	if len(scoped) == 1 {
		return scoped[0], nil
	}
	return 0, &AmbiguousReference{From: fromPath, Target: ref, Candidates: b.paths(candidates)}
}

func (b *builder) paths(nodes []int) []string {
	paths := make([]string, len(nodes))
	for i, node := range nodes {
		paths[i] = b.g.Nodes[node].Path
	}
	sort.Strings(paths)
	return paths
}
