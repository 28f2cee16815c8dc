// Package check infers types over a tree and reports diagnostics.
//
// Checking runs in two passes. The first registers every top-level
// declaration in a SymbolTable, so that declarations may refer to each other
// regardless of order. The table is then frozen, and the second pass walks
// every body inferring expression types against it.
package check

import (
	"log/slog"
	"strconv"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/frontend/types"
	"github.com/cottand/hunch/internal/log"
	"github.com/cottand/hunch/util"
)

type Option func(*Checker)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithBuiltin makes b callable from checked code, replacing any default
// builtin of the same name
func WithBuiltin(b Builtin) Option {
	return func(c *Checker) {
		c.builtins[b.Name] = b
	}
}

type Checker struct {
	logger   *slog.Logger
	builtins map[string]Builtin

	// state of the current Check
	symbols *SymbolTable

	// declared and declaredValues map declaration nodes to the symbols they introduced
	declared       map[*cst.Node]*Symbol
	declaredValues map[*cst.Node]*Symbol
	globals        scope
	returns        util.Stack[types.Type]
	diags          *herr.Diagnostics
	types          map[*cst.Node]types.Type
}

func New(opts ...Option) *Checker {
	c := &Checker{
		logger:   log.DefaultLogger.With("section", "check"),
		builtins: make(map[string]Builtin),
	}
	for _, b := range DefaultBuiltins() {
		c.builtins[b.Name] = b
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Result struct {
	Diagnostics *herr.Diagnostics
	Symbols     *SymbolTable
	// Types holds the inferred type of every expression node visited
	Types map[*cst.Node]types.Type
}

// TypeOf returns the inferred type of an expression node, or Any if it was never visited
func (r *Result) TypeOf(n *cst.Node) types.Type {
	if t, ok := r.Types[n]; ok {
		return t
	}
	return types.Any
}

// Check is a convenience for New(opts...).Check(tree).Diagnostics
func Check(tree *cst.Node, opts ...Option) *herr.Diagnostics {
	return New(opts...).Check(tree).Diagnostics
}

// Check reports every problem found in tree. It never panics on well-formed
// trees, and reports missing fields as Malformed diagnostics.
func (c *Checker) Check(tree *cst.Node) *Result {
	c.symbols = NewSymbolTable()
	c.declared = make(map[*cst.Node]*Symbol)
	c.declaredValues = make(map[*cst.Node]*Symbol)
	c.globals = newScope()
	c.returns = util.Stack[types.Type]{}
	c.diags = &herr.Diagnostics{}
	c.types = make(map[*cst.Node]types.Type)

	if tree == nil {
		return c.result()
	}
	if !tree.Is(cst.KindSourceFile) {
		c.report(herr.NewMalformed{Range: tree.Span(), Kind: tree.Kind, Field: "declarations"})
		return c.result()
	}
	decls := c.children(tree)

	c.registerTypeNames(decls)
	c.completeTypes(decls)
	c.registerSignatures(decls)
	c.symbols.Freeze()
	c.logger.Debug("registered symbols", "count", c.symbols.Len())

	for _, decl := range decls {
		c.checkDeclaration(decl)
	}
	c.logger.Debug("checked", "diagnostics", c.diags)
	return c.result()
}

func (c *Checker) result() *Result {
	return &Result{Diagnostics: c.diags, Symbols: c.symbols, Types: c.types}
}

func (c *Checker) report(err herr.HunchError) {
	c.diags = c.diags.With(herr.New(err))
}

// field returns a required field of n, reporting it when missing
func (c *Checker) field(n *cst.Node, name string) *cst.Node {
	f := n.Field(name)
	if f == nil {
		c.report(herr.NewMalformed{Range: n.Span(), Kind: n.Kind, Field: name})
	}
	return f
}

// children returns the children of n, reporting any that are missing
func (c *Checker) children(n *cst.Node) []*cst.Node {
	present := make([]*cst.Node, 0, len(n.Items()))
	for i, child := range n.Items() {
		if child == nil {
			c.report(herr.NewMalformed{Range: n.Span(), Kind: n.Kind, Field: "children[" + strconv.Itoa(i) + "]"})
			continue
		}
		present = append(present, child)
	}
	return present
}

// name returns the text of the required name field of a declaration
func (c *Checker) name(n *cst.Node) (string, bool) {
	f := c.field(n, "name")
	if f == nil {
		return "", false
	}
	return f.Text, true
}

func (c *Checker) define(sym *Symbol, decl *cst.Node) {
	if !c.symbols.Define(sym) {
		c.report(herr.NewDuplicateDeclaration{Range: sym.Decl, Name: sym.Name})
		return
	}
	if sym.Kind.isTypeName() {
		c.declared[decl] = sym
	} else {
		c.declaredValues[decl] = sym
	}
	c.logger.Debug("defined symbol", "name", sym.Name, "kind", sym.Kind, "type", sym.Type)
}

// lookupType resolves type names in annotations
func (c *Checker) lookupType(name string) (types.Type, bool) {
	sym, ok := c.symbols.LookupType(name)
	if !ok {
		return nil, false
	}
	return sym.Type, true
}

// annotation converts an optional type annotation, defaulting to Any
func (c *Checker) annotation(n *cst.Node) types.Type {
	if n == nil {
		return types.Any
	}
	return types.FromNode(n, c.lookupType, func(err error) {
		switch err := err.(type) {
		case *types.UnknownTypeError:
			c.report(herr.NewUnknownType{Range: err.Range, Name: err.Name})
		case *types.MalformedTypeError:
			c.report(herr.Unclassified{Range: err.Range, From: err})
		default:
			c.report(herr.Unclassified{Range: n.Span(), From: err})
		}
	})
}

// registerTypeNames creates every entity, sealed hierarchy and alias, without
// looking inside them, so that later phases can refer to any of them
func (c *Checker) registerTypeNames(decls []*cst.Node) {
	for _, decl := range decls {
		switch decl.Kind {
		case cst.KindEntityDecl:
			c.registerEntityName(decl, "")

		case cst.KindSealedDecl:
			name, ok := c.name(decl)
			if !ok {
				continue
			}
			variantDecls := decl.ChildrenOf(cst.KindEntityDecl)
			variants := make([]string, 0, len(variantDecls))
			for _, v := range variantDecls {
				if vName := v.FieldText("name"); vName != "" {
					variants = append(variants, vName)
				}
			}
			c.define(&Symbol{
				Name:     name,
				Kind:     SealedSymbol,
				Type:     types.NewSealed(name, variants...),
				Variants: variants,
				Decl:     decl.Span(),
			}, decl)
			for _, v := range variantDecls {
				c.registerEntityName(v, name)
			}

		case cst.KindTypeAlias:
			name, ok := c.name(decl)
			if !ok {
				continue
			}
			c.define(&Symbol{Name: name, Kind: AliasSymbol, Type: &types.Alias{Name: name}, Decl: decl.Span()}, decl)
		}
	}
}

func (c *Checker) registerEntityName(decl *cst.Node, parent string) {
	name, ok := c.name(decl)
	if !ok {
		return
	}
	c.define(&Symbol{Name: name, Kind: EntitySymbol, Type: types.NewEntity(name, parent), Decl: decl.Span()}, decl)
}

// completeTypes sets alias targets and entity fields, now that every type name exists
func (c *Checker) completeTypes(decls []*cst.Node) {
	var aliases []*types.Alias
	aliasDecls := make(map[*types.Alias]*cst.Node)
	for _, decl := range decls {
		if !decl.Is(cst.KindTypeAlias) {
			continue
		}
		sym, ok := c.declared[decl]
		if !ok {
			continue
		}
		alias := sym.Type.(*types.Alias)
		alias.Target = c.annotation(c.field(decl, "type"))
		aliases = append(aliases, alias)
		aliasDecls[alias] = decl
	}

	cycles := types.CheckAliasCycles(aliases)
	for _, cycle := range cycles {
		alias := findAlias(aliases, cycle.Name)
		c.report(herr.NewAliasCycle{Range: aliasDecls[alias].Span(), Name: cycle.Name, Path: cycle.Path})
	}
	// a cyclic alias stands for Any from here on
	for _, cycle := range cycles {
		findAlias(aliases, cycle.Name).Target = types.Any
	}

	for _, decl := range decls {
		switch decl.Kind {
		case cst.KindEntityDecl:
			c.completeEntity(decl)
		case cst.KindSealedDecl:
			for _, v := range decl.ChildrenOf(cst.KindEntityDecl) {
				c.completeEntity(v)
			}
		}
	}
}

func findAlias(aliases []*types.Alias, name string) *types.Alias {
	for _, a := range aliases {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (c *Checker) completeEntity(decl *cst.Node) {
	sym, ok := c.declared[decl]
	if !ok {
		return
	}
	var fields []types.Field
	for _, f := range decl.ChildrenOf(cst.KindFieldDecl) {
		name, ok := c.name(f)
		if !ok {
			continue
		}
		fields = append(fields, types.Field{Name: name, Type: c.annotation(f.Field("type"))})
	}
	sym.Type.(*types.Entity).SetFields(fields)
	sym.Fields = fields
}

// registerSignatures defines functions, constructors and top-level values
func (c *Checker) registerSignatures(decls []*cst.Node) {
	for _, decl := range decls {
		switch decl.Kind {
		case cst.KindFunctionDecl, cst.KindIntentDecl, cst.KindFuzzyDecl:
			c.registerFunction(decl)

		case cst.KindEntityDecl:
			c.registerConstructor(decl)

		case cst.KindSealedDecl:
			for _, v := range decl.ChildrenOf(cst.KindEntityDecl) {
				c.registerConstructor(v)
			}

		case cst.KindValDecl, cst.KindVarDecl:
			name, ok := c.name(decl)
			if !ok {
				continue
			}
			c.define(&Symbol{
				Name:    name,
				Kind:    ValueSymbol,
				Type:    c.annotation(decl.Field("type")),
				Mutable: decl.Is(cst.KindVarDecl),
				Decl:    decl.Span(),
			}, decl)

		case cst.KindTypeAlias:
		default:
			c.report(herr.Unclassified{Range: decl.Span(), From: errUnexpectedDeclaration{decl.Kind}})
		}
	}
}

type errUnexpectedDeclaration struct {
	kind string
}

func (e errUnexpectedDeclaration) Error() string {
	return "unexpected top-level '" + e.kind + "'"
}

// signature reads the parameter list of a function-like declaration
func (c *Checker) signature(params *cst.Node) (paramTypes []types.Type, minArity int) {
	for _, p := range params.ChildrenOf(cst.KindParameter) {
		paramTypes = append(paramTypes, c.annotation(p.Field("type")))
		if p.Field("default") == nil {
			minArity++
		}
	}
	return paramTypes, minArity
}

func (c *Checker) registerFunction(decl *cst.Node) {
	name, ok := c.name(decl)
	if !ok {
		return
	}
	paramTypes, minArity := c.signature(decl.Field("parameters"))
	var ret types.Type
	if decl.Is(cst.KindFuzzyDecl) {
		ret = types.Confident{Payload: types.Bool}
	} else {
		ret = c.annotation(decl.Field("return_type"))
	}
	c.define(&Symbol{
		Name:     name,
		Kind:     FunctionSymbol,
		Type:     types.Function{Params: paramTypes, Ret: ret},
		MinArity: minArity,
		MaxArity: len(paramTypes),
		Decl:     decl.Span(),
	}, decl)
}

func (c *Checker) registerConstructor(decl *cst.Node) {
	sym, ok := c.declared[decl]
	if !ok {
		return
	}
	params := make([]types.Type, len(sym.Fields))
	for i, f := range sym.Fields {
		params[i] = f.Type
	}
	c.define(&Symbol{
		Name:     sym.Name,
		Kind:     ConstructorSymbol,
		Type:     types.Function{Params: params, Ret: sym.Type},
		MinArity: len(params),
		MaxArity: len(params),
		Fields:   sym.Fields,
		Decl:     decl.Span(),
	}, decl)
}
