package eval

import (
	"io"
	"log/slog"
	"os"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
	"github.com/cottand/hunch/internal/log"
	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds how deeply calls may nest
const DefaultMaxDepth = 4096

type Option func(*Evaluator)

// WithAdapters replaces the default adapters with the non-nil ones of a
func WithAdapters(a Adapters) Option {
	return func(e *Evaluator) {
		e.adapters = a.merge(e.adapters)
	}
}

// WithOutput is where print and println write, os.Stdout by default
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) {
		e.out = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		e.maxDepth = depth
	}
}

// WithBuiltin adds a host function, replacing any builtin of the same name
func WithBuiltin(b *Builtin) Option {
	return func(e *Evaluator) {
		e.builtins[b.Name] = b
	}
}

// Evaluator walks a loaded program. It is not safe for concurrent use:
// hosts wanting parallel runs create one Evaluator per run.
type Evaluator struct {
	logger   *slog.Logger
	adapters Adapters
	out      io.Writer
	maxDepth int
	depth    int
	builtins map[string]*Builtin

	registry *typeRegistry
	// globals holds declared functions and constructors, then top-level values once initialised
	globals     Env
	values      []*cst.Node
	initialized bool
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger:   log.DefaultLogger.With("section", "eval"),
		adapters: DefaultAdapters(),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
		builtins: make(map[string]*Builtin),
		registry: newTypeRegistry(),
		globals:  NewEnv(),
	}
	for _, b := range defaultBuiltins() {
		e.builtins[b.Name] = b
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load registers the declarations of tree. Top-level values are evaluated
// lazily, by the first Run or Call.
func (e *Evaluator) Load(tree *cst.Node) error {
	if tree == nil {
		return errors.New("no tree to load")
	}
	if !tree.Is(cst.KindSourceFile) {
		return errors.Errorf("expected a %s, got %s", cst.KindSourceFile, tree.Kind)
	}
	for _, cycle := range e.registry.register(tree.Children) {
		e.logger.Warn("cyclic type alias stands for Any", "alias", cycle.Name, "path", cycle.Path)
	}

	for _, decl := range tree.Children {
		switch decl.Kind {
		case cst.KindFunctionDecl, cst.KindIntentDecl, cst.KindFuzzyDecl:
			fn := e.function(decl)
			e.globals = e.globals.Define(fn.Name, fn, false)
		case cst.KindEntityDecl:
			e.defineConstructor(decl)
		case cst.KindSealedDecl:
			for _, v := range decl.ChildrenOf(cst.KindEntityDecl) {
				e.defineConstructor(v)
			}
		case cst.KindValDecl, cst.KindVarDecl:
			e.values = append(e.values, decl)
		case cst.KindTypeAlias:
		default:
			e.logger.Debug("skipping declaration", "decl", cst.Slog(decl))
		}
	}
	e.initialized = false
	e.logger.Debug("loaded program", "declarations", len(tree.Children), "globals", e.globals.Len())
	return nil
}

func (e *Evaluator) function(decl *cst.Node) *Function {
	fn := &Function{
		Name:   decl.FieldText("name"),
		Params: e.params(decl.Field("parameters")),
		Ret:    e.registry.annotation(decl.Field("return_type")),
		Decl:   decl,
	}
	switch decl.Kind {
	case cst.KindIntentDecl:
		fn.Kind = IntentFunction
	case cst.KindFuzzyDecl:
		fn.Kind = FuzzyFunction
		fn.Ret = types.Confident{Payload: types.Bool}
	}
	return fn
}

func (e *Evaluator) params(list *cst.Node) []Param {
	var params []Param
	for _, p := range list.ChildrenOf(cst.KindParameter) {
		params = append(params, Param{
			Name:    p.FieldText("name"),
			Type:    e.registry.annotation(p.Field("type")),
			Default: p.Field("default"),
		})
	}
	return params
}

func (e *Evaluator) defineConstructor(decl *cst.Node) {
	name := decl.FieldText("name")
	entity, ok := e.registry.names[name].(*types.Entity)
	if !ok {
		return
	}
	e.globals = e.globals.Define(name, &Constructor{Of: entity, Invariants: e.registry.invariants[name]}, false)
}

// initialize evaluates top-level values in declaration order
func (e *Evaluator) initialize() error {
	if e.initialized {
		return nil
	}
	e.initialized = true
	for _, decl := range e.values {
		name := decl.FieldText("name")
		var err error
		e.globals, _, err = e.exec(decl, e.globals)
		if err != nil {
			return errors.Wrapf(err, "initialising %s", name)
		}
	}
	return nil
}

// Run evaluates top-level values, then calls main if the program declares one.
// It returns the value of main, or Unit.
func (e *Evaluator) Run() (Value, error) {
	if err := e.initialize(); err != nil {
		return nil, err
	}
	main, ok := e.globals.Lookup("main")
	if !ok {
		return Unit, nil
	}
	ret, err := e.callValue(main, nil, cst.Range{})
	return ret, errors.Wrap(err, "running main")
}

// Call calls the global function, constructor or builtin name with args
func (e *Evaluator) Call(name string, args ...Value) (Value, error) {
	if err := e.initialize(); err != nil {
		return nil, err
	}
	callee, ok := e.lookup(name, Env{})
	if !ok {
		return nil, errors.WithStack(&UndefinedError{Name: name})
	}
	ret, err := e.callValue(callee, args, cst.Range{})
	return ret, errors.Wrapf(err, "calling %s", name)
}

// EvalExpr evaluates a single expression in env, on top of the loaded program
func (e *Evaluator) EvalExpr(n *cst.Node, env Env) (Value, error) {
	if err := e.initialize(); err != nil {
		return nil, err
	}
	return e.eval(n, env)
}

// Global returns a top-level binding of the loaded program
func (e *Evaluator) Global(name string) (Value, bool) {
	return e.globals.Lookup(name)
}

// lookup resolves name in env, then globals, then builtins
func (e *Evaluator) lookup(name string, env Env) (Value, bool) {
	if v, ok := env.Lookup(name); ok {
		return v, true
	}
	if v, ok := e.globals.Lookup(name); ok {
		return v, true
	}
	if b, ok := e.builtins[name]; ok {
		return b, true
	}
	return nil, false
}

// field returns the named child of n, or a MalformedError
func field(n *cst.Node, name string) (*cst.Node, error) {
	if f := n.Field(name); f != nil {
		return f, nil
	}
	return nil, errors.WithStack(&MalformedError{Range: n.Span(), Kind: n.Kind, Field: name})
}

// truth reads v as a condition, ignoring its confidence
func truth(v Value, at cst.Range, what string) (bool, error) {
	b, ok := Strip(v).(Bool)
	if !ok {
		return false, typeErrorf(at, "%s should be Bool, got '%v'", what, Strip(v).Type())
	}
	return bool(b), nil
}
