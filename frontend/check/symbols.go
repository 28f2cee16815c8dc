package check

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
)

type SymbolKind int

const (
	FunctionSymbol SymbolKind = iota
	EntitySymbol
	SealedSymbol
	AliasSymbol
	ValueSymbol
	ConstructorSymbol
	BuiltinSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case FunctionSymbol:
		return "function"
	case EntitySymbol:
		return "entity"
	case SealedSymbol:
		return "sealed"
	case AliasSymbol:
		return "alias"
	case ValueSymbol:
		return "value"
	case ConstructorSymbol:
		return "constructor"
	case BuiltinSymbol:
		return "builtin"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// isTypeName reports whether symbols of kind k name a type rather than a value.
// An entity is both: its EntitySymbol is a type and its ConstructorSymbol a value.
func (k SymbolKind) isTypeName() bool {
	return k == EntitySymbol || k == SealedSymbol || k == AliasSymbol
}

// Variadic is the MaxArity of symbols accepting any number of arguments
const Variadic = -1

type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the declared type: a types.Function for callables, the entity,
	// sealed or alias type for type names, and the annotated type for values
	Type     types.Type
	MinArity int
	MaxArity int
	Fields   []types.Field
	Variants []string
	// Mutable is set for top-level var declarations
	Mutable bool
	Decl    cst.Range
}

// Callable reports whether the symbol may appear in call position
func (s *Symbol) Callable() bool {
	switch s.Kind {
	case FunctionSymbol, ConstructorSymbol, BuiltinSymbol:
		return true
	default:
		return false
	}
}

// SymbolTable holds every top-level name, in two namespaces: type names and
// value names. It is built during the first pass and frozen before the second.
type SymbolTable struct {
	typeNames  *immutable.Map[string, *Symbol]
	valueNames *immutable.Map[string, *Symbol]
	order      []*Symbol
	frozen     bool
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		typeNames:  immutable.NewMap[string, *Symbol](nil),
		valueNames: immutable.NewMap[string, *Symbol](nil),
	}
}

func (t *SymbolTable) namespace(k SymbolKind) **immutable.Map[string, *Symbol] {
	if k.isTypeName() {
		return &t.typeNames
	}
	return &t.valueNames
}

// Define adds sym, returning false if its name is already taken in the same
// namespace. Calling Define on a frozen table is a programming error and panics.
func (t *SymbolTable) Define(sym *Symbol) bool {
	if t.frozen {
		panic(fmt.Sprintf("symbol table is frozen: cannot define %s '%s'", sym.Kind, sym.Name))
	}
	ns := t.namespace(sym.Kind)
	if _, exists := (*ns).Get(sym.Name); exists {
		return false
	}
	*ns = (*ns).Set(sym.Name, sym)
	t.order = append(t.order, sym)
	return true
}

// Freeze forbids further definitions
func (t *SymbolTable) Freeze() {
	t.frozen = true
}

func (t *SymbolTable) Frozen() bool {
	return t.frozen
}

// LookupType finds an entity, sealed hierarchy or alias
func (t *SymbolTable) LookupType(name string) (*Symbol, bool) {
	return t.typeNames.Get(name)
}

// LookupValue finds a function, constructor, builtin or top-level value
func (t *SymbolTable) LookupValue(name string) (*Symbol, bool) {
	return t.valueNames.Get(name)
}

// All returns every symbol in definition order
func (t *SymbolTable) All() []*Symbol {
	return t.order
}

func (t *SymbolTable) Len() int {
	return len(t.order)
}
