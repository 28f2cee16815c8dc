package herr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

// SetDebug makes FormatWithCode include where each error was raised
func SetDebug(enabled bool) {
	enableDebugErrorPrinting = enabled
}

type HunchError interface {
	Error() string
	Code() Code
	Severity() Severity
	cst.Positioner

	withStack([]byte) HunchError
	getStack() []byte
}

func FormatWithCode(e HunchError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			if lines := strings.Split(stack, "\n"); len(lines) > 6 {
				stack = strings.TrimSpace(lines[6])
			}
		}
		return fmt.Sprintf("%s:(H%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(H%03d) %s", e.Code(), e.Error())
}

// New records where err was raised, see FormatWithCode
func New[E HunchError](err E) HunchError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	cst.Range
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() Code         { return None }
func (e Unclassified) Severity() Severity { return SeverityError }
func (e Unclassified) getStack() []byte   { return e.stack }
func (e Unclassified) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// NewUndefinedName is reported for identifiers bound nowhere in scope.
// InCall is set when the name is in call position.
type NewUndefinedName struct {
	cst.Range
	Name   string
	InCall bool
	stack  []byte
}

func (e NewUndefinedName) Error() string {
	if e.InCall {
		return fmt.Sprintf("Undefined function '%s'", e.Name)
	}
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}
func (e NewUndefinedName) Code() Code         { return UndefinedName }
func (e NewUndefinedName) Severity() Severity { return SeverityError }
func (e NewUndefinedName) getStack() []byte   { return e.stack }
func (e NewUndefinedName) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// NewCallArity is an error when too few arguments are passed, and only a
// warning when too many are
type NewCallArity struct {
	cst.Range
	Function string
	Min, Max int
	Got      int
	stack    []byte
}

func (e NewCallArity) tooFew() bool { return e.Got < e.Min }

func (e NewCallArity) Error() string {
	if e.tooFew() {
		return fmt.Sprintf("%s expects at least %d argument(s) but got %d", e.Function, e.Min, e.Got)
	}
	return fmt.Sprintf("%s expects at most %d argument(s) but got %d", e.Function, e.Max, e.Got)
}
func (e NewCallArity) Code() Code { return CallArity }
func (e NewCallArity) Severity() Severity {
	if e.tooFew() {
		return SeverityError
	}
	return SeverityWarning
}
func (e NewCallArity) getStack() []byte { return e.stack }
func (e NewCallArity) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewIncompatibleOperands struct {
	cst.Range
	Operator    string
	Left, Right types.Type
	stack       []byte
}

func (e NewIncompatibleOperands) Error() string {
	return fmt.Sprintf("Operator '%s' has incompatible types '%v' and '%v'", e.Operator, e.Left, e.Right)
}
func (e NewIncompatibleOperands) Code() Code         { return TypeIncompatible }
func (e NewIncompatibleOperands) Severity() Severity { return SeverityWarning }
func (e NewIncompatibleOperands) getStack() []byte   { return e.stack }
func (e NewIncompatibleOperands) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// OperandSide says which operand of a logical operator NewNonBoolOperand is about
type OperandSide int

const (
	SideLeft OperandSide = iota
	SideRight
	SideOnly
)

type NewNonBoolOperand struct {
	cst.Range
	Operator string
	Side     OperandSide
	Got      types.Type
	stack    []byte
}

func (e NewNonBoolOperand) Error() string {
	switch e.Side {
	case SideLeft:
		return fmt.Sprintf("Left operand of '%s' should be Bool, got '%v'", e.Operator, e.Got)
	case SideRight:
		return fmt.Sprintf("Right operand of '%s' should be Bool, got '%v'", e.Operator, e.Got)
	default:
		return fmt.Sprintf("Operand of '%s' should be Bool, got '%v'", e.Operator, e.Got)
	}
}
func (e NewNonBoolOperand) Code() Code         { return TypeIncompatible }
func (e NewNonBoolOperand) Severity() Severity { return SeverityWarning }
func (e NewNonBoolOperand) getStack() []byte   { return e.stack }
func (e NewNonBoolOperand) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// NewNonBoolCondition is reported for if, while, ensure and invariant conditions
type NewNonBoolCondition struct {
	cst.Range
	Got   types.Type
	stack []byte
}

func (e NewNonBoolCondition) Error() string {
	return fmt.Sprintf("Condition should be Bool, got '%v'", e.Got)
}
func (e NewNonBoolCondition) Code() Code         { return TypeIncompatible }
func (e NewNonBoolCondition) Severity() Severity { return SeverityWarning }
func (e NewNonBoolCondition) getStack() []byte   { return e.stack }
func (e NewNonBoolCondition) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewTypeMismatch struct {
	cst.Range
	From, To types.Type
	stack    []byte
}

func (e NewTypeMismatch) Error() string {
	return fmt.Sprintf("Type mismatch: cannot assign '%v' to '%v'", e.From, e.To)
}
func (e NewTypeMismatch) Code() Code         { return TypeIncompatible }
func (e NewTypeMismatch) Severity() Severity { return SeverityWarning }
func (e NewTypeMismatch) getStack() []byte   { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewValReassign struct {
	cst.Range
	Name  string
	stack []byte
}

func (e NewValReassign) Error() string {
	return fmt.Sprintf("Cannot reassign val '%s'", e.Name)
}
func (e NewValReassign) Code() Code         { return TypeIncompatible }
func (e NewValReassign) Severity() Severity { return SeverityWarning }
func (e NewValReassign) getStack() []byte   { return e.stack }
func (e NewValReassign) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewMemberNotFound struct {
	cst.Range
	Property string
	On       types.Type
	stack    []byte
}

func (e NewMemberNotFound) Error() string {
	return fmt.Sprintf("Property '%s' does not exist on type '%v'", e.Property, e.On)
}
func (e NewMemberNotFound) Code() Code         { return MemberNotFound }
func (e NewMemberNotFound) Severity() Severity { return SeverityError }
func (e NewMemberNotFound) getStack() []byte   { return e.stack }
func (e NewMemberNotFound) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewAliasCycle struct {
	cst.Range
	Name string
	// Path is the chain of aliases leading back to Name, for logging
	Path  []string
	stack []byte
}

func (e NewAliasCycle) Error() string {
	return fmt.Sprintf("Type alias '%s' is cyclic", e.Name)
}
func (e NewAliasCycle) Code() Code         { return AliasCycle }
func (e NewAliasCycle) Severity() Severity { return SeverityError }
func (e NewAliasCycle) getStack() []byte   { return e.stack }
func (e NewAliasCycle) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewUnknownType struct {
	cst.Range
	Name  string
	stack []byte
}

func (e NewUnknownType) Error() string {
	return fmt.Sprintf("Unknown type '%s'", e.Name)
}
func (e NewUnknownType) Code() Code         { return UnknownType }
func (e NewUnknownType) Severity() Severity { return SeverityError }
func (e NewUnknownType) getStack() []byte   { return e.stack }
func (e NewUnknownType) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewDuplicateDeclaration struct {
	cst.Range
	Name  string
	stack []byte
}

func (e NewDuplicateDeclaration) Error() string {
	return fmt.Sprintf("Duplicate declaration '%s'", e.Name)
}
func (e NewDuplicateDeclaration) Code() Code         { return DuplicateDeclaration }
func (e NewDuplicateDeclaration) Severity() Severity { return SeverityError }
func (e NewDuplicateDeclaration) getStack() []byte   { return e.stack }
func (e NewDuplicateDeclaration) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// NewMalformed is reported instead of panicking when a node lacks a field
// the checker needs
type NewMalformed struct {
	cst.Range
	Kind  string
	Field string
	stack []byte
}

func (e NewMalformed) Error() string {
	return fmt.Sprintf("malformed %s: missing field '%s'", e.Kind, e.Field)
}
func (e NewMalformed) Code() Code         { return Malformed }
func (e NewMalformed) Severity() Severity { return SeverityError }
func (e NewMalformed) getStack() []byte   { return e.stack }
func (e NewMalformed) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewConfidenceRange struct {
	cst.Range
	Value float64
	stack []byte
}

func (e NewConfidenceRange) Error() string {
	return fmt.Sprintf("Confidence %v is outside [0, 1]", e.Value)
}
func (e NewConfidenceRange) Code() Code         { return ConfidenceRange }
func (e NewConfidenceRange) Severity() Severity { return SeverityError }
func (e NewConfidenceRange) getStack() []byte   { return e.stack }
func (e NewConfidenceRange) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

type NewNonPositiveWeight struct {
	cst.Range
	Weight float64
	stack  []byte
}

func (e NewNonPositiveWeight) Error() string { return "Fuzzy factor weight must be positive" }
func (e NewNonPositiveWeight) Code() Code    { return ConfidenceRange }
func (e NewNonPositiveWeight) Severity() Severity {
	return SeverityWarning
}
func (e NewNonPositiveWeight) getStack() []byte { return e.stack }
func (e NewNonPositiveWeight) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}

// NewUnevaluatedClause marks intent clauses the evaluator skips, such as adapt_clause
type NewUnevaluatedClause struct {
	cst.Range
	Kind  string
	stack []byte
}

func (e NewUnevaluatedClause) Error() string {
	return fmt.Sprintf("Clause '%s' is not evaluated", e.Kind)
}
func (e NewUnevaluatedClause) Code() Code         { return UnevaluatedClause }
func (e NewUnevaluatedClause) Severity() Severity { return SeverityInfo }
func (e NewUnevaluatedClause) getStack() []byte   { return e.stack }
func (e NewUnevaluatedClause) withStack(stack []byte) HunchError {
	e.stack = stack
	return e
}
