package eval

import (
	"fmt"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/pkg/errors"
)

// RuntimeError is implemented by every error the evaluator raises itself.
// Errors from adapters are wrapped in AdapterError.
type RuntimeError interface {
	error
	Code() herr.Code
	cst.Positioner
}

var (
	_ RuntimeError = (*UndefinedError)(nil)
	_ RuntimeError = (*ArityError)(nil)
	_ RuntimeError = (*TypeError)(nil)
	_ RuntimeError = (*MemberError)(nil)
	_ RuntimeError = (*InvariantViolation)(nil)
	_ RuntimeError = (*ConstraintViolation)(nil)
	_ RuntimeError = (*AdapterError)(nil)
	_ RuntimeError = (*WeightError)(nil)
	_ RuntimeError = (*MalformedError)(nil)
)

// ErrCallDepth is returned when calls nest deeper than the evaluator allows
var ErrCallDepth = errors.New("maximum call depth exceeded")

type UndefinedError struct {
	cst.Range
	Name string
}

func (e *UndefinedError) Error() string   { return fmt.Sprintf("undefined name '%s'", e.Name) }
func (e *UndefinedError) Code() herr.Code { return herr.UndefinedName }

type ArityError struct {
	cst.Range
	Function string
	Min, Max int
	Got      int
}

func (e *ArityError) Error() string {
	if e.Got < e.Min {
		return fmt.Sprintf("%s expects at least %d argument(s) but got %d", e.Function, e.Min, e.Got)
	}
	return fmt.Sprintf("%s expects at most %d argument(s) but got %d", e.Function, e.Max, e.Got)
}
func (e *ArityError) Code() herr.Code { return herr.CallArity }

// TypeError is raised when a value does not fit where it is used: operands,
// conditions, annotated bindings and calls of non-functions
type TypeError struct {
	cst.Range
	Message string
}

func (e *TypeError) Error() string   { return e.Message }
func (e *TypeError) Code() herr.Code { return herr.TypeIncompatible }

func typeErrorf(at cst.Range, format string, args ...any) error {
	return errors.WithStack(&TypeError{Range: at, Message: fmt.Sprintf(format, args...)})
}

type MemberError struct {
	cst.Range
	Property string
	On       string
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("property '%s' does not exist on '%s'", e.Property, e.On)
}
func (e *MemberError) Code() herr.Code { return herr.MemberNotFound }

// InvariantViolation is raised when constructing an entity whose invariant
// does not hold
type InvariantViolation struct {
	cst.Range
	Entity string
	Clause string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant '%s' of %s violated", e.Clause, e.Entity)
}
func (e *InvariantViolation) Code() herr.Code { return herr.InvariantViolation }

// ConstraintViolation is raised when an intent cannot produce a value
// satisfying all of its ensure clauses, or a fuzzy predicate cannot be scored
type ConstraintViolation struct {
	cst.Range
	Function string
	Clause   string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s: constraint '%s' violated", e.Function, e.Clause)
}
func (e *ConstraintViolation) Code() herr.Code { return herr.ConstraintViolation }

// WeightError is raised by fuzzy predicates whose factor weights add up to zero
type WeightError struct {
	cst.Range
	Predicate string
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("fuzzy predicate '%s' has zero total weight", e.Predicate)
}
func (e *WeightError) Code() herr.Code { return herr.ConfidenceRange }

// MalformedError is raised for trees missing a field the evaluator needs
type MalformedError struct {
	cst.Range
	Kind  string
	Field string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s: missing field '%s'", e.Kind, e.Field)
}
func (e *MalformedError) Code() herr.Code { return herr.Malformed }

type AdapterError struct {
	cst.Range
	Adapter string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s adapter failed: %v", e.Adapter, e.Err)
}
func (e *AdapterError) Code() herr.Code { return herr.None }
func (e *AdapterError) Unwrap() error   { return e.Err }
