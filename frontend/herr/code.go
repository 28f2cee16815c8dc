// Package herr holds the coded errors reported while checking a tree, and
// the Diagnostics they are accumulated into.
package herr

import (
	"fmt"
	"strings"
)

type Code int

const (
	None Code = iota
	UndefinedName
	CallArity
	TypeIncompatible
	MemberNotFound
	InvariantViolation
	ConstraintViolation
	AliasCycle
	UnknownType
	DuplicateDeclaration
	Malformed
	ConfidenceRange
	UnevaluatedClause
)

var codeNames = [...]string{
	None:                 "None",
	UndefinedName:        "UndefinedName",
	CallArity:            "CallArity",
	TypeIncompatible:     "TypeIncompatible",
	MemberNotFound:       "MemberNotFound",
	InvariantViolation:   "InvariantViolation",
	ConstraintViolation:  "ConstraintViolation",
	AliasCycle:           "AliasCycle",
	UnknownType:          "UnknownType",
	DuplicateDeclaration: "DuplicateDeclaration",
	Malformed:            "Malformed",
	ConfidenceRange:      "ConfidenceRange",
	UnevaluatedClause:    "UnevaluatedClause",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	for i, name := range codeNames {
		if name == string(text) {
			*c = Code(i)
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic code %q", text)
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}
