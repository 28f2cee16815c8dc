package herr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(line, col, endLine, endCol int) cst.Range {
	return cst.Range{Start: cst.Position{Line: line, Column: col}, Stop: cst.Position{Line: endLine, Column: endCol}}
}

func TestArityMessages(t *testing.T) {
	tooFew := NewCallArity{Function: "greet", Min: 2, Max: 3, Got: 1}
	assert.Equal(t, "greet expects at least 2 argument(s) but got 1", tooFew.Error())
	assert.Equal(t, SeverityError, tooFew.Severity())

	tooMany := NewCallArity{Function: "greet", Min: 2, Max: 3, Got: 4}
	assert.Equal(t, "greet expects at most 3 argument(s) but got 4", tooMany.Error())
	assert.Equal(t, SeverityWarning, tooMany.Severity())
}

func TestMessages(t *testing.T) {
	tests := map[string]HunchError{
		"Undefined variable 'x'":                               NewUndefinedName{Name: "x"},
		"Undefined function 'f'":                               NewUndefinedName{Name: "f", InCall: true},
		"Operator '+' has incompatible types 'Bool' and 'Int'": NewIncompatibleOperands{Operator: "+", Left: types.Bool, Right: types.Int},
		"Left operand of '&&' should be Bool, got 'Int'":       NewNonBoolOperand{Operator: "&&", Side: SideLeft, Got: types.Int},
		"Right operand of '||' should be Bool, got 'String'":   NewNonBoolOperand{Operator: "||", Side: SideRight, Got: types.String},
		"Property 'z' does not exist on type 'Point'":          NewMemberNotFound{Property: "z", On: types.NewEntity("Point", "")},
		"Type alias 'A' is cyclic":                             NewAliasCycle{Name: "A", Path: []string{"A", "B", "A"}},
		"malformed call_expression: missing field 'function'":  NewMalformed{Kind: "call_expression", Field: "function"},
		"Confidence 1.5 is outside [0, 1]":                     NewConfidenceRange{Value: 1.5},
		"Cannot reassign val 'v'":                              NewValReassign{Name: "v"},
	}
	for expected, err := range tests {
		t.Run(expected, func(t *testing.T) {
			assert.Equal(t, expected, err.Error())
		})
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	var diags *Diagnostics
	assert.False(t, diags.HasError())
	assert.Zero(t, diags.Len())

	diags = diags.With(New(NewNonBoolCondition{Got: types.Int}))
	assert.False(t, diags.HasError(), "warnings never block")

	other := (&Diagnostics{}).With(New(NewUndefinedName{Name: "y", Range: span(3, 4, 3, 5)}))
	diags = diags.Merge(other).Merge(nil)

	require.Equal(t, 2, diags.Len())
	assert.True(t, diags.HasError())
	assert.Len(t, diags.Errors(), 1)
	assert.Len(t, diags.Warnings(), 1)
	assert.Empty(t, diags.Infos())
	assert.Contains(t, FormatWithCode(diags.Errors()[0]), "(H001) Undefined variable 'y'")
}

func TestFormatWithCodeDebug(t *testing.T) {
	err := New(NewUndefinedName{Name: "y"})
	assert.Equal(t, "(H001) Undefined variable 'y'", FormatWithCode(err))

	SetDebug(true)
	t.Cleanup(func() { SetDebug(false) })
	formatted := FormatWithCode(err)
	assert.NotEqual(t, "(H001) Undefined variable 'y'", formatted)
	assert.True(t, strings.HasSuffix(formatted, ":(H001) Undefined variable 'y'"), formatted)
}

func TestDiagnosticJSON(t *testing.T) {
	diags := (&Diagnostics{}).With(NewUnevaluatedClause{Kind: "adapt_clause", Range: span(2, 1, 2, 9)})

	bytes, err := json.Marshal(diags.Diagnostics())
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"severity": "info",
		"message": "Clause 'adapt_clause' is not evaluated",
		"line": 2, "column": 1, "endLine": 2, "endColumn": 9,
		"code": "UnevaluatedClause"
	}]`, string(bytes))

	var back []Diagnostic
	require.NoError(t, json.Unmarshal(bytes, &back))
	assert.Equal(t, diags.Diagnostics(), back)
}
