package cst

// Node kinds produced by the external parser and understood by the core.
const (
	KindSourceFile = "source_file"

	KindFunctionDecl = "function_declaration"
	KindIntentDecl   = "intent_declaration"
	KindFuzzyDecl    = "fuzzy_declaration"
	KindEntityDecl   = "entity_declaration"
	KindSealedDecl   = "sealed_declaration"
	KindTypeAlias    = "type_alias"
	KindValDecl      = "val_declaration"
	KindVarDecl      = "var_declaration"

	KindParameterList = "parameter_list"
	KindParameter     = "parameter"
	KindFieldDecl     = "field_declaration"
	KindInvariant     = "invariant_clause"
	KindIntentBody    = "intent_body"
	KindEnsure        = "ensure_clause"
	KindFallback      = "fallback_clause"
	KindFuzzyBody     = "fuzzy_body"
	KindFuzzyFactor   = "fuzzy_factor"

	KindBlock         = "block"
	KindAssignment    = "assignment"
	KindReturn        = "return_statement"
	KindExprStatement = "expression_statement"
	KindWhile         = "while_statement"
	KindFor           = "for_statement"

	KindIdentifier   = "identifier"
	KindIntLit       = "integer_literal"
	KindFloatLit     = "float_literal"
	KindStringLit    = "string_literal"
	KindBoolLit      = "boolean_literal"
	KindNullLit      = "null_literal"
	KindConfidence   = "confidence_expression"
	KindBinary       = "binary_expression"
	KindUnary        = "unary_expression"
	KindOperator     = "operator"
	KindCall         = "call_expression"
	KindArgumentList = "argument_list"
	KindMember       = "member_expression"
	KindIndex        = "index_expression"
	KindParen        = "parenthesized_expression"
	KindIf           = "if_expression"
	KindLambda       = "lambda_expression"
	KindListLit      = "list_literal"
	KindMapLit       = "map_literal"
	KindPair         = "pair"
	KindSetLit       = "set_literal"
	KindTuple        = "tuple_expression"

	KindTypeIdent        = "type_identifier"
	KindNullableType     = "nullable_type"
	KindGenericType      = "generic_type"
	KindTypeArguments    = "type_arguments"
	KindFunctionType     = "function_type"
	KindTupleType        = "tuple_type"
	KindUnionType        = "union_type"
	KindIntersectionType = "intersection_type"
)

// IsDeclaration reports whether kind introduces a top-level name
func IsDeclaration(kind string) bool {
	switch kind {
	case KindFunctionDecl, KindIntentDecl, KindFuzzyDecl, KindEntityDecl,
		KindSealedDecl, KindTypeAlias, KindValDecl, KindVarDecl:
		return true
	default:
		return false
	}
}
