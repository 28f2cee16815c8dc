package cst

import (
	"strings"
)

// Source renders an expression back to surface syntax, as in `result > 0`.
// It is meant for messages, and falls back to String for nodes it does not know.
func Source(n *Node) string {
	sb := &strings.Builder{}
	writeSource(sb, n)
	return sb.String()
}

func writeSource(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindIdentifier, KindIntLit, KindFloatLit, KindBoolLit, KindNullLit, KindTypeIdent, KindOperator:
		sb.WriteString(n.Text)
	case KindStringLit:
		sb.WriteString(`"` + n.Text + `"`)
	case KindConfidence:
		writeSource(sb, n.Field("value"))
		sb.WriteString(" @ ")
		writeSource(sb, n.Field("confidence"))
	case KindBinary:
		writeSource(sb, n.Field("left"))
		sb.WriteString(" " + n.FieldText("operator") + " ")
		writeSource(sb, n.Field("right"))
	case KindUnary:
		sb.WriteString(n.FieldText("operator"))
		writeSource(sb, n.Field("operand"))
	case KindParen:
		sb.WriteString("(")
		writeSource(sb, n.Field("expression"))
		sb.WriteString(")")
	case KindCall:
		writeSource(sb, n.Field("function"))
		sb.WriteString("(")
		writeList(sb, n.Field("arguments").Items())
		sb.WriteString(")")
	case KindMember:
		writeSource(sb, n.Field("object"))
		sb.WriteString("." + n.FieldText("property"))
	case KindIndex:
		writeSource(sb, n.Field("object"))
		sb.WriteString("[")
		writeSource(sb, n.Field("index"))
		sb.WriteString("]")
	case KindListLit:
		sb.WriteString("[")
		writeList(sb, n.Children)
		sb.WriteString("]")
	case KindTuple:
		sb.WriteString("(")
		writeList(sb, n.Children)
		sb.WriteString(")")
	case KindSetLit, KindMapLit:
		sb.WriteString("{")
		writeList(sb, n.Children)
		sb.WriteString("}")
	case KindPair:
		writeSource(sb, n.Field("key"))
		sb.WriteString(": ")
		writeSource(sb, n.Field("value"))
	default:
		sb.WriteString(n.String())
	}
}

func writeList(sb *strings.Builder, ns []*Node) {
	for i, n := range ns {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeSource(sb, n)
	}
}
