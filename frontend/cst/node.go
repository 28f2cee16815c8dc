// Package cst holds the generic labeled tree handed to hunch by the external
// parser. The core never builds these trees itself outside of tests and
// fixtures: it only reads them.
package cst

import (
	"encoding/binary"
	"hash/fnv"
	"maps"
	"slices"
	"strings"
)

// Node is a single node of the concrete syntax tree.
//
// Named slots live in Fields (`left`, `right`, `name`...) while unnamed
// children keep their source order in Children. Leaves carry their source
// text in Text.
type Node struct {
	Range
	Kind     string
	Text     string
	Fields   map[string]*Node
	Children []*Node
}

// Field returns the child in the named slot, or nil.
// It is safe to call on a nil Node.
func (n *Node) Field(name string) *Node {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[name]
}

// Is reports whether n is non-nil and of one of the given kinds
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(kinds, n.Kind)
}

// Items returns the children of n, or nil when n is nil
func (n *Node) Items() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// ChildrenOf returns the children of n that are of kind
func (n *Node) ChildrenOf(kind string) []*Node {
	if n == nil {
		return nil
	}
	var ret []*Node
	for _, c := range n.Children {
		if c != nil && c.Kind == kind {
			ret = append(ret, c)
		}
	}
	return ret
}

// FieldText returns the Text of the named child, or "" when absent
func (n *Node) FieldText(name string) string {
	if f := n.Field(name); f != nil {
		return f.Text
	}
	return ""
}

// Span returns the range of n, or the zero Range when n is nil
func (n *Node) Span() Range {
	if n == nil {
		return Range{}
	}
	return n.Range
}

// Hash returns a hash value for the Node, based on its structural characteristics
func (n *Node) Hash() uint64 {
	h := fnv.New64a()
	if n == nil {
		return h.Sum64()
	}
	arr := []byte(n.Kind)
	arr = append(arr, n.Text...)
	arr = binary.LittleEndian.AppendUint64(arr, uint64(n.Start.Line))
	arr = binary.LittleEndian.AppendUint64(arr, uint64(n.Start.Column))
	for _, name := range slices.Sorted(maps.Keys(n.Fields)) {
		arr = append(arr, name...)
		arr = binary.LittleEndian.AppendUint64(arr, n.Fields[name].Hash())
	}
	for _, c := range n.Children {
		arr = binary.LittleEndian.AppendUint64(arr, c.Hash())
	}
	_, _ = h.Write(arr)
	return h.Sum64()
}

// String renders n as an s-expression, which is handy in logs and test failures
func (n *Node) String() string {
	sb := &strings.Builder{}
	n.write(sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	if len(n.Fields) == 0 && len(n.Children) == 0 {
		if n.Text != "" {
			sb.WriteString(n.Text)
			return
		}
		sb.WriteString("(" + n.Kind + ")")
		return
	}
	sb.WriteString("(")
	sb.WriteString(n.Kind)
	for _, name := range slices.Sorted(maps.Keys(n.Fields)) {
		sb.WriteString(" " + name + ":")
		n.Fields[name].write(sb)
	}
	for _, c := range n.Children {
		sb.WriteString(" ")
		c.write(sb)
	}
	sb.WriteString(")")
}
