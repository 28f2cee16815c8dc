package cst

import (
	"io"
	"io/fs"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// wireNode is the dump format hosts hand us. JSON dumps are accepted too,
// as YAML is a superset of JSON.
//
//	kind: binary_expression
//	range: [1, 4, 1, 9]
//	fields:
//	  left: {kind: integer_literal, text: "1"}
//	  operator: {kind: operator, text: "+"}
//	  right: {kind: integer_literal, text: "2"}
type wireNode struct {
	Kind     string               `yaml:"kind"`
	Text     string               `yaml:"text,omitempty"`
	Range    []int                `yaml:"range,flow,omitempty"`
	Fields   map[string]*wireNode `yaml:"fields,omitempty"`
	Children []*wireNode          `yaml:"children,omitempty"`
}

// Load decodes a tree dump from r
func Load(r io.Reader) (*Node, error) {
	var w wireNode
	if err := yaml.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(err, "decode tree dump")
	}
	return w.toNode("$")
}

// LoadFS decodes the tree dump stored at name in fsys
func LoadFS(fsys fs.FS, name string) (*Node, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer func() { _ = f.Close() }()
	n, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	return n, nil
}

// Dump encodes n in the format Load reads
func Dump(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromNode(n)); err != nil {
		return errors.Wrap(err, "encode tree dump")
	}
	return enc.Close()
}

func (w *wireNode) toNode(path string) (*Node, error) {
	if w == nil {
		return nil, nil
	}
	if w.Kind == "" {
		return nil, errors.Errorf("node at %s has no kind", path)
	}
	n := &Node{Kind: w.Kind, Text: w.Text}
	switch len(w.Range) {
	case 0:
	case 4:
		n.Range = Range{
			Start: Position{Line: w.Range[0], Column: w.Range[1]},
			Stop:  Position{Line: w.Range[2], Column: w.Range[3]},
		}
	default:
		return nil, errors.Errorf("node at %s: range must have 4 elements, got %d", path, len(w.Range))
	}
	if len(w.Fields) > 0 {
		n.Fields = make(map[string]*Node, len(w.Fields))
		for name, child := range w.Fields {
			c, err := child.toNode(path + "." + name)
			if err != nil {
				return nil, err
			}
			n.Fields[name] = c
		}
	}
	for i, child := range w.Children {
		at := path + "[" + strconv.Itoa(i) + "]"
		if child == nil {
			return nil, errors.Errorf("node at %s is null", at)
		}
		c, err := child.toNode(at)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func fromNode(n *Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{Kind: n.Kind, Text: n.Text}
	if n.Start.IsValid() {
		w.Range = []int{n.Start.Line, n.Start.Column, n.Stop.Line, n.Stop.Column}
	}
	if len(n.Fields) > 0 {
		w.Fields = make(map[string]*wireNode, len(n.Fields))
		for name, f := range n.Fields {
			w.Fields[name] = fromNode(f)
		}
	}
	for _, c := range n.Children {
		w.Children = append(w.Children, fromNode(c))
	}
	return w
}
