// Package hunch ties the pipeline together for hosts: a Unit is one program
// tree, which can be checked and then evaluated.
package hunch

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/cottand/hunch/frontend/check"
	"github.com/cottand/hunch/frontend/cst"
	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/internal/log"
	"github.com/cottand/hunch/runtime/eval"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var unitLogger = log.DefaultLogger.With("section", "unit")

// Extensions are the file extensions LoadUnit considers tree dumps
var Extensions = []string{".yaml", ".yml", ".json"}

// Unit is a single program, loaded from one tree dump
type Unit struct {
	name string
	id   uuid.UUID
	tree *cst.Node

	checked *check.Result
}

// NewUnit wraps an already built tree
func NewUnit(name string, tree *cst.Node) *Unit {
	return &Unit{name: name, id: uuid.New(), tree: tree}
}

// LoadUnit reads the tree dump at name in fsys. When name is a directory,
// the first dump inside it is used.
func LoadUnit(fsys fs.FS, name string) (*Unit, error) {
	if name == "" {
		name = "."
	}
	stat, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, errors.Wrap(err, "load unit")
	}
	file := name
	if stat.IsDir() {
		if file, err = findDump(fsys, name); err != nil {
			return nil, err
		}
	}
	tree, err := cst.LoadFS(fsys, file)
	if err != nil {
		return nil, err
	}
	u := NewUnit(strings.TrimSuffix(path.Base(file), path.Ext(file)), tree)
	unitLogger.Debug("loaded unit", "file", file, "id", u.id)
	return u, nil
}

func findDump(fsys fs.FS, dir string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", errors.Wrap(err, "load unit")
	}
	var dumps []string
	for _, entry := range entries {
		if !entry.IsDir() && slices.Contains(Extensions, path.Ext(entry.Name())) {
			dumps = append(dumps, path.Join(dir, entry.Name()))
		}
	}
	if len(dumps) == 0 {
		return "", errors.Errorf("no tree dump found in %s", dir)
	}
	if len(dumps) > 1 {
		unitLogger.Warn("multiple tree dumps found, but units are single-file - using the first one", "dir", dir, "using", dumps[0])
	}
	return dumps[0], nil
}

// NewUnitFromBytes loads a unit from an in-memory dump, meant for testing
func NewUnitFromBytes(data []byte) (*Unit, error) {
	tree, err := cst.Load(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return NewUnit("test", tree), nil
}

func (u *Unit) Name() string { return u.name }

// ID identifies this unit in logs and reports
func (u *Unit) ID() uuid.UUID { return u.id }

func (u *Unit) Tree() *cst.Node { return u.tree }

// Check runs the checker once. Later calls return the first result,
// regardless of opts.
func (u *Unit) Check(opts ...check.Option) *check.Result {
	if u.checked == nil {
		logger := log.DefaultLogger.With("section", "check", "unit", u.id.String())
		u.checked = check.New(append([]check.Option{check.WithLogger(logger)}, opts...)...).Check(u.tree)
		unitLogger.Debug("checked unit", "unit", u.name, "diagnostics", u.checked.Diagnostics.Len())
	}
	return u.checked
}

func (u *Unit) Diagnostics() *herr.Diagnostics {
	return u.Check().Diagnostics
}

// DisplayTypes lists the declared type of every top-level symbol, one per line
func (u *Unit) DisplayTypes() string {
	sb := strings.Builder{}
	for _, sym := range u.Check().Symbols.All() {
		if sym.Kind == check.BuiltinSymbol {
			continue
		}
		_, _ = fmt.Fprintf(&sb, "%s %s: %v\n", sym.Kind, sym.Name, sym.Type)
	}
	return sb.String()
}

// BlockedError is returned by Run when checking found errors
type BlockedError struct {
	Diagnostics *herr.Diagnostics
}

func (e *BlockedError) Error() string {
	errs := e.Diagnostics.Errors()
	if len(errs) == 0 {
		return "unit has errors"
	}
	return fmt.Sprintf("unit has %d error(s), first: %s", len(errs), herr.ToDiagnostic(errs[0]))
}

// Run checks the unit and, if no diagnostic is an error, evaluates it.
// Warnings never block.
func (u *Unit) Run(opts ...eval.Option) (eval.Value, error) {
	if diags := u.Diagnostics(); diags.HasError() {
		return nil, errors.WithStack(&BlockedError{Diagnostics: diags})
	}
	logger := log.DefaultLogger.With("section", "eval", "unit", u.id.String())
	e := eval.New(append([]eval.Option{eval.WithLogger(logger)}, opts...)...)
	if err := e.Load(u.tree); err != nil {
		return nil, errors.Wrapf(err, "loading %s", u.name)
	}
	return e.Run()
}
