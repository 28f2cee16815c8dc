package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cottand/hunch/frontend/herr"
	"github.com/cottand/hunch/hunch"
	"github.com/cottand/hunch/internal/config"
	"github.com/cottand/hunch/internal/log"
)

// LogLevel is set by the root command's --log-level flag, and takes
// precedence over hunch.yaml
var LogLevel string

// DebugErrors is set by the root command's --debug-errors flag
var DebugErrors bool

// target is the program a subcommand works on
type target struct {
	// root is the directory holding the program and its hunch.yaml
	root string
	fsys fs.FS
	// name is the program's path within fsys
	name   string
	config *config.Config
}

func resolveTarget(arg string) (*target, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path of target: %w", err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat target: %w", err)
	}

	t := &target{root: path, name: "."}
	if !stat.IsDir() {
		t.root, t.name = filepath.Dir(path), filepath.Base(path)
	}
	t.fsys = os.DirFS(t.root)

	t.config, err = config.Load(t.fsys)
	if err != nil {
		return nil, err
	}
	if err := applyLogging(t.config); err != nil {
		return nil, err
	}
	return t, nil
}

func applyLogging(cfg *config.Config) error {
	if err := cfg.Apply(); err != nil {
		return err
	}
	herr.SetDebug(DebugErrors)
	if LogLevel == "" {
		return nil
	}
	l, err := log.ParseLevel(LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	log.SetLevel(l)
	return nil
}

func (t *target) load() (*hunch.Unit, error) {
	u, err := hunch.LoadUnit(t.fsys, t.name)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", t.name, err)
	}
	return u, nil
}

// path returns p relative to the target's root, unless it is absolute
func (t *target) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(t.root, p)
}
