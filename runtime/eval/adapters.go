package eval

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// HumanAdapter answers questions a program escalates to a person
type HumanAdapter interface {
	Ask(question, fallback string) (string, error)
}

// SimilarityAdapter scores how alike two strings are, in [0, 1]
type SimilarityAdapter interface {
	Similarity(a, b string) (float64, error)
}

type RandomSource interface {
	Float64() float64
}

type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Adapters are every effect a program can reach. All calls are synchronous.
type Adapters struct {
	Human      HumanAdapter
	Similarity SimilarityAdapter
	Random     RandomSource
	Files      FileReader
}

// DefaultAdapters are deterministic and never leave the process
func DefaultAdapters() Adapters {
	return Adapters{
		Human:      NoopHuman{},
		Similarity: ExactSimilarity{},
		Random:     FixedRandom(0.5),
		Files:      DenyFiles{},
	}
}

// merge fills the adapters missing from a with those of defaults
func (a Adapters) merge(defaults Adapters) Adapters {
	if a.Human == nil {
		a.Human = defaults.Human
	}
	if a.Similarity == nil {
		a.Similarity = defaults.Similarity
	}
	if a.Random == nil {
		a.Random = defaults.Random
	}
	if a.Files == nil {
		a.Files = defaults.Files
	}
	return a
}

// NoopHuman answers with the fallback given by the program, or Default
type NoopHuman struct {
	Default string
}

func (h NoopHuman) Ask(_, fallback string) (string, error) {
	if fallback != "" {
		return fallback, nil
	}
	return h.Default, nil
}

// ExactSimilarity is 1 for strings equal up to case and surrounding space, 0 otherwise
type ExactSimilarity struct{}

func (ExactSimilarity) Similarity(a, b string) (float64, error) {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1, nil
	}
	return 0, nil
}

type FixedRandom float64

func (r FixedRandom) Float64() float64 { return float64(r) }

var ErrFileAccessDenied = errors.New("file access is disabled")

type DenyFiles struct{}

func (DenyFiles) ReadFile(name string) ([]byte, error) {
	return nil, errors.Wrap(ErrFileAccessDenied, name)
}

// RootedFiles reads files found under one of Roots only.
// Relative names are resolved against Base, or the working directory.
type RootedFiles struct {
	Roots []string
	Base  string
}

func (f RootedFiles) ReadFile(name string) ([]byte, error) {
	path := name
	if f.Base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.Base, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", name)
	}
	for _, root := range f.Roots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		bytes, err := os.ReadFile(abs)
		return bytes, errors.Wrapf(err, "reading %s", name)
	}
	return nil, errors.Wrapf(ErrFileAccessDenied, "%s is outside of the allowed roots", name)
}
