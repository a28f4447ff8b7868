// Package listing filters directory listings before they are shown.
package listing

import (
	"fmt"

	"github.com/gobwas/glob"

	"albumview/internal/paths"
	"albumview/pkg/types"
)

// Filter hides listing entries whose base name matches any of its glob
// patterns. The zero value hides nothing.
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles patterns. Patterns use gobwas/glob syntax with '/' as
// separator, so '*' never crosses a path segment.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid hide pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, p)
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Patterns returns the source patterns.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}

// Hidden reports whether an entry with the given path is hidden.
func (f *Filter) Hidden(path string) bool {
	if f == nil {
		return false
	}
	name := paths.Base(path)
	for _, g := range f.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Apply returns a copy of l without hidden entries. Backend order is kept.
func (f *Filter) Apply(l types.Listing) types.Listing {
	out := l
	out.Dirs = make([]types.Dir, 0, len(l.Dirs))
	for _, d := range l.Dirs {
		if !f.Hidden(d.Path) {
			out.Dirs = append(out.Dirs, d)
		}
	}
	out.Files = make([]types.File, 0, len(l.Files))
	for _, file := range l.Files {
		if !f.Hidden(file.Path) {
			out.Files = append(out.Files, file)
		}
	}
	return out
}
