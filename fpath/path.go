// Package fpath canonicalizes absolute paths used to address nodes in a file tree
// and provides the prefix/depth arithmetic the tree is built on.
package fpath

import (
	"errors"
	"fmt"
	"strings"
)

// Separator delimits path components.
const Separator = "/"

// ErrBadPath is returned for path strings that cannot be canonicalized.
var ErrBadPath = errors.New("bad path")

// Path is an immutable canonical absolute path such as "/a/b/c".
// The zero value is the empty path of depth 0.
type Path struct {
	name  string   // rendered form, always with a leading Separator
	parts []string // components, never empty strings
}

// Parse canonicalizes s into a Path. A single leading separator is optional,
// so "a/b" and "/a/b" are the same path. Empty strings, a bare separator,
// trailing separators, empty components and "." or ".." components are rejected.
func Parse(s string) (Path, error) {
	trimmed := strings.TrimPrefix(s, Separator)
	if trimmed == "" {
		return Path{}, fmt.Errorf("%w: %q is empty", ErrBadPath, s)
	}
	if strings.ContainsRune(trimmed, 0) {
		return Path{}, fmt.Errorf("%w: %q contains NUL", ErrBadPath, s)
	}
	parts := strings.Split(trimmed, Separator)
	for _, part := range parts {
		switch part {
		case "":
			return Path{}, fmt.Errorf("%w: %q has an empty component", ErrBadPath, s)
		case ".", "..":
			return Path{}, fmt.Errorf("%w: %q has relative component %q", ErrBadPath, s, part)
		}
	}
	return Path{name: Separator + trimmed, parts: parts}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Depth returns the number of components; the tree root sits at depth 1.
func (p Path) Depth() int {
	return len(p.parts)
}

// IsZero reports whether p is the empty path.
func (p Path) IsZero() bool {
	return len(p.parts) == 0
}

// Prefix returns the path made of the first depth components of p.
func (p Path) Prefix(depth int) (Path, error) {
	if depth < 1 || depth > len(p.parts) {
		return Path{}, fmt.Errorf("%w: no prefix of depth %d in %q", ErrBadPath, depth, p.name)
	}
	if depth == len(p.parts) {
		return p, nil
	}
	parts := p.parts[:depth:depth]
	return Path{name: Separator + strings.Join(parts, Separator), parts: parts}, nil
}

// SharedPrefixDepth returns how many leading components p and other have in common.
func (p Path) SharedPrefixDepth(other Path) int {
	n := min(len(p.parts), len(other.parts))
	for i := range n {
		if p.parts[i] != other.parts[i] {
			return i
		}
	}
	return n
}

// Compare orders paths lexicographically by their rendered form and returns
// <0, 0 or >0. Siblings differ only in their last component, so this is also
// the order of their names.
func (p Path) Compare(other Path) int {
	return strings.Compare(p.name, other.name)
}

// CompareString compares p with an already rendered path string.
func (p Path) CompareString(s string) int {
	return strings.Compare(p.name, s)
}

// Equal reports whether p and other are the same path.
func (p Path) Equal(other Path) bool {
	return p.name == other.name
}

// String renders p in canonical form.
func (p Path) String() string {
	return p.name
}

// Len returns the length of the rendered form.
func (p Path) Len() int {
	return len(p.name)
}

// Base returns the last component, or "" for the empty path.
func (p Path) Base() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[len(p.parts)-1]
}

// Dup returns a copy of p. Paths are immutable so the copy shares storage.
func (p Path) Dup() Path {
	return p
}
