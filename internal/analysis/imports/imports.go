// Package imports accumulates the import paths a generated file needs,
// together with the library version gating each one.
package imports

import (
	"sort"

	"github.com/girkit/girgen/internal/version"
)

// Set is an ordered collection of required imports. Each entry carries the
// weakest version gate under which it was requested: an entry requested
// both gated and ungated ends up ungated.
type Set struct {
	entries map[string]*version.Version
}

// NewSet returns an empty import set.
func NewSet() *Set {
	return &Set{entries: make(map[string]*version.Version)}
}

// Add registers an unconditional import.
func (s *Set) Add(path string) {
	s.AddWithVersion(path, nil)
}

// AddWithVersion registers an import gated at v; a nil v means the import
// is needed unconditionally. Re-adding with a lower (or no) gate widens
// the existing entry.
func (s *Set) AddWithVersion(path string, v *version.Version) {
	existing, ok := s.entries[path]
	if !ok {
		s.entries[path] = v
		return
	}
	if existing == nil {
		return
	}
	if v == nil || v.Compare(*existing) < 0 {
		s.entries[path] = v
	}
}

// Version returns the gate recorded for path and whether path is present.
func (s *Set) Version(path string) (*version.Version, bool) {
	v, ok := s.entries[path]
	return v, ok
}

// Len returns the number of distinct imports.
func (s *Set) Len() int {
	return len(s.entries)
}

// Paths returns the import paths in sorted order.
func (s *Set) Paths() []string {
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
