package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Ident selects types by exact name or by anchored regular expression.
// Object blocks in girgen.toml set one of `name` or `pattern`.
type Ident struct {
	name    string
	pattern *regexp.Regexp
}

// NewNameIdent builds an exact-name matcher. Names must not contain
// regexp metacharacters; those belong in a pattern.
func NewNameIdent(name string) (Ident, error) {
	if strings.ContainsAny(name, "*+?[(|") {
		return Ident{}, fmt.Errorf("%q looks like a pattern, use `pattern` instead of `name`", name)
	}
	return Ident{name: name}, nil
}

// NewPatternIdent builds a regexp matcher. The pattern is anchored so it
// must match the whole type name.
func NewPatternIdent(pattern string) (Ident, error) {
	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return Ident{}, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return Ident{pattern: re}, nil
}

// Match reports whether the ident selects the given type name.
func (i Ident) Match(name string) bool {
	if i.pattern != nil {
		return i.pattern.MatchString(name)
	}
	return i.name == name
}

// Exact reports whether the ident is an exact-name matcher.
func (i Ident) Exact() bool {
	return i.pattern == nil
}

func (i Ident) String() string {
	if i.pattern != nil {
		return i.pattern.String()
	}
	return i.name
}
