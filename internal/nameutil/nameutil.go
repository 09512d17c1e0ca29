// Package nameutil converts introspected C-world names into Go
// identifiers for the emitted bindings.
package nameutil

import (
	"strings"
	"unicode"
)

// goKeywords are identifiers the emitter must never produce bare.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// commonInitialisms get full upper-casing when they form a whole segment,
// matching what a Go author would write by hand.
var commonInitialisms = map[string]string{
	"id": "ID", "uri": "URI", "url": "URL", "utf8": "UTF8",
	"api": "API", "io": "IO", "gtype": "GType",
}

// ToCamel converts snake_case to CamelCase, e.g. "to_str" -> "ToStr".
func ToCamel(s string) string {
	var b strings.Builder
	for _, seg := range strings.Split(s, "_") {
		if seg == "" {
			continue
		}
		if up, ok := commonInitialisms[seg]; ok {
			b.WriteString(up)
			continue
		}
		r := []rune(seg)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// ToSnake converts CamelCase to snake_case, keeping acronym runs together
// (TextIter -> text_iter, HTTPServer -> http_server).
func ToSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					b.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unexported lower-cases the first segment of a Go identifier, appending
// an underscore when the result would collide with a keyword.
func Unexported(s string) string {
	if s == "" {
		return s
	}
	r := []rune(ToCamel(s))
	r[0] = unicode.ToLower(r[0])
	out := string(r)
	if goKeywords[out] {
		out += "_"
	}
	return out
}
