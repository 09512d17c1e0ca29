// Package version models library versions used to gate generated bindings.
// A version is attached to any API that appeared after the library's first
// release; the generator turns it into a build-constraint feature tag.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a library version as declared in introspection data,
// e.g. "3.24" or "2.68.1".
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a dotted version string with one to three components.
func Parse(s string) (Version, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 4)
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: too many components", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: bad component %q", s, p)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse parses s and panics on failure. For tests and static tables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 comparing v to other.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// After reports whether v is strictly newer than other.
func (v Version) After(other Version) bool {
	return v.Compare(other) > 0
}

// String renders the version without a trailing ".0" patch component.
func (v Version) String() string {
	if v.Patch > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// FeatureTag returns the build-constraint tag which gates code that needs
// this version or newer, e.g. "v3_24".
func (v Version) FeatureTag() string {
	if v.Patch > 0 {
		return fmt.Sprintf("v%d_%d_%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("v%d_%d", v.Major, v.Minor)
}
