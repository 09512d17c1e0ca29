// Package special classifies a type's conventional C operations — equality,
// ordering, hashing, reference counting, destruction, cloning, formatting —
// from naming convention and signature shape, and records the metadata the
// emitter needs to synthesize the matching Go methods.
package special

// Kind is a conventional operation a C function can implement. The set is
// closed; iteration order of the constants is the deterministic order the
// registry reports traits in.
type Kind int

const (
	KindCompare Kind = iota
	KindClone
	KindEqual
	KindDestroy
	KindRefIncrement
	KindRefDecrement
	KindFormat
	KindHash

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindCompare:
		return "compare"
	case KindClone:
		return "clone"
	case KindEqual:
		return "equal"
	case KindDestroy:
		return "destroy"
	case KindRefIncrement:
		return "ref"
	case KindRefDecrement:
		return "unref"
	case KindFormat:
		return "format"
	case KindHash:
		return "hash"
	default:
		return "unknown"
	}
}

// ParseKind maps a function's introspected name to the operation it
// implements by convention. Matching is case-exact; names outside the
// vocabulary report ok=false and are passed over by classification.
//
// KindFormat is deliberately absent: formatting functions are recognized
// by signature shape, not by this table.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "compare":
		return KindCompare, true
	case "copy":
		return KindClone, true
	case "equal", "is_equal":
		return KindEqual, true
	case "free", "destroy":
		return KindDestroy, true
	case "ref", "ref_":
		return KindRefIncrement, true
	case "unref":
		return KindRefDecrement, true
	case "hash":
		return KindHash, true
	default:
		return 0, false
	}
}

// StringifyKind tags formatting functions that need special emission.
type StringifyKind int

const (
	// StaticStringify marks a formatting function whose result is a
	// non-owning, statically valid string reference rather than a fresh
	// allocation the caller must free.
	StaticStringify StringifyKind = iota
)
