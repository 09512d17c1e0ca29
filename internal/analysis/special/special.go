package special

import (
	"github.com/girkit/girgen/internal/analysis/imports"
	"github.com/girkit/girgen/internal/config"
	"github.com/girkit/girgen/internal/gir"
)

// stringReturnType is the introspection name for C strings.
const stringReturnType = "utf8"

// Formatting-candidate names that can back the synthesized String method.
// Precedence between several candidates on one type is last-in-list-order.
func isFormatCandidate(name string) bool {
	switch name {
	case "to_string", "to_str", "name", "get_name":
		return true
	default:
		return false
	}
}

// isStringify reports whether fn is a formatting-style accessor: a function
// taking only the instance and returning a string. It may rename fn and
// override the return's nullability; the rename happens before any name
// lookup and persists even when the function is rejected afterwards.
func isStringify(fn *gir.Function, typeKind gir.TypeKind, obj *config.Object) bool {
	if len(fn.Parameters) != 1 {
		return false
	}
	if !fn.Parameters[0].Instance {
		return false
	}
	if fn.Return == nil || fn.Return.TypeName != stringReturnType {
		return false
	}

	if fn.Name == "to_string" {
		// Rename so the exported raw binding cannot collide with the
		// String method synthesized for the formatting operation.
		fn.Name = "to_str"

		// To keep old behaviour, assume non-nullability outside enums
		// and flags only, and exclusively for to_string. Functions
		// inside enums and flags are annotated correctly upstream.
		if !obj.TrustReturnValueNullability &&
			typeKind != gir.TypeEnumeration && typeKind != gir.TypeBitfield {
			fn.Return.Nullable = false
		}
	}

	// A nullable result cannot back a total formatting contract.
	return !fn.Return.Nullable
}

func applyVisibility(fn *gir.Function, kind Kind) {
	if fn.Visibility != gir.VisibilitySuppressed {
		fn.Visibility = visibilityFor(kind)
	}
}

// visibilityFor is the fixed policy for classified raw bindings: lifecycle
// operations disappear behind the synthesized wrappers, comparison
// operations stay package-internal, formatting stays callable.
func visibilityFor(kind Kind) gir.Visibility {
	switch kind {
	case KindClone, KindDestroy, KindRefIncrement, KindRefDecrement:
		return gir.VisibilityHidden
	case KindHash, KindCompare, KindEqual:
		return gir.VisibilityPrivate
	default:
		return gir.VisibilityPublic
	}
}

// Extract classifies one type's functions in a single ordered pass,
// mutating visibility (and formatting names) in place and returning the
// registry of chosen operations. Later functions silently overwrite
// earlier ones of the same kind.
//
// A function literally named "destroy" is only a fallback destructor: it
// is deferred during the pass and promoted afterwards, only when a clone
// operation exists and no differently-named destructor claimed the kind.
func Extract(functions []*gir.Function, typeKind gir.TypeKind, obj *config.Object) *Registry {
	reg := newRegistry()

	var hasClone, hasDestroy bool
	deferredDestroy := -1

	for pos, fn := range functions {
		if isStringify(fn, typeKind, obj) {
			transferNone := fn.Return != nil && fn.Return.Transfer == gir.TransferNone

			// Only enumerations and bitfields return static strings,
			// and only generated functions can promise the lifetime.
			staticRef := transferNone &&
				(typeKind == gir.TypeEnumeration || typeKind == gir.TypeBitfield) &&
				fn.Generate

			if staticRef {
				reg.functions[fn.CIdentifier] = FunctionInfo{
					Kind:    StaticStringify,
					Version: fn.Version,
				}
			}

			if isFormatCandidate(fn.Name) {
				reg.traits[KindFormat] = TraitInfo{
					FuncName: fn.CIdentifier,
					Version:  fn.Version,
				}
			}
			continue
		}

		kind, ok := ParseKind(fn.Name)
		if !ok {
			continue
		}

		if fn.Name == "destroy" {
			deferredDestroy = pos
			continue
		}

		applyVisibility(fn, kind)

		switch fn.Name {
		case "copy":
			hasClone = true
		case "free":
			hasDestroy = true
		}

		reg.traits[kind] = TraitInfo{
			FuncName: fn.CIdentifier,
			Version:  fn.Version,
		}
	}

	if hasClone && !hasDestroy && deferredDestroy >= 0 {
		fn := functions[deferredDestroy]
		applyVisibility(fn, KindDestroy)
		reg.traits[KindDestroy] = TraitInfo{
			FuncName: fn.CIdentifier,
			Version:  fn.Version,
		}
	}

	return reg
}

// Unhide re-exposes the raw binding behind an operation kind, for cases
// where the hidden function must also stay directly callable (e.g. copy on
// a refcounted type). No-op when the kind was never classified or only
// suppressed functions remain.
func Unhide(functions []*gir.Function, reg *Registry, kind Kind) {
	ti, ok := reg.Trait(kind)
	if !ok {
		return
	}
	for _, fn := range functions {
		if fn.CIdentifier == ti.FuncName && fn.Visibility != gir.VisibilitySuppressed {
			fn.Visibility = gir.VisibilityPublic
			return
		}
	}
}

// Import paths the synthesized operations depend on.
const (
	orderingImport     = "cmp"
	formattingImport   = "fmt"
	hashingImport      = "github.com/girkit/girgen/pkg/girbase"
	staticStringImport = "unsafe"
)

// AnalyzeImports registers the external declarations the synthesized
// operations require, each gated at the version its source function
// appeared at.
func AnalyzeImports(reg *Registry, imp *imports.Set) {
	for _, kind := range reg.Kinds() {
		ti, _ := reg.Trait(kind)
		switch kind {
		case KindCompare:
			imp.AddWithVersion(orderingImport, ti.Version)
		case KindFormat:
			imp.AddWithVersion(formattingImport, ti.Version)
		case KindHash:
			imp.AddWithVersion(hashingImport, ti.Version)
		}
	}
	for _, name := range reg.FunctionNames() {
		fi, _ := reg.Function(name)
		if fi.Kind == StaticStringify {
			imp.AddWithVersion(staticStringImport, fi.Version)
		}
	}
}
