package special

import (
	"sort"

	"github.com/girkit/girgen/internal/version"
)

// TraitInfo records the function chosen to implement an operation kind.
type TraitInfo struct {
	// FuncName is the C identifier of the chosen function.
	FuncName string
	// Version is the library version the operation first exists at;
	// nil means it is valid unconditionally.
	Version *version.Version
}

// FunctionInfo records auxiliary emission metadata for one function,
// keyed by its C identifier.
type FunctionInfo struct {
	Kind    StringifyKind
	Version *version.Version
}

// Registry holds the classification result for one type. It is built by
// Extract, immutable afterwards, and safe to share read-only across the
// downstream consumers.
type Registry struct {
	traits    map[Kind]TraitInfo
	functions map[string]FunctionInfo
}

func newRegistry() *Registry {
	return &Registry{
		traits:    make(map[Kind]TraitInfo),
		functions: make(map[string]FunctionInfo),
	}
}

// Trait returns the entry for an operation kind, if one was classified.
func (r *Registry) Trait(kind Kind) (TraitInfo, bool) {
	ti, ok := r.traits[kind]
	return ti, ok
}

// HasTrait reports whether an operation kind was classified.
func (r *Registry) HasTrait(kind Kind) bool {
	_, ok := r.traits[kind]
	return ok
}

// Kinds returns the classified operation kinds in their fixed enum order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.traits))
	for k := Kind(0); k < kindCount; k++ {
		if _, ok := r.traits[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Function returns the auxiliary entry for a C identifier, if present.
func (r *Registry) Function(cIdentifier string) (FunctionInfo, bool) {
	fi, ok := r.functions[cIdentifier]
	return fi, ok
}

// FunctionNames returns the C identifiers with auxiliary entries, sorted.
func (r *Registry) FunctionNames() []string {
	names := make([]string, 0, len(r.functions))
	for n := range r.functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether classification found nothing for the type.
func (r *Registry) Empty() bool {
	return len(r.traits) == 0 && len(r.functions) == 0
}
