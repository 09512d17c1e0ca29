// Package girbase is the small runtime surface shared by generated
// bindings. Generated files assert their synthesized operations against
// these interfaces so drift between generator and output fails to compile.
package girbase

// Hasher is implemented by types whose library exposes a hash function.
// The result is the library's own hash value, stable within one process
// but not across library versions.
type Hasher interface {
	Hash() uint32
}

// Equaler is implemented by types with a library-defined equality.
type Equaler[T any] interface {
	Equal(other T) bool
}

// Comparer is implemented by types with a library-defined total order.
// Compare returns a negative value, zero or a positive value, normalized
// to -1, 0 or 1 by the generated wrapper.
type Comparer[T any] interface {
	Compare(other T) int
}

// RefCounted is implemented by types managed by library reference
// counting. Ref and Unref wrap the hidden raw bindings.
type RefCounted interface {
	Ref()
	Unref()
}
