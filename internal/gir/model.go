// Package gir models a GObject-Introspection repository: the namespaces,
// types and C functions described by a .gir manifest. The parser produces
// the descriptor lists the analysis passes classify and mutate.
package gir

import (
	"github.com/girkit/girgen/internal/version"
)

// Visibility controls how a raw binding surfaces in the generated code.
type Visibility int

const (
	// VisibilityPublic exports the raw binding as-is.
	VisibilityPublic Visibility = iota
	// VisibilityPrivate keeps the binding package-internal.
	VisibilityPrivate
	// VisibilityHidden removes the binding from the surface entirely;
	// a synthesized wrapper method becomes the only way to reach it.
	VisibilityHidden
	// VisibilitySuppressed marks a binding excluded upstream. Analysis
	// passes never reclassify or re-visibility a suppressed function.
	VisibilitySuppressed
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	case VisibilityHidden:
		return "hidden"
	case VisibilitySuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Transfer is the ownership-transfer mode of a returned value.
type Transfer int

const (
	// TransferNone leaves ownership with the callee.
	TransferNone Transfer = iota
	// TransferFull passes ownership to the caller.
	TransferFull
	// TransferContainer passes ownership of the container only.
	TransferContainer
)

// TypeKind is the coarse classification the analysis passes care about.
// Everything that is not an enumeration or bitfield collapses to Other.
type TypeKind int

const (
	TypeOther TypeKind = iota
	TypeEnumeration
	TypeBitfield
)

// Parameter is one C parameter of a function.
type Parameter struct {
	Name     string
	TypeName string
	// Instance flags the implicit "self" argument of an object-style
	// C function.
	Instance bool
}

// ReturnValue describes a function's return, when it has one.
type ReturnValue struct {
	TypeName string
	Nullable bool
	Transfer Transfer
}

// Function is one exported C function attached to a type.
//
// Name is the introspected display name ("equal", "to_string") and may be
// rewritten by analysis; CIdentifier is the stable C symbol
// ("gtk_text_iter_equal") and is the key under which analysis results are
// recorded.
type Function struct {
	Name        string
	CIdentifier string
	Parameters  []Parameter
	Return      *ReturnValue
	Visibility  Visibility
	Version     *version.Version
	// Generate reports whether this function produces any emitted code.
	Generate bool
}

// TypeInfo is one introspected type and its functions, in manifest order.
type TypeInfo struct {
	Name      string
	CType     string
	Kind      TypeKind
	Version   *version.Version
	Functions []*Function
}

// Namespace is the single namespace of a .gir repository.
type Namespace struct {
	Name          string
	Version       string
	SharedLibrary string
	CPrefix       string
	Types         []*TypeInfo
}

// Repository is a parsed .gir manifest.
type Repository struct {
	Namespace Namespace
}
