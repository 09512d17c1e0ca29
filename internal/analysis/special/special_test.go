package special

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girkit/girgen/internal/analysis/imports"
	"github.com/girkit/girgen/internal/config"
	"github.com/girkit/girgen/internal/gir"
	"github.com/girkit/girgen/internal/version"
)

func opFunc(name, cIdentifier string) *gir.Function {
	return &gir.Function{
		Name:        name,
		CIdentifier: cIdentifier,
		Parameters:  []gir.Parameter{{Name: "self", Instance: true}},
		Generate:    true,
	}
}

func stringifyFunc(name, cIdentifier string, nullable bool, transfer gir.Transfer) *gir.Function {
	fn := opFunc(name, cIdentifier)
	fn.Return = &gir.ReturnValue{
		TypeName: "utf8",
		Nullable: nullable,
		Transfer: transfer,
	}
	return fn
}

func defaultObject() *config.Object {
	return &config.Object{GenerateDisplay: true}
}

func TestExtractFallbackDestroy(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("copy", "foo_copy"),
		opFunc("destroy", "foo_destroy"),
	}

	reg := Extract(funcs, gir.TypeOther, defaultObject())

	clone, ok := reg.Trait(KindClone)
	require.True(t, ok, "clone should be classified")
	assert.Equal(t, "foo_copy", clone.FuncName)

	destroy, ok := reg.Trait(KindDestroy)
	require.True(t, ok, "destroy fallback should be classified")
	assert.Equal(t, "foo_destroy", destroy.FuncName)

	assert.Equal(t, gir.VisibilityHidden, funcs[0].Visibility)
	assert.Equal(t, gir.VisibilityHidden, funcs[1].Visibility)
}

func TestExtractNoFallbackWhenDirectDestroyExists(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("free", "foo_free"),
		opFunc("destroy", "foo_destroy"),
	}

	reg := Extract(funcs, gir.TypeOther, defaultObject())

	destroy, ok := reg.Trait(KindDestroy)
	require.True(t, ok)
	assert.Equal(t, "foo_free", destroy.FuncName)

	// "destroy" stays unclassified and untouched.
	assert.Equal(t, gir.VisibilityHidden, funcs[0].Visibility)
	assert.Equal(t, gir.VisibilityPublic, funcs[1].Visibility)
}

func TestExtractNoFallbackWithoutClone(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("destroy", "foo_destroy"),
	}

	reg := Extract(funcs, gir.TypeOther, defaultObject())

	assert.False(t, reg.HasTrait(KindDestroy))
	assert.Equal(t, gir.VisibilityPublic, funcs[0].Visibility)
}

func TestStringifyEnumTrustsNullability(t *testing.T) {
	fn := stringifyFunc("to_string", "foo_to_string", true, gir.TransferNone)
	funcs := []*gir.Function{fn}

	obj := defaultObject()
	obj.TrustReturnValueNullability = true

	reg := Extract(funcs, gir.TypeEnumeration, obj)

	// The rename applies even though the function ends up rejected.
	assert.Equal(t, "to_str", fn.Name)
	assert.True(t, fn.Return.Nullable, "trusted nullability must not be overridden")
	assert.False(t, reg.HasTrait(KindFormat))
	_, ok := reg.Function("foo_to_string")
	assert.False(t, ok)
}

func TestStringifyNullabilityOverrideOutsideEnums(t *testing.T) {
	fn := stringifyFunc("to_string", "foo_to_string", true, gir.TransferFull)
	funcs := []*gir.Function{fn}

	reg := Extract(funcs, gir.TypeOther, defaultObject())

	assert.Equal(t, "to_str", fn.Name)
	assert.False(t, fn.Return.Nullable, "nullability should be forced off")

	format, ok := reg.Trait(KindFormat)
	require.True(t, ok)
	assert.Equal(t, "foo_to_string", format.FuncName)

	// Full transfer means an owned allocation, never a static reference.
	_, ok = reg.Function("foo_to_string")
	assert.False(t, ok)
}

func TestStringifyStaticReference(t *testing.T) {
	v := version.MustParse("2.30")
	fn := stringifyFunc("to_string", "foo_bar_to_string", false, gir.TransferNone)
	fn.Version = &v

	reg := Extract([]*gir.Function{fn}, gir.TypeBitfield, defaultObject())

	fi, ok := reg.Function("foo_bar_to_string")
	require.True(t, ok, "static stringify entry expected")
	assert.Equal(t, StaticStringify, fi.Kind)
	require.NotNil(t, fi.Version)
	assert.Equal(t, v, *fi.Version)

	format, ok := reg.Trait(KindFormat)
	require.True(t, ok)
	assert.Equal(t, "foo_bar_to_string", format.FuncName)
}

func TestStringifyStaticReferenceNeedsGenerate(t *testing.T) {
	fn := stringifyFunc("to_string", "foo_to_string", false, gir.TransferNone)
	fn.Generate = false

	reg := Extract([]*gir.Function{fn}, gir.TypeEnumeration, defaultObject())

	_, ok := reg.Function("foo_to_string")
	assert.False(t, ok, "non-generated functions cannot promise a static lifetime")
	// It still qualifies as the formatting source.
	assert.True(t, reg.HasTrait(KindFormat))
}

func TestStringifyRejectsWrongShape(t *testing.T) {
	twoParams := stringifyFunc("to_string", "foo_to_string", false, gir.TransferNone)
	twoParams.Parameters = append(twoParams.Parameters, gir.Parameter{Name: "flags"})

	noInstance := stringifyFunc("to_string", "foo_to_string2", false, gir.TransferNone)
	noInstance.Parameters[0].Instance = false

	noReturn := opFunc("to_string", "foo_to_string3")

	intReturn := stringifyFunc("to_string", "foo_to_string4", false, gir.TransferNone)
	intReturn.Return.TypeName = "gint"

	reg := Extract([]*gir.Function{twoParams, noInstance, noReturn, intReturn},
		gir.TypeOther, defaultObject())

	assert.True(t, reg.Empty())
	// Shape rejection happens before the rename rule is reached.
	assert.Equal(t, "to_string", twoParams.Name)
	assert.Equal(t, "to_string", noInstance.Name)
	assert.Equal(t, "to_string", noReturn.Name)
	assert.Equal(t, "to_string", intReturn.Name)
}

func TestExtractFormatCandidateName(t *testing.T) {
	fn := stringifyFunc("name", "foo_widget_name", false, gir.TransferNone)

	reg := Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())

	format, ok := reg.Trait(KindFormat)
	require.True(t, ok)
	assert.Equal(t, "foo_widget_name", format.FuncName)
	assert.Equal(t, gir.VisibilityPublic, fn.Visibility)
}

func TestExtractNonCandidateStringifyIgnored(t *testing.T) {
	fn := stringifyFunc("describe", "foo_describe", false, gir.TransferNone)

	reg := Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())

	assert.False(t, reg.HasTrait(KindFormat))
}

func TestExtractLastWriteWins(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("equal", "foo_equal"),
		opFunc("is_equal", "foo_is_equal"),
	}

	reg := Extract(funcs, gir.TypeOther, defaultObject())

	equal, ok := reg.Trait(KindEqual)
	require.True(t, ok)
	assert.Equal(t, "foo_is_equal", equal.FuncName)
}

func TestExtractVisibilityTable(t *testing.T) {
	tests := []struct {
		name     string
		expected gir.Visibility
	}{
		{"copy", gir.VisibilityHidden},
		{"free", gir.VisibilityHidden},
		{"ref", gir.VisibilityHidden},
		{"unref", gir.VisibilityHidden},
		{"hash", gir.VisibilityPrivate},
		{"compare", gir.VisibilityPrivate},
		{"equal", gir.VisibilityPrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := opFunc(tt.name, "foo_"+tt.name)
			Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())
			if fn.Visibility != tt.expected {
				t.Errorf("visibility = %v, want %v", fn.Visibility, tt.expected)
			}
		})
	}
}

func TestExtractSuppressedUntouched(t *testing.T) {
	fn := opFunc("copy", "foo_copy")
	fn.Visibility = gir.VisibilitySuppressed

	reg := Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())

	// The trait is still recorded, but the function keeps its state.
	assert.True(t, reg.HasTrait(KindClone))
	assert.Equal(t, gir.VisibilitySuppressed, fn.Visibility)
}

func TestExtractVersionPropagation(t *testing.T) {
	v := version.MustParse("3.12")
	fn := opFunc("hash", "foo_hash")
	fn.Version = &v

	reg := Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())

	hash, ok := reg.Trait(KindHash)
	require.True(t, ok)
	require.NotNil(t, hash.Version)
	assert.Equal(t, v, *hash.Version)
}

func TestUnhide(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("copy", "foo_copy"),
		opFunc("ref", "foo_ref"),
	}
	reg := Extract(funcs, gir.TypeOther, defaultObject())
	require.Equal(t, gir.VisibilityHidden, funcs[0].Visibility)

	Unhide(funcs, reg, KindClone)
	assert.Equal(t, gir.VisibilityPublic, funcs[0].Visibility)
	assert.Equal(t, gir.VisibilityHidden, funcs[1].Visibility)

	// Unclassified kind is a no-op.
	Unhide(funcs, reg, KindHash)
	assert.Equal(t, gir.VisibilityPublic, funcs[0].Visibility)
}

func TestUnhideSkipsSuppressed(t *testing.T) {
	fn := opFunc("copy", "foo_copy")
	fn.Visibility = gir.VisibilitySuppressed

	reg := Extract([]*gir.Function{fn}, gir.TypeOther, defaultObject())
	Unhide([]*gir.Function{fn}, reg, KindClone)

	assert.Equal(t, gir.VisibilitySuppressed, fn.Visibility)
}

func TestAnalyzeImports(t *testing.T) {
	v := version.MustParse("2.40")

	compare := opFunc("compare", "foo_compare")
	compare.Version = &v
	hash := opFunc("hash", "foo_hash")
	static := stringifyFunc("to_string", "foo_to_string", false, gir.TransferNone)
	static.Version = &v

	reg := Extract([]*gir.Function{compare, hash, static}, gir.TypeEnumeration, defaultObject())

	imp := imports.NewSet()
	AnalyzeImports(reg, imp)

	gate, ok := imp.Version("cmp")
	require.True(t, ok, "ordering support expected")
	require.NotNil(t, gate)
	assert.Equal(t, v, *gate)

	gate, ok = imp.Version("github.com/girkit/girgen/pkg/girbase")
	require.True(t, ok, "hashing support expected")
	assert.Nil(t, gate, "unversioned hash must not be gated")

	gate, ok = imp.Version("fmt")
	require.True(t, ok, "formatting support expected")

	gate, ok = imp.Version("unsafe")
	require.True(t, ok, "static string support expected")
	require.NotNil(t, gate)
	assert.Equal(t, v, *gate)
}

func TestAnalyzeImportsLifecycleKindsAddNothing(t *testing.T) {
	funcs := []*gir.Function{
		opFunc("copy", "foo_copy"),
		opFunc("free", "foo_free"),
		opFunc("ref", "foo_ref"),
		opFunc("unref", "foo_unref"),
		opFunc("equal", "foo_equal"),
	}
	reg := Extract(funcs, gir.TypeOther, defaultObject())

	imp := imports.NewSet()
	AnalyzeImports(reg, imp)

	assert.Zero(t, imp.Len())
}
