// Package codegen renders the Go wrapper sources for an introspected
// namespace. It consumes the classification registry for each type and
// synthesizes the matching high-level operations, gating each piece behind
// the library version it first appeared at.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/girkit/girgen/internal/analysis/imports"
	"github.com/girkit/girgen/internal/analysis/special"
	"github.com/girkit/girgen/internal/config"
	"github.com/girkit/girgen/internal/gir"
	"github.com/girkit/girgen/internal/nameutil"
	"github.com/girkit/girgen/internal/version"
)

const generatedHeader = "// Code generated by girgen. DO NOT EDIT.\n"

const girbaseImport = "github.com/girkit/girgen/pkg/girbase"

// Generator renders one namespace.
type Generator struct {
	cfg *config.Config
	ns  *gir.Namespace
	log *zap.Logger
}

// New creates a generator for a parsed namespace.
func New(cfg *config.Config, ns *gir.Namespace, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{cfg: cfg, ns: ns, log: log}
}

// file is one output file being assembled: a body plus the imports it
// needs, keyed by the feature tag gating it ("" for the base file).
type file struct {
	feature string
	imports *imports.Set
	body    bytes.Buffer
	cgo     bool
}

// receiver captures how methods on a type address the underlying C value.
type receiver struct {
	name     string // receiver identifier
	decl     string // full receiver clause
	typeExpr string // *TextIter or Align
	self     string // expression passing the receiver to C
	deref    bool   // pointer wrapper with a native() accessor
	cType    string
}

func newReceiver(t *gir.TypeInfo) receiver {
	goName := nameutil.ToCamel(nameutil.ToSnake(t.Name))
	if t.Kind == gir.TypeEnumeration || t.Kind == gir.TypeBitfield {
		return receiver{
			name:     "v",
			decl:     fmt.Sprintf("(v %s)", goName),
			typeExpr: goName,
			self:     fmt.Sprintf("C.%s(v)", t.CType),
			cType:    t.CType,
		}
	}
	r := strings.ToLower(goName[:1])
	return receiver{
		name:     r,
		decl:     fmt.Sprintf("(%s *%s)", r, goName),
		typeExpr: "*" + goName,
		self:     r + ".native()",
		deref:    true,
		cType:    t.CType,
	}
}

func (r receiver) goName() string {
	return strings.TrimPrefix(r.typeExpr, "*")
}

// otherExpr renders a second value of the receiver type as a C argument.
func (r receiver) otherExpr(name string) string {
	if r.deref {
		return name + ".native()"
	}
	return fmt.Sprintf("C.%s(%s)", r.cType, name)
}

// assertExpr renders a zero value usable in interface assertions.
func (r receiver) assertExpr() string {
	if r.deref {
		return fmt.Sprintf("(%s)(nil)", r.typeExpr)
	}
	return fmt.Sprintf("%s(0)", r.typeExpr)
}

// GenerateNamespace renders every configured type and returns the output
// files keyed by relative path.
func (g *Generator) GenerateNamespace() (map[string]string, error) {
	out := make(map[string]string)

	for _, t := range g.ns.Types {
		obj := g.cfg.LookupObject(g.ns.Name + "." + t.Name)
		if obj.Status != config.StatusGenerate {
			g.log.Debug("skipping type", zap.String("type", t.Name))
			continue
		}

		files, err := g.generateType(t, &obj)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", t.Name, err)
		}
		for name, content := range files {
			out[name] = content
		}
	}

	return out, nil
}

// generateType classifies one type's functions and renders its wrapper
// files, one per feature gate.
func (g *Generator) generateType(t *gir.TypeInfo, obj *config.Object) (map[string]string, error) {
	reg := special.Extract(t.Functions, t.Kind, obj)

	// Copy on a refcounted type stays independently callable: callers
	// porting C code still reach for the raw function.
	if reg.HasTrait(special.KindRefIncrement) && reg.HasTrait(special.KindClone) {
		special.Unhide(t.Functions, reg, special.KindClone)
	}

	required := imports.NewSet()
	special.AnalyzeImports(reg, required)

	files := map[string]*file{}
	get := func(feature string) *file {
		f, ok := files[feature]
		if !ok {
			f = &file{feature: feature, imports: imports.NewSet()}
			files[feature] = f
		}
		return f
	}

	rcv := newReceiver(t)
	if rcv.deref && len(t.Functions) > 0 {
		g.emitWrapperStruct(get(""), t, rcv)
	}

	for _, kind := range reg.Kinds() {
		ti, _ := reg.Trait(kind)
		g.emitOperation(get(g.featureFor(ti.Version)), kind, ti, reg, rcv, obj)
	}

	g.emitRawBindings(get, t, reg, rcv)

	// Fold the analyzer's requirements into the file carrying the
	// matching gate; the sets dedup anything the bodies already added.
	for _, path := range required.Paths() {
		v, _ := required.Version(path)
		get(g.featureFor(v)).imports.Add(path)
	}

	out := make(map[string]string)
	baseName := nameutil.ToSnake(t.Name)
	for feature, f := range files {
		if f.body.Len() == 0 {
			continue
		}
		name := baseName + ".go"
		if feature != "" {
			name = baseName + "_" + feature + ".go"
		}
		out[name] = g.assemble(f)
	}

	g.log.Info("generated type",
		zap.String("type", t.Name),
		zap.Int("operations", len(reg.Kinds())),
		zap.Int("files", len(out)))

	return out, nil
}

// featureFor maps a minimum version to the build feature gating it, after
// dropping versions already implied by the configured minimum.
func (g *Generator) featureFor(v *version.Version) string {
	fv := g.cfg.FilterVersion(v)
	if fv == nil {
		return ""
	}
	return fv.FeatureTag()
}

func (g *Generator) emitWrapperStruct(f *file, t *gir.TypeInfo, rcv receiver) {
	f.cgo = true
	f.imports.Add("unsafe")

	fmt.Fprintf(&f.body, "// %s wraps the C structure %s.\n", rcv.goName(), t.CType)
	fmt.Fprintf(&f.body, "type %s struct {\n", rcv.goName())
	fmt.Fprintf(&f.body, "\tptr unsafe.Pointer\n")
	fmt.Fprintf(&f.body, "}\n\n")

	fmt.Fprintf(&f.body, "func %s native() *C.%s {\n", rcv.decl, t.CType)
	fmt.Fprintf(&f.body, "\treturn (*C.%s)(%s.ptr)\n", t.CType, rcv.name)
	fmt.Fprintf(&f.body, "}\n\n")
}

func (g *Generator) emitOperation(f *file, kind special.Kind, ti special.TraitInfo,
	reg *special.Registry, rcv receiver, obj *config.Object) {

	switch kind {
	case special.KindFormat:
		if !obj.GenerateDisplay {
			return
		}
		_, static := reg.Function(ti.FuncName)
		g.emitString(f, ti, rcv, static)
	case special.KindEqual:
		g.emitEqual(f, ti, rcv)
	case special.KindCompare:
		g.emitCompare(f, ti, rcv)
	case special.KindHash:
		g.emitHash(f, ti, rcv)
	case special.KindClone:
		g.emitCopy(f, ti, rcv)
	case special.KindDestroy:
		g.emitFree(f, ti, rcv)
	case special.KindRefIncrement:
		g.emitRefUnref(f, ti, rcv, "Ref", "acquires a reference on")
	case special.KindRefDecrement:
		g.emitRefUnref(f, ti, rcv, "Unref", "releases a reference on")
	}
}

func (g *Generator) emitString(f *file, ti special.TraitInfo, rcv receiver, static bool) {
	f.cgo = true
	f.imports.Add("fmt")

	fmt.Fprintf(&f.body, "// String returns the textual form of the value.\n")
	fmt.Fprintf(&f.body, "func %s String() string {\n", rcv.decl)
	if static {
		// The C string is static; hand out a zero-copy view of it.
		f.imports.Add("unsafe")
		fmt.Fprintf(&f.body, "\tcstr := C.%s(%s)\n", ti.FuncName, rcv.self)
		fmt.Fprintf(&f.body, "\treturn unsafe.String((*byte)(unsafe.Pointer(cstr)), int(C.strlen(cstr)))\n")
	} else {
		f.imports.Add("unsafe")
		fmt.Fprintf(&f.body, "\tcstr := C.%s(%s)\n", ti.FuncName, rcv.self)
		fmt.Fprintf(&f.body, "\tdefer C.free(unsafe.Pointer(cstr))\n")
		fmt.Fprintf(&f.body, "\treturn C.GoString(cstr)\n")
	}
	fmt.Fprintf(&f.body, "}\n\n")

	fmt.Fprintf(&f.body, "var _ fmt.Stringer = %s\n\n", rcv.assertExpr())
}

func (g *Generator) emitEqual(f *file, ti special.TraitInfo, rcv receiver) {
	f.cgo = true
	fmt.Fprintf(&f.body, "// Equal reports whether the two values are equal.\n")
	fmt.Fprintf(&f.body, "func %s Equal(other %s) bool {\n", rcv.decl, rcv.typeExpr)
	fmt.Fprintf(&f.body, "\treturn C.%s(%s, %s) != 0\n", ti.FuncName, rcv.self, rcv.otherExpr("other"))
	fmt.Fprintf(&f.body, "}\n\n")
}

func (g *Generator) emitCompare(f *file, ti special.TraitInfo, rcv receiver) {
	f.cgo = true
	f.imports.Add("cmp")
	fmt.Fprintf(&f.body, "// Compare orders the two values, returning -1, 0 or 1.\n")
	fmt.Fprintf(&f.body, "func %s Compare(other %s) int {\n", rcv.decl, rcv.typeExpr)
	fmt.Fprintf(&f.body, "\treturn cmp.Compare(int(C.%s(%s, %s)), 0)\n",
		ti.FuncName, rcv.self, rcv.otherExpr("other"))
	fmt.Fprintf(&f.body, "}\n\n")
}

func (g *Generator) emitHash(f *file, ti special.TraitInfo, rcv receiver) {
	f.cgo = true
	f.imports.Add(girbaseImport)
	fmt.Fprintf(&f.body, "// Hash returns the library's hash value for the receiver.\n")
	fmt.Fprintf(&f.body, "func %s Hash() uint32 {\n", rcv.decl)
	fmt.Fprintf(&f.body, "\treturn uint32(C.%s(%s))\n", ti.FuncName, rcv.self)
	fmt.Fprintf(&f.body, "}\n\n")
	fmt.Fprintf(&f.body, "var _ girbase.Hasher = %s\n\n", rcv.assertExpr())
}

func (g *Generator) emitCopy(f *file, ti special.TraitInfo, rcv receiver) {
	if !rcv.deref {
		return
	}
	f.cgo = true
	f.imports.Add("unsafe")
	fmt.Fprintf(&f.body, "// Copy allocates a new %s with the same contents.\n", rcv.goName())
	fmt.Fprintf(&f.body, "func %s Copy() %s {\n", rcv.decl, rcv.typeExpr)
	fmt.Fprintf(&f.body, "\treturn &%s{ptr: unsafe.Pointer(C.%s(%s))}\n",
		rcv.goName(), ti.FuncName, rcv.self)
	fmt.Fprintf(&f.body, "}\n\n")
}

func (g *Generator) emitFree(f *file, ti special.TraitInfo, rcv receiver) {
	if !rcv.deref {
		return
	}
	f.cgo = true
	fmt.Fprintf(&f.body, "// Free releases the underlying C value. The receiver must not be\n")
	fmt.Fprintf(&f.body, "// used afterwards.\n")
	fmt.Fprintf(&f.body, "func %s Free() {\n", rcv.decl)
	fmt.Fprintf(&f.body, "\tC.%s(%s)\n", ti.FuncName, rcv.self)
	fmt.Fprintf(&f.body, "\t%s.ptr = nil\n", rcv.name)
	fmt.Fprintf(&f.body, "}\n\n")
}

func (g *Generator) emitRefUnref(f *file, ti special.TraitInfo, rcv receiver, name, doc string) {
	if !rcv.deref {
		return
	}
	f.cgo = true
	fmt.Fprintf(&f.body, "// %s %s the underlying C value.\n", name, doc)
	fmt.Fprintf(&f.body, "func %s %s() {\n", rcv.decl, name)
	fmt.Fprintf(&f.body, "\tC.%s(%s)\n", ti.FuncName, rcv.self)
	fmt.Fprintf(&f.body, "}\n\n")
}

// emitRawBindings renders direct wrappers for the functions classification
// left publicly visible, when their shape is simple enough to marshal.
// Trait sources are skipped; their synthesized operation is the wrapper.
func (g *Generator) emitRawBindings(get func(string) *file, t *gir.TypeInfo,
	reg *special.Registry, rcv receiver) {

	traitSources := make(map[string]bool)
	for _, kind := range reg.Kinds() {
		ti, _ := reg.Trait(kind)
		traitSources[ti.FuncName] = true
	}

	for _, fn := range t.Functions {
		if !fn.Generate || fn.Visibility != gir.VisibilityPublic {
			continue
		}
		if traitSources[fn.CIdentifier] {
			continue
		}
		if len(fn.Parameters) != 1 || !fn.Parameters[0].Instance {
			continue
		}

		f := get(g.featureFor(fn.Version))
		if !g.emitRawBinding(f, fn, rcv) {
			g.log.Debug("skipping raw binding",
				zap.String("function", fn.CIdentifier),
				zap.String("reason", "unsupported signature"))
		}
	}
}

func (g *Generator) emitRawBinding(f *file, fn *gir.Function, rcv receiver) bool {
	name := nameutil.ToCamel(fn.Name)
	call := fmt.Sprintf("C.%s(%s)", fn.CIdentifier, rcv.self)

	var retType string
	var body []string
	switch {
	case fn.Return == nil:
		body = []string{call}
	case fn.Return.TypeName == "utf8" && fn.Return.Transfer == gir.TransferFull:
		retType = " string"
		f.imports.Add("unsafe")
		body = []string{
			"cstr := " + call,
			"defer C.free(unsafe.Pointer(cstr))",
			"return C.GoString(cstr)",
		}
	case fn.Return.TypeName == "utf8":
		retType = " string"
		body = []string{"return C.GoString(" + call + ")"}
	case fn.Return.TypeName == "gboolean":
		retType = " bool"
		body = []string{"return " + call + " != 0"}
	case fn.Return.TypeName == "gint":
		retType = " int"
		body = []string{"return int(" + call + ")"}
	case fn.Return.TypeName == "guint":
		retType = " uint"
		body = []string{"return uint(" + call + ")"}
	default:
		return false
	}

	f.cgo = true
	fmt.Fprintf(&f.body, "// %s wraps %s.\n", name, fn.CIdentifier)
	fmt.Fprintf(&f.body, "func %s %s()%s {\n", rcv.decl, name, retType)
	for _, line := range body {
		fmt.Fprintf(&f.body, "\t%s\n", line)
	}
	fmt.Fprintf(&f.body, "}\n\n")
	return true
}

// assemble renders the final file text: header, build gate, package clause,
// cgo preamble and imports, then the body.
func (g *Generator) assemble(f *file) string {
	var out bytes.Buffer
	out.WriteString(generatedHeader)
	if f.feature != "" {
		fmt.Fprintf(&out, "//go:build %s\n", f.feature)
	}
	out.WriteString("\n")
	fmt.Fprintf(&out, "package %s\n\n", strings.ToLower(g.ns.Name))

	if f.cgo {
		out.WriteString("/*\n")
		if g.cfg.PkgConfig != "" {
			fmt.Fprintf(&out, "#cgo pkg-config: %s\n", g.cfg.PkgConfig)
		}
		out.WriteString("#include <stdlib.h>\n")
		out.WriteString("#include <string.h>\n")
		if g.cfg.Include != "" {
			fmt.Fprintf(&out, "#include <%s>\n", g.cfg.Include)
		}
		out.WriteString("*/\n")
		out.WriteString("import \"C\"\n\n")
	}

	if f.imports.Len() > 0 {
		out.WriteString("import (\n")
		for _, path := range f.imports.Paths() {
			fmt.Fprintf(&out, "\t%q\n", path)
		}
		out.WriteString(")\n\n")
	}

	out.Write(f.body.Bytes())
	return out.String()
}
