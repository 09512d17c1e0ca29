package gir

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/girkit/girgen/internal/version"
)

// Raw XML shapes for the subset of the GIR schema the generator consumes.
// Attribute names follow the introspection schema; the c: namespace prefix
// is resolved by encoding/xml against the full attribute name.

type xmlRepository struct {
	XMLName   xml.Name     `xml:"repository"`
	Namespace xmlNamespace `xml:"namespace"`
}

type xmlNamespace struct {
	Name          string    `xml:"name,attr"`
	Version       string    `xml:"version,attr"`
	SharedLibrary string    `xml:"shared-library,attr"`
	CPrefix       string    `xml:"symbol-prefixes,attr"`
	Enumerations  []xmlType `xml:"enumeration"`
	Bitfields     []xmlType `xml:"bitfield"`
	Records       []xmlType `xml:"record"`
	Classes       []xmlType `xml:"class"`
}

type xmlType struct {
	Name      string        `xml:"name,attr"`
	CType     string        `xml:"type,attr"`
	Version   string        `xml:"version,attr"`
	Functions []xmlFunction `xml:"function"`
	Methods   []xmlFunction `xml:"method"`
}

type xmlFunction struct {
	Name        string         `xml:"name,attr"`
	CIdentifier string         `xml:"identifier,attr"`
	Version     string         `xml:"version,attr"`
	Introspect  string         `xml:"introspectable,attr"`
	Return      *xmlReturn     `xml:"return-value"`
	Parameters  *xmlParamBlock `xml:"parameters"`
}

type xmlReturn struct {
	Transfer string      `xml:"transfer-ownership,attr"`
	Nullable string      `xml:"nullable,attr"`
	Type     *xmlTypeRef `xml:"type"`
}

type xmlParamBlock struct {
	Instance []xmlParam `xml:"instance-parameter"`
	Params   []xmlParam `xml:"parameter"`
}

type xmlParam struct {
	Name string      `xml:"name,attr"`
	Type *xmlTypeRef `xml:"type"`
}

type xmlTypeRef struct {
	Name string `xml:"name,attr"`
}

// ParseFile reads and parses a .gir manifest from disk.
func ParseFile(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gir file: %w", err)
	}
	defer f.Close()

	repo, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return repo, nil
}

// Parse decodes a .gir manifest into the repository model.
func Parse(r io.Reader) (*Repository, error) {
	var raw xmlRepository
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid gir xml: %w", err)
	}

	ns := Namespace{
		Name:          raw.Namespace.Name,
		Version:       raw.Namespace.Version,
		SharedLibrary: raw.Namespace.SharedLibrary,
		CPrefix:       raw.Namespace.CPrefix,
	}

	groups := []struct {
		kind  TypeKind
		types []xmlType
	}{
		{TypeEnumeration, raw.Namespace.Enumerations},
		{TypeBitfield, raw.Namespace.Bitfields},
		{TypeOther, raw.Namespace.Records},
		{TypeOther, raw.Namespace.Classes},
	}

	for _, g := range groups {
		for _, t := range g.types {
			ti, err := convertType(t, g.kind)
			if err != nil {
				return nil, err
			}
			ns.Types = append(ns.Types, ti)
		}
	}

	return &Repository{Namespace: ns}, nil
}

func convertType(raw xmlType, kind TypeKind) (*TypeInfo, error) {
	ti := &TypeInfo{
		Name:  raw.Name,
		CType: raw.CType,
		Kind:  kind,
	}

	v, err := parseVersionAttr(raw.Version)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", raw.Name, err)
	}
	ti.Version = v

	// Manifest order is significant: classification is an ordered pass
	// and later functions win duplicate kinds.
	for _, fn := range raw.Functions {
		converted, err := convertFunction(fn, false)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", raw.Name, err)
		}
		ti.Functions = append(ti.Functions, converted)
	}
	for _, fn := range raw.Methods {
		converted, err := convertFunction(fn, true)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", raw.Name, err)
		}
		ti.Functions = append(ti.Functions, converted)
	}

	return ti, nil
}

func convertFunction(raw xmlFunction, method bool) (*Function, error) {
	fn := &Function{
		Name:        raw.Name,
		CIdentifier: raw.CIdentifier,
		Visibility:  VisibilityPublic,
		Generate:    raw.Introspect != "0",
	}

	v, err := parseVersionAttr(raw.Version)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", raw.Name, err)
	}
	fn.Version = v

	if raw.Parameters != nil {
		for _, p := range raw.Parameters.Instance {
			fn.Parameters = append(fn.Parameters, Parameter{
				Name:     p.Name,
				TypeName: typeRefName(p.Type),
				Instance: true,
			})
		}
		for _, p := range raw.Parameters.Params {
			fn.Parameters = append(fn.Parameters, Parameter{
				Name:     p.Name,
				TypeName: typeRefName(p.Type),
			})
		}
	} else if method {
		// Some manifests omit the parameter block for niladic methods;
		// the receiver is still there at the C level.
		fn.Parameters = append(fn.Parameters, Parameter{Name: "self", Instance: true})
	}

	if raw.Return != nil && raw.Return.Type != nil && raw.Return.Type.Name != "none" {
		fn.Return = &ReturnValue{
			TypeName: raw.Return.Type.Name,
			Nullable: raw.Return.Nullable == "1",
			Transfer: parseTransfer(raw.Return.Transfer),
		}
	}

	return fn, nil
}

func typeRefName(t *xmlTypeRef) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func parseTransfer(s string) Transfer {
	switch s {
	case "full":
		return TransferFull
	case "container":
		return TransferContainer
	default:
		return TransferNone
	}
}

func parseVersionAttr(s string) (*version.Version, error) {
	if s == "" {
		return nil, nil
	}
	v, err := version.Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
