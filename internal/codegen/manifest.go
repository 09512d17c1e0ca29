package codegen

import (
	"fmt"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/girkit/girgen/internal/config"
	"github.com/girkit/girgen/internal/gir"
	"github.com/girkit/girgen/internal/nameutil"
	"github.com/girkit/girgen/internal/version"
)

// ManifestName is the file the build manifest is written to, next to the
// generated sources.
const ManifestName = "girgen.manifest.toml"

// manifest is the serialized shape of the build manifest: which build
// feature tags exist, how they chain, and what system library version each
// one requires.
type manifest struct {
	Package    manifestPackage                 `toml:"package"`
	Features   map[string][]string             `toml:"features"`
	SystemDeps map[string]map[string]systemDep `toml:"system_deps"`
}

type manifestPackage struct {
	Name          string `toml:"name"`
	Library       string `toml:"library"`
	Version       string `toml:"version"`
	SharedLibrary string `toml:"shared_library,omitempty"`
}

type systemDep struct {
	Name    string `toml:"name,omitempty"`
	Version string `toml:"version"`
}

// collectVersions gathers every gated version appearing in the namespace,
// plus the configured extra versions, above the configured minimum,
// in ascending order.
func collectVersions(cfg *config.Config, ns *gir.Namespace) []version.Version {
	seen := make(map[version.Version]bool)
	add := func(v *version.Version) {
		if fv := cfg.FilterVersion(v); fv != nil {
			seen[*fv] = true
		}
	}

	for _, t := range ns.Types {
		add(t.Version)
		for _, fn := range t.Functions {
			add(fn.Version)
		}
	}
	for i := range cfg.ExtraVersions {
		add(&cfg.ExtraVersions[i])
	}

	versions := make([]version.Version, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Compare(versions[j]) < 0
	})
	return versions
}

// BuildManifest renders the build manifest for a namespace. Each feature
// depends on the previous one, so enabling a version pulls in everything
// below it, plus any extra dependencies configured for that version.
func BuildManifest(cfg *config.Config, ns *gir.Namespace) ([]byte, error) {
	versions := collectVersions(cfg, ns)

	features := make(map[string][]string, len(versions))
	var prev *version.Version
	for i := range versions {
		v := versions[i]
		deps := []string{}
		if prev != nil {
			deps = append(deps, prev.FeatureTag())
		}
		deps = append(deps, cfg.FeatureDependencies[v]...)
		features[v.FeatureTag()] = deps
		prev = &versions[i]
	}

	pkgKey := nameutil.ToSnake(cfg.Library)
	deps := map[string]systemDep{
		"base": {
			Name:    cfg.PkgConfig,
			Version: cfg.MinCfgVersion.String(),
		},
	}
	for _, v := range versions {
		deps[v.FeatureTag()] = systemDep{Version: cfg.LibVersion(v).String()}
	}

	m := manifest{
		Package: manifestPackage{
			Name:          pkgKey,
			Library:       cfg.Library,
			Version:       cfg.LibraryVersion,
			SharedLibrary: ns.SharedLibrary,
		},
		Features:   features,
		SystemDeps: map[string]map[string]systemDep{pkgKey: deps},
	}

	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return out, nil
}
