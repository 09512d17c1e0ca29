// Package config loads the girgen.toml generator configuration: where the
// .gir manifests live, what library and version to generate for, and the
// per-type policy blocks that tune classification and code emission.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/girkit/girgen/internal/version"
)

// Status controls how much code a type produces.
type Status int

const (
	// StatusGenerate emits full wrappers for the type.
	StatusGenerate Status = iota
	// StatusManual emits no wrappers; a hand-written file provides them.
	StatusManual
	// StatusIgnore skips the type entirely.
	StatusIgnore
)

func parseStatus(s string) (Status, error) {
	switch s {
	case "", "generate":
		return StatusGenerate, nil
	case "manual":
		return StatusManual, nil
	case "ignore":
		return StatusIgnore, nil
	default:
		return StatusGenerate, fmt.Errorf("unknown object status %q", s)
	}
}

// Object is the resolved per-type policy handed to the analysis passes.
type Object struct {
	Ident   Ident
	Status  Status
	Version *version.Version
	// TrustReturnValueNullability trusts the manifest's nullability
	// annotations instead of applying the historical non-null override.
	TrustReturnValueNullability bool
	// GenerateDisplay controls whether a Format classification produces
	// a String method.
	GenerateDisplay bool
}

// Config is the resolved girgen.toml.
type Config struct {
	GirsDir        string
	Library        string
	LibraryVersion string
	TargetPath     string
	MinCfgVersion  version.Version

	// PkgConfig and Include feed the cgo preamble of generated files.
	PkgConfig string
	Include   string

	TrustReturnValueNullability bool
	GenerateDisplay             bool

	ExtraVersions       []version.Version
	LibVersionOverrides map[version.Version]version.Version
	FeatureDependencies map[version.Version][]string

	Objects []Object
}

// rawConfig is the mapstructure shape viper unmarshals into. Versions stay
// strings here and are parsed during resolution.
type rawConfig struct {
	Options struct {
		GirsDir                     string   `mapstructure:"girs_dir"`
		Library                     string   `mapstructure:"library"`
		Version                     string   `mapstructure:"version"`
		TargetPath                  string   `mapstructure:"target_path"`
		MinCfgVersion               string   `mapstructure:"min_cfg_version"`
		PkgConfig                   string   `mapstructure:"pkg_config"`
		Include                     string   `mapstructure:"include"`
		GenerateDisplay             bool     `mapstructure:"generate_display"`
		TrustReturnValueNullability bool     `mapstructure:"trust_return_value_nullability"`
		ExtraVersions               []string `mapstructure:"extra_versions"`
	} `mapstructure:"options"`

	Objects []struct {
		Name                        string `mapstructure:"name"`
		Pattern                     string `mapstructure:"pattern"`
		Status                      string `mapstructure:"status"`
		Version                     string `mapstructure:"version"`
		TrustReturnValueNullability *bool  `mapstructure:"trust_return_value_nullability"`
		GenerateDisplay             *bool  `mapstructure:"generate_display"`
	} `mapstructure:"object"`

	LibVersionOverrides []struct {
		Version    string `mapstructure:"version"`
		LibVersion string `mapstructure:"lib_version"`
	} `mapstructure:"lib_version_overrides"`

	FeatureDependencies []struct {
		Version      string   `mapstructure:"version"`
		Dependencies []string `mapstructure:"dependencies"`
	} `mapstructure:"feature_dependencies"`
}

// Load reads and resolves the configuration at path. Relative girs_dir and
// target_path entries resolve against the config file's directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("options.target_path", ".")
	v.SetDefault("options.generate_display", true)
	v.SetDefault("options.trust_return_value_nullability", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return resolve(&raw, filepath.Dir(path))
}

func resolve(raw *rawConfig, baseDir string) (*Config, error) {
	opts := raw.Options
	if opts.Library == "" {
		return nil, fmt.Errorf("options.library is required")
	}
	if opts.Version == "" {
		return nil, fmt.Errorf("options.version is required")
	}
	if opts.GirsDir == "" {
		return nil, fmt.Errorf("options.girs_dir is required")
	}

	cfg := &Config{
		GirsDir:                     joinBase(baseDir, opts.GirsDir),
		Library:                     opts.Library,
		LibraryVersion:              opts.Version,
		TargetPath:                  joinBase(baseDir, opts.TargetPath),
		PkgConfig:                   opts.PkgConfig,
		Include:                     opts.Include,
		TrustReturnValueNullability: opts.TrustReturnValueNullability,
		GenerateDisplay:             opts.GenerateDisplay,
		LibVersionOverrides:         make(map[version.Version]version.Version),
		FeatureDependencies:         make(map[version.Version][]string),
	}

	if opts.MinCfgVersion != "" {
		mv, err := version.Parse(opts.MinCfgVersion)
		if err != nil {
			return nil, fmt.Errorf("options.min_cfg_version: %w", err)
		}
		cfg.MinCfgVersion = mv
	}

	for _, s := range opts.ExtraVersions {
		ev, err := version.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("options.extra_versions: %w", err)
		}
		cfg.ExtraVersions = append(cfg.ExtraVersions, ev)
	}

	for i, o := range raw.Objects {
		obj := Object{
			TrustReturnValueNullability: cfg.TrustReturnValueNullability,
			GenerateDisplay:             cfg.GenerateDisplay,
		}

		var err error
		switch {
		case o.Pattern != "":
			obj.Ident, err = NewPatternIdent(o.Pattern)
		case o.Name != "":
			obj.Ident, err = NewNameIdent(o.Name)
		default:
			err = fmt.Errorf("object block %d has neither name nor pattern", i)
		}
		if err != nil {
			return nil, err
		}

		if obj.Status, err = parseStatus(o.Status); err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.Ident, err)
		}
		if o.Version != "" {
			ov, err := version.Parse(o.Version)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", obj.Ident, err)
			}
			obj.Version = &ov
		}
		if o.TrustReturnValueNullability != nil {
			obj.TrustReturnValueNullability = *o.TrustReturnValueNullability
		}
		if o.GenerateDisplay != nil {
			obj.GenerateDisplay = *o.GenerateDisplay
		}

		cfg.Objects = append(cfg.Objects, obj)
	}

	for _, o := range raw.LibVersionOverrides {
		cv, err := version.Parse(o.Version)
		if err != nil {
			return nil, fmt.Errorf("lib_version_overrides: %w", err)
		}
		lv, err := version.Parse(o.LibVersion)
		if err != nil {
			return nil, fmt.Errorf("lib_version_overrides: %w", err)
		}
		cfg.LibVersionOverrides[cv] = lv
	}

	for _, d := range raw.FeatureDependencies {
		dv, err := version.Parse(d.Version)
		if err != nil {
			return nil, fmt.Errorf("feature_dependencies: %w", err)
		}
		cfg.FeatureDependencies[dv] = d.Dependencies
	}

	return cfg, nil
}

func joinBase(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// LookupObject resolves the policy for a type name. Exact-name blocks win
// over pattern blocks; among pattern blocks the first match wins. Types
// with no matching block get the config-level defaults.
func (c *Config) LookupObject(name string) Object {
	var patternMatch *Object
	for i := range c.Objects {
		o := &c.Objects[i]
		if !o.Ident.Match(name) {
			continue
		}
		if o.Ident.Exact() {
			return *o
		}
		if patternMatch == nil {
			patternMatch = o
		}
	}
	if patternMatch != nil {
		return *patternMatch
	}
	return Object{
		TrustReturnValueNullability: c.TrustReturnValueNullability,
		GenerateDisplay:             c.GenerateDisplay,
	}
}

// FilterVersion drops versions already implied by the minimum supported
// version: only versions strictly above min_cfg_version need a gate.
func (c *Config) FilterVersion(v *version.Version) *version.Version {
	if v == nil || !v.After(c.MinCfgVersion) {
		return nil
	}
	return v
}

// LibVersion maps a feature-gate version to the library version the build
// manifest should require, honoring configured overrides.
func (c *Config) LibVersion(v version.Version) version.Version {
	if lv, ok := c.LibVersionOverrides[v]; ok {
		return lv
	}
	return v
}
