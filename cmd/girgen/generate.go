package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/girkit/girgen/internal/codegen"
	"github.com/girkit/girgen/internal/config"
	"github.com/girkit/girgen/internal/diag"
	"github.com/girkit/girgen/internal/gir"
)

var (
	generateConfig  string
	generateJSON    bool
	generateVerbose bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateConfig, "config", "c", "girgen.toml", "Path to the generator configuration")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Output diagnostics in JSON format")
	generateCmd.Flags().BoolVar(&generateVerbose, "verbose", false, "Show detailed generation output")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go bindings from a .gir manifest",
	Long:  "Read the configured .gir manifest, classify each type's operations and write the Go wrapper sources and build manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()
		var diags diag.List

		cfg, err := config.Load(generateConfig)
		if err != nil {
			diags.Add(diag.Errorf("config", "CFG001", generateConfig, "%v", err))
			return reportFailure(&diags)
		}

		girPath := filepath.Join(cfg.GirsDir,
			fmt.Sprintf("%s-%s.gir", cfg.Library, cfg.LibraryVersion))
		repo, err := gir.ParseFile(girPath)
		if err != nil {
			diags.Add(diag.Errorf("gir", "GIR001", girPath, "%v", err))
			return reportFailure(&diags)
		}

		logger := zap.NewNop()
		if generateVerbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Sync()
		}

		gen := codegen.New(cfg, &repo.Namespace, logger)
		files, err := gen.GenerateNamespace()
		if err != nil {
			diags.Add(diag.Errorf("codegen", "GEN001", "", "%v", err))
			return reportFailure(&diags)
		}

		manifest, err := codegen.BuildManifest(cfg, &repo.Namespace)
		if err != nil {
			diags.Add(diag.Errorf("codegen", "GEN002", "", "%v", err))
			return reportFailure(&diags)
		}
		files[codegen.ManifestName] = string(manifest)

		if err := os.MkdirAll(cfg.TargetPath, 0755); err != nil {
			return fmt.Errorf("failed to create target directory: %w", err)
		}
		for name, content := range files {
			path := filepath.Join(cfg.TargetPath, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if generateVerbose {
				fmt.Printf("  wrote %s\n", path)
			}
		}

		green := color.New(color.FgGreen, color.Bold)
		green.Printf("✓ Generated %d file(s) for %s-%s in %v\n",
			len(files), cfg.Library, cfg.LibraryVersion,
			time.Since(startTime).Round(time.Millisecond))
		return nil
	},
}

// reportFailure prints collected diagnostics in the requested format and
// turns them into a command error.
func reportFailure(diags *diag.List) error {
	if generateJSON {
		if err := diags.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		diags.WriteTerminal(os.Stderr)
	}
	return fmt.Errorf("generation failed with %d diagnostic(s)", diags.Len())
}
