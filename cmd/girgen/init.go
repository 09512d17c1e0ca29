package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type initAnswers struct {
	Library    string
	Version    string
	GirsDir    string
	MinVersion string
	PkgConfig  string
	Include    string
}

var initQuestions = []*survey.Question{
	{
		Name:     "library",
		Prompt:   &survey.Input{Message: "Library namespace (e.g. Gtk):"},
		Validate: survey.Required,
	},
	{
		Name:     "version",
		Prompt:   &survey.Input{Message: "Namespace version (e.g. 3.0):"},
		Validate: survey.Required,
	},
	{
		Name:   "girsDir",
		Prompt: &survey.Input{Message: "Directory containing .gir files:", Default: "gir-files"},
	},
	{
		Name:   "minVersion",
		Prompt: &survey.Input{Message: "Minimum supported library version:", Default: "0.0"},
	},
	{
		Name:   "pkgConfig",
		Prompt: &survey.Input{Message: "pkg-config package (e.g. gtk+-3.0):"},
	},
	{
		Name:   "include",
		Prompt: &survey.Input{Message: "C header to include (e.g. gtk/gtk.h):"},
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a girgen.toml interactively",
	Long:  "Ask for the library, versions and paths and write a starter girgen.toml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat("girgen.toml"); err == nil {
			return fmt.Errorf("girgen.toml already exists")
		}

		var answers initAnswers
		if err := survey.Ask(initQuestions, &answers); err != nil {
			return err
		}

		content := fmt.Sprintf(`[options]
girs_dir = %q
library = %q
version = %q
target_path = "."
min_cfg_version = %q
pkg_config = %q
include = %q
generate_display = true
trust_return_value_nullability = false

# Per-type policy blocks, matched by name or anchored pattern:
#
# [[object]]
# name = "%s.SomeType"
# status = "generate"
`, answers.GirsDir, answers.Library, answers.Version,
			answers.MinVersion, answers.PkgConfig, answers.Include,
			answers.Library)

		if err := os.WriteFile("girgen.toml", []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write girgen.toml: %w", err)
		}

		color.New(color.FgGreen).Println("✓ Created girgen.toml")
		fmt.Println("Next: drop your .gir files into the girs directory and run `girgen generate`")
		return nil
	},
}
