package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "girgen",
		Short: "Generate Go bindings from GObject-Introspection data",
		Long: `girgen reads a GObject-Introspection manifest (.gir), classifies each
type's conventional operations (equality, ordering, hashing, reference
counting, destruction, cloning, formatting) and emits idiomatic Go
wrappers with version-gated build constraints.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
