package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fixgen",
		Short: "FIX dictionary compiler and Go code generator",
		Long: `fixgen compiles declarative FIX protocol dictionaries into typed Go
message schemas: field tag tables, enumerations, repeating-group and
message structs, and the protocol envelope rules.`,
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
