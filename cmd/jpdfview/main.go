package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "jpdfview",
		Short: "jpdfview - a terminal PDF viewer",
		Long: `jpdfview is a terminal PDF viewer with paged scrolling, zoom and pan,
color modes for comfortable reading, live reload of changed files, and a
follow mode that mirrors the reading position to other screens.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newViewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
