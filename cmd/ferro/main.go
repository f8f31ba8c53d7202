package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ferro/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ferro",
	Short: "Ferro name-resolution diagnosis toolkit",
	Long:  `Ferro explains failed and misresolved paths: it runs resolution scenarios, emits structured diagnostics, and applies the suggested fixes`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
