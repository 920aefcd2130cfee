package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"javelin/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "javelin",
	Short: "Incremental Java snippet evaluator",
	Long:  `Javelin evaluates Java snippets incrementally by driving the external compiler toolchain`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd)
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI while compiling (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorMode applies the persistent --color flag to all colored output.
func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "", "auto":
		// fatih/color picks this up from the terminal by itself.
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}
