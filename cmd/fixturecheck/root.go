// The fixturecheck command reports on fixture check coverage in a Go test
// suite and can add default checks to registrations that have none.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	defaultPath    = "."
	defaultPattern = "*_test.go"
)

var (
	flagPath    string
	flagPattern string
)

var rootCmd = &cobra.Command{
	Use:   "fixturecheck",
	Short: "Manage fixture checks in your Go test suite",
	Long: `fixturecheck inspects test files for fixture registrations, reports which
ones carry validation checks, and can add a default check to those that
don't. Defaults for --path and --pattern can be set in .fixturecheck.yaml.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "p", "",
		"Path to search for test files (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&flagPattern, "pattern", "P", "",
		"Pattern to match test files (default: *_test.go)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(addCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
