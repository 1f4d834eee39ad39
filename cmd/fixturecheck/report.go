package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"facette.io/natsort"
	"github.com/alitto/pond/v2"
	"github.com/spf13/cobra"
	"github.com/topiaruss/fixturecheck/envutil"
	"github.com/topiaruss/fixturecheck/scan"
)

var flagVerbose int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report fixture check opportunities and current usage",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().CountVarP(&flagVerbose, "verbose", "v",
		"Verbose output. Use -v for details, -vv for full details including validators")
}

func runReport(cmd *cobra.Command, _ []string) error {
	path, pattern := resolveOptions()
	verbosity := resolveVerbosity()

	files, err := scan.Files(path, pattern)
	if err != nil {
		return err
	}

	natsort.Sort(files)

	results, err := scanAll(files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if verbosity > 0 {
		fmt.Fprintln(out, "FIXTURE CHECK REPORT")
		fmt.Fprintln(out, strings.Repeat("=", 50))
	}

	opportunities := 0
	existing := 0

	for _, result := range results {
		open := result.Opportunities()
		checked := result.Existing()
		opportunities += len(open)
		existing += len(checked)

		if verbosity == 0 || (len(open) == 0 && len(checked) == 0) {
			continue
		}

		fmt.Fprintf(out, "\nFile: %s\n", result.File)
		fmt.Fprintln(out, strings.Repeat("-", 40))

		if len(open) > 0 {
			fmt.Fprintln(out, "\nOpportunities for fixture checks:")

			for _, f := range open {
				printFixtureDetail(out, f, verbosity)
			}
		}

		if len(checked) > 0 {
			fmt.Fprintln(out, "\nExisting fixture checks:")

			for _, f := range checked {
				printFixtureDetail(out, f, verbosity)
			}
		}
	}

	if verbosity > 0 {
		fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	}

	fmt.Fprintf(out, "Found %d opportunities for fixture checks\n", opportunities)
	fmt.Fprintf(out, "Found %d existing fixture checks\n", existing)

	return nil
}

// resolveVerbosity prefers the repeatable --verbose flag, falling back to
// the FIXTURECHECK_VERBOSE environment variable for CI runs that cannot
// pass flags.
func resolveVerbosity() int {
	if flagVerbose > 0 {
		return flagVerbose
	}

	return envutil.Int("FIXTURECHECK_VERBOSE",
		envutil.Default(0)).
		ValueOrElse(0)
}

func printFixtureDetail(out io.Writer, f scan.Fixture, verbosity int) {
	fmt.Fprintf(out, "  Line %d: %s\n", f.Line, f.Name)

	if len(f.Params) > 0 {
		fmt.Fprintf(out, "    Depends on: %s\n", strings.Join(f.Params, ", "))
	}

	if verbosity >= 2 && f.Validator != "" {
		fmt.Fprintf(out, "    Validator: %s\n", f.Validator)
	}

	fmt.Fprintln(out, "    "+strings.Repeat("-", 30))
}

// scanAll parses the files concurrently. Results come back in file order.
func scanAll(files []string) ([]*scan.Result, error) {
	pool := pond.NewResultPool[*scan.Result](runtime.NumCPU())
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, file := range files {
		group.SubmitErr(func() (*scan.Result, error) {
			return scan.File(file)
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("scanning test files: %w", err)
	}

	return results, nil
}
