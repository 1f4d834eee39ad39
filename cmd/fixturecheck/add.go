package main

import (
	"fmt"
	"os"

	"facette.io/natsort"
	"github.com/spf13/cobra"
	"github.com/topiaruss/fixturecheck/cli"
	"github.com/topiaruss/fixturecheck/scan"
)

var (
	flagDryRun bool
	flagYes    bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add default checks to unchecked fixture registrations",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "d", false,
		"Show what would be added without making changes")
	addCmd.Flags().BoolVarP(&flagYes, "yes", "y", false,
		"Modify files without asking for confirmation")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	path, pattern := resolveOptions()

	files, err := scan.Files(path, pattern)
	if err != nil {
		return err
	}

	natsort.Sort(files)

	out := cmd.OutOrStdout()

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		rewritten, changed, err := scan.AddChecks(file, src)
		if err != nil {
			return err
		}

		if !changed {
			continue
		}

		if flagDryRun {
			fmt.Fprintf(out, "Would modify %s\n", file)

			continue
		}

		if !flagYes {
			ok, err := cli.PromptConfirm(fmt.Sprintf("Add checks to %s", file))
			if err != nil {
				return fmt.Errorf("confirming %s: %w", file, err)
			}

			if !ok {
				continue
			}
		}

		if err := writeBack(file, rewritten); err != nil {
			return err
		}

		fmt.Fprintf(out, "Modified %s\n", file)
	}

	return nil
}

// writeBack preserves the file's existing permissions.
func writeBack(file string, content []byte) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}

	if err := os.WriteFile(file, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}

	return nil
}
