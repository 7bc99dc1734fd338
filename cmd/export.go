package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/climastery/internal/app"
	"github.com/abhisek/climastery/internal/curriculum"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the quick reference cheatsheet to a text file",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := curriculum.Load()
		if err != nil {
			return fmt.Errorf("load curriculum: %w", err)
		}
		path := exportPath(cmd)
		if err := app.WriteReference(c, path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reference exported to:", path)
		return nil
	},
}

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Validate curriculum coverage and the cheatsheet export",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		c, err := curriculum.Load()
		if err == nil {
			err = c.Validate()
		}
		if err != nil {
			fmt.Fprintln(out, "Self-test FAILED:")
			for line := range strings.SplitSeq(err.Error(), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					fmt.Fprintln(out, "  -", line)
				}
			}
			return errors.New("self-test failed")
		}

		report := c.Reference.CheckCoverage()
		path := exportPath(cmd)
		if err := app.WriteReference(c, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Self-test PASSED: curriculum coverage is complete (%d commands, %d shortcuts).\n",
			report.Commands, report.Shortcuts)
		fmt.Fprintln(out, "Reference exported to:", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default <data-dir>/"+app.ExportFile+")")
	selftestCmd.Flags().StringP("out", "o", "", "Output file (default <data-dir>/"+app.ExportFile+")")
}

func exportPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("out"); p != "" {
		return p
	}
	return filepath.Join(cfg.Storage.DataDir, app.ExportFile)
}
