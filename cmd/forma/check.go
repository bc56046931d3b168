package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forma/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <path> [path...]",
	Short: "Verify that formatting is stable",
	Long: `check formats every file twice and fails when the second pass changes
the output, a token or comment is lost, or the output no longer parses`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "files checked in parallel (0 = GOMAXPROCS)")
	addLayoutFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := driver.CheckPaths(cmd.Context(), args, cfg, maxDiagnostics, jobs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.OK {
			if !quiet {
				fmt.Fprintf(out, "ok   %s\n", res.Path)
			}
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n%s\n", res.Path, res.Message)
	}
	if failed > 0 {
		return fmt.Errorf("check: %d of %d files are not stable", failed, len(results))
	}
	return nil
}
