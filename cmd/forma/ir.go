package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forma/internal/format"
	"forma/internal/source"
	"forma/internal/trace"
)

var irCmd = &cobra.Command{
	Use:   "ir [flags] file.json",
	Short: "Print the resolved document IR of a file",
	Long: `ir lowers a file to the printer's document IR and prints it with every
group annotated by the mode the printer chose for it`,
	Args: cobra.ExactArgs(1),
	RunE: runIR,
}

func init() {
	irCmd.Flags().Bool("code", false, "print the formatted code after the IR")
	addLayoutFlags(irCmd)
}

func runIR(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	showCode, err := cmd.Flags().GetBool("code")
	if err != nil {
		return fmt.Errorf("failed to get code flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	sf := fs.Get(id)

	out, bag, err := format.FormatFile(sf, format.Options{
		Config:         cfg,
		Trace:          true,
		MaxDiagnostics: maxDiagnostics,
		Tracer:         trace.FromContext(cmd.Context()),
	})
	if bag != nil && bag.Len() > 0 {
		bag.Sort()
		printDiagnostics(cmd, bag, fs)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), out.IR)
	if showCode {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), out.Code)
	}
	if bag != nil && bag.HasErrors() {
		return fmt.Errorf("ir: %s has errors", sf.Path)
	}
	return nil
}

