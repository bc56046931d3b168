package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forma/internal/diag"
	"forma/internal/diagfmt"
	"forma/internal/printer"
	"forma/internal/project"
	"forma/internal/source"
)

const configFileName = project.ConfigFileName

// addLayoutFlags registers the printer options every formatting command
// accepts on top of the configuration file.
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Int("line-width", 0, "maximum line width (1..320)")
	cmd.Flags().String("indent-style", "", "indentation style (tab|space)")
	cmd.Flags().Int("indent-width", 0, "columns per indentation level")
	cmd.Flags().String("line-ending", "", "line ending (lf|crlf|cr)")
	cmd.Flags().Bool("format-with-errors", false, "format files with syntax errors, keeping broken regions verbatim")
	cmd.Flags().String("trailing-commas", "", "trailing commas in JSON (all|es5|none)")
	cmd.Flags().String("expand", "", "object and array expansion (auto|always|never)")
}

// loadConfig reads --config (if any) and applies the command line
// overrides. Configuration diagnostics go to stderr.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	cfg := project.Default()
	if path != "" {
		fs := source.NewFileSet()
		bag := diag.NewBag(maxDiagnostics)
		cfg, err = project.Load(path, fs, diag.BagReporter{Bag: bag})
		if bag.Len() > 0 {
			bag.Sort()
			diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
				Color:   useColor(cmd, os.Stderr),
				Context: 1,
			})
		}
		if err != nil {
			return project.Config{}, err
		}
	}

	overrides, err := readOverrides(cmd)
	if err != nil {
		return project.Config{}, err
	}
	cfg = cfg.Apply(overrides)
	if err := cfg.Validate(nil, source.Span{}); err != nil {
		return project.Config{}, fmt.Errorf("command line options: %w", err)
	}
	return cfg, nil
}

// readOverrides collects the layout flags that were set explicitly.
func readOverrides(cmd *cobra.Command) (project.Overrides, error) {
	var o project.Overrides
	flags := cmd.Flags()
	if flags.Lookup("line-width") == nil {
		return o, nil
	}

	if flags.Changed("line-width") {
		v, err := flags.GetInt("line-width")
		if err != nil {
			return o, err
		}
		o.LineWidth = &v
	}
	if flags.Changed("indent-width") {
		v, err := flags.GetInt("indent-width")
		if err != nil {
			return o, err
		}
		o.IndentWidth = &v
	}
	if flags.Changed("indent-style") {
		s, _ := flags.GetString("indent-style")
		v, err := printer.ParseIndentStyle(s)
		if err != nil {
			return o, err
		}
		o.IndentStyle = &v
	}
	if flags.Changed("line-ending") {
		s, _ := flags.GetString("line-ending")
		v, err := printer.ParseLineEnding(s)
		if err != nil {
			return o, err
		}
		o.LineEnding = &v
	}
	if flags.Changed("format-with-errors") {
		v, err := flags.GetBool("format-with-errors")
		if err != nil {
			return o, err
		}
		o.FormatWithErrors = &v
	}
	if flags.Changed("trailing-commas") {
		s, _ := flags.GetString("trailing-commas")
		v, err := project.ParseTrailingCommas(s)
		if err != nil {
			return o, err
		}
		o.TrailingCommas = &v
	}
	if flags.Changed("expand") {
		s, _ := flags.GetString("expand")
		v, err := project.ParseExpand(s)
		if err != nil {
			return o, err
		}
		o.Expand = &v
	}
	return o, nil
}
