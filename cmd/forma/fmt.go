package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"forma/internal/diag"
	"forma/internal/diagfmt"
	"forma/internal/driver"
	"forma/internal/observ"
	"forma/internal/source"
	"forma/internal/trace"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format JSON and JSONC files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().Bool("diff", false, "with --check, print a unified diff of the changes")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Bool("write", false, "rewrite files in place (the default)")
	fmtCmd.Flags().Bool("verify", false, "re-parse every output and check it is stable")
	fmtCmd.Flags().String("range", "", "format only the node covering byte offsets a:b (one file)")
	fmtCmd.Flags().Int("jobs", 0, "files formatted in parallel (0 = GOMAXPROCS)")
	fmtCmd.Flags().Bool("cache", false, "skip files the cache knows to be formatted")
	fmtCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	fmtCmd.Flags().String("format", "text", "output format (text|short|json)")
	addLayoutFlags(fmtCmd)
}

type fmtFlags struct {
	check, diff, stdout, write, verify, cache bool
	rng                                       string
	jobs                                      int
	ui                                        uiMode
	format                                    string
}

func readFmtFlags(cmd *cobra.Command) (fmtFlags, error) {
	var f fmtFlags
	var err error
	flags := cmd.Flags()
	if f.check, err = flags.GetBool("check"); err != nil {
		return f, err
	}
	if f.diff, err = flags.GetBool("diff"); err != nil {
		return f, err
	}
	if f.stdout, err = flags.GetBool("stdout"); err != nil {
		return f, err
	}
	if f.write, err = flags.GetBool("write"); err != nil {
		return f, err
	}
	if f.verify, err = flags.GetBool("verify"); err != nil {
		return f, err
	}
	if f.cache, err = flags.GetBool("cache"); err != nil {
		return f, err
	}
	if f.rng, err = flags.GetString("range"); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.format, err = flags.GetString("format"); err != nil {
		return f, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}

	// --diff подразумевает --check
	if f.diff {
		f.check = true
	}
	switch {
	case f.stdout && f.check:
		return f, fmt.Errorf("fmt: --stdout cannot be used with --check")
	case f.write && (f.check || f.stdout):
		return f, fmt.Errorf("fmt: --write cannot be used with --check or --stdout")
	case f.stdout && f.format == "json":
		return f, fmt.Errorf("fmt: --stdout is only supported with text output")
	case f.format != "text" && f.format != "short" && f.format != "json":
		return f, fmt.Errorf("fmt: unsupported output format %q", f.format)
	}
	return f, nil
}

// parseRange reads "a:b" byte offsets.
func parseRange(s string) (*source.Span, error) {
	if s == "" {
		return nil, nil
	}
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("invalid --range %q (expected start:end)", s)
	}
	start, err := strconv.ParseUint(strings.TrimSpace(a), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid --range start %q: %w", a, err)
	}
	end, err := strconv.ParseUint(strings.TrimSpace(b), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid --range end %q: %w", b, err)
	}
	if end < start {
		return nil, fmt.Errorf("invalid --range %q: end before start", s)
	}
	return &source.Span{Start: uint32(start), End: uint32(end)}, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	flags, err := readFmtFlags(cmd)
	if err != nil {
		return err
	}
	rng, err := parseRange(flags.rng)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return err
	}

	opts := driver.FormatOptions{
		Check:          flags.check,
		Stdout:         flags.stdout,
		Verify:         flags.verify,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           flags.jobs,
		Config:         cfg,
		Range:          rng,
		Timer:          observ.NewTimer(),
	}
	if flags.cache {
		cache, cacheErr := driver.OpenCache("forma")
		if cacheErr != nil {
			fmt.Fprintf(os.Stderr, "fmt: cache disabled: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	var (
		fileSet *source.FileSet
		results []driver.FormatResult
	)
	if !flags.stdout && flags.format != "json" && shouldUseTUI(flags.ui) {
		files, collectErr := driver.CollectFiles(cmd.Context(), args)
		if collectErr != nil {
			return collectErr
		}
		fileSet, results, err = runFormatWithUI(cmd.Context(), "fmt", files, args, opts)
	} else {
		fileSet, results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	dumpFailedTraces(cmd, results)
	bag := collectBags(results, maxDiagnostics)
	if quiet {
		bag.Filter(diag.SevWarning)
	}

	var hasErrors, hasChanges bool
	switch flags.format {
	case "text", "short":
		if flags.format == "short" {
			printShortDiagnostics(bag, fileSet)
		} else {
			printDiagnostics(cmd, bag, fileSet)
		}
		if flags.stdout {
			hasErrors = renderFmtStdout(cmd.OutOrStdout(), results)
		} else {
			hasErrors, hasChanges = renderFmtText(cmd.OutOrStdout(), results, flags, quiet, useColor(cmd, stdoutFile(cmd)))
		}
	case "json":
		hasErrors, hasChanges = summarize(results)
		if err := renderFmtJSON(cmd.OutOrStdout(), results, bag, fileSet, flags.check); err != nil {
			return err
		}
	}

	if showTimings {
		printTimings(os.Stderr, opts.Timer)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if flags.check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func collectBags(results []driver.FormatResult, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, res := range results {
		bag.Merge(res.Bag)
	}
	bag.Sort()
	bag.Dedup()
	return bag
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag.Len() == 0 || fs == nil {
		return
	}
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:     1,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
}

// dumpFailedTraces prints the buffered trace of every file that failed when
// a ring tracer is active.
func dumpFailedTraces(cmd *cobra.Command, results []driver.FormatResult) {
	ring := trace.RingOf(trace.FromContext(cmd.Context()))
	if ring == nil {
		return
	}
	var failed []string
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.Path)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "trace of %d failed file(s):\n", len(failed))
	if err := ring.DumpFiles(os.Stderr, trace.FormatText, failed...); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
	ringDumped = true
}

// printShortDiagnostics writes one line per diagnostic.
func printShortDiagnostics(bag *diag.Bag, fs *source.FileSet) {
	if out := diag.FormatGoldenDiagnostics(bag.Items(), fs, false); out != "" {
		fmt.Fprintln(os.Stderr, out)
	}
}

func summarize(results []driver.FormatResult) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
		}
		if res.Changed {
			hasChanges = true
		}
	}
	return hasErrors, hasChanges
}

func renderFmtStdout(out io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out io.Writer, results []driver.FormatResult, flags fmtFlags, quiet, color bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		switch {
		case flags.diff:
			fmt.Fprint(out, diagfmt.Unified(res.Path, string(res.Original), string(res.Formatted), color))
		case flags.check:
			fmt.Fprintln(out, res.Path)
		default:
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
	return hasErrors, hasChanges
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, bag *diag.Bag, fs *source.FileSet, check bool) error {
	type jsonResult struct {
		Path    string `json:"path"`
		Changed bool   `json:"changed"`
		Cached  bool   `json:"cached,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	type jsonOutput struct {
		Check       bool                      `json:"check"`
		Files       []jsonResult              `json:"files"`
		Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	}

	payload := jsonOutput{Check: check, Files: make([]jsonResult, 0, len(results))}
	for _, res := range results {
		item := jsonResult{Path: res.Path, Changed: res.Changed, Cached: res.Cached}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		payload.Files = append(payload.Files, item)
	}
	if fs != nil {
		payload.Diagnostics = diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
