package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"forma/internal/diag"
	"forma/internal/format"
	"forma/internal/jsonc"
	"forma/internal/project"
	"forma/internal/source"
	"forma/internal/testkit"
)

// CheckResult is the verdict for one file of CheckPaths.
type CheckResult struct {
	Path    string
	OK      bool
	Message string
}

// RunFmtCheck formats sf, re-parses the output and verifies that a second
// pass is a no-op and that every token and comment survived.
// It returns (ok, report string).
func RunFmtCheck(sf *source.File, opts format.Options) (success bool, msg string) {
	if ok, msg := format.CheckRoundTrip(sf, opts); !ok {
		return false, msg
	}
	first, _, err := format.FormatFile(sf, opts)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	fs2 := source.NewFileSet()
	out := fs2.Get(fs2.AddVirtual(sf.Path, []byte(first.Code)))
	if err := testkit.CheckContentPreserved(sf, out); err != nil {
		return false, "fmt-check: " + err.Error()
	}
	return true, "fmt-check: OK"
}

// CheckPaths runs RunFmtCheck over the files under paths, in parallel.
func CheckPaths(ctx context.Context, paths []string, cfg project.Config, maxDiagnostics, jobCount int) ([]CheckResult, error) {
	files, err := collectSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	fileSet := source.NewFileSet()
	inputs := make([]loaded, len(files))
	for i, path := range files {
		inputs[i] = load(fileSet, path)
	}

	results := make([]CheckResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(jobCount, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := CheckResult{Path: path}
			if in := inputs[i]; in.err != nil {
				res.Message = "fmt-check: " + in.err.Error()
			} else {
				res.OK, res.Message = RunFmtCheck(in.sf, format.Options{Config: cfg, MaxDiagnostics: maxDiagnostics})
			}
			results[i] = res
			return nil
		})
	}
	return results, g.Wait()
}

// verify re-parses formatted and reports what the properties found as
// FMT3005 diagnostics. Idempotence is only checked for whole files.
func verify(sf *source.File, formatted []byte, opts format.Options, whole bool, bag *diag.Bag) error {
	r := diag.BagReporter{Bag: bag}
	at := source.Span{File: sf.ID}

	fs2 := source.NewFileSet()
	out := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	res := jsonc.Parse(out, format.ParseOptions(out, opts.Config))
	if res.Errors > 0 {
		diag.ReportError(r, diag.FmtNotIdempotent, at, "formatted output does not parse").Emit()
		return fmt.Errorf("verify %s: output has %d syntax errors", sf.Path, res.Errors)
	}
	if err := testkit.CheckSpanInvariants(res.Doc, out); err != nil {
		diag.ReportError(r, diag.FmtNotIdempotent, at, err.Error()).Emit()
		return fmt.Errorf("verify %s: %w", sf.Path, err)
	}
	if err := testkit.CheckContentPreserved(sf, out); err != nil {
		diag.ReportError(r, diag.FmtNotIdempotent, at, err.Error()).Emit()
		return fmt.Errorf("verify %s: %w", sf.Path, err)
	}
	if !whole {
		return nil
	}
	opts.Tracer = nil
	again := func(code string) (string, error) {
		fs3 := source.NewFileSet()
		p, _, err := format.FormatFile(fs3.Get(fs3.AddVirtual(sf.Path, []byte(code))), opts)
		return p.Code, err
	}
	if err := testkit.CheckIdempotent(string(formatted), again); err != nil {
		diag.ReportError(r, diag.FmtNotIdempotent, at, "second formatting pass changed the output").Emit()
		return fmt.Errorf("verify %s: %w", sf.Path, err)
	}
	return nil
}
