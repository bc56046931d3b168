package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"forma/internal/diag"
	"forma/internal/format"
	"forma/internal/observ"
	"forma/internal/printer"
	"forma/internal/project"
	"forma/internal/source"
	"forma/internal/trace"
)

// ErrNoFiles is returned when the paths yield nothing to format.
var ErrNoFiles = errors.New("format: no .json or .jsonc files found")

// FormatOptions configures code formatting.
type FormatOptions struct {
	// Check leaves files untouched; Changed tells whether they would change.
	Check bool
	// Stdout returns formatted content without touching files on disk.
	Stdout bool
	// Verify re-parses every output and checks content and idempotence.
	Verify bool

	MaxDiagnostics int
	// Jobs bounds parallel files; zero means GOMAXPROCS.
	Jobs   int
	Config project.Config

	// Range restricts formatting to the node covering these offsets; valid
	// only with exactly one file.
	Range *source.Span

	Cache *Cache
	Sink  ProgressSink
	Timer *observ.Timer
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path    string
	File    source.FileID
	Changed bool
	// Cached is set when the cache proved the file formatted.
	Cached bool
	Err    error
	// Original is the file as read; Formatted what it formats to. Both are
	// filled in check and stdout modes.
	Original  []byte
	Formatted []byte
	Bag       *diag.Bag
}

type loaded struct {
	raw []byte
	sf  *source.File
	err error
}

// FormatPaths formats provided files or directories (recursively collecting
// .json and .jsonc files). Diagnostics in the results resolve against the
// returned FileSet.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) (*source.FileSet, []FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	idx := timer.Begin("collect")
	files, err := collectSourceFiles(ctx, paths)
	timer.End(idx, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	if opts.Range != nil && len(files) != 1 {
		return nil, nil, fmt.Errorf("format: --range needs exactly one file, got %d", len(files))
	}

	// FileSet не потокобезопасен: читаем всё заранее, последовательно
	idx = timer.Begin("read")
	fileSet := source.NewFileSet()
	inputs := make([]loaded, len(files))
	for i, path := range files {
		emit(opts.Sink, Event{File: path, Stage: StageRead, Status: StatusQueued})
		inputs[i] = load(fileSet, path)
	}
	timer.End(idx, "")

	idx = timer.Begin("format")
	results, err := formatAll(ctx, files, inputs, opts)
	timer.End(idx, fmt.Sprintf("jobs=%d", jobs(opts.Jobs, len(files))))
	return fileSet, results, err
}

func load(fs *source.FileSet, path string) loaded {
	// #nosec G304 -- path comes from the command line or a directory walk
	raw, err := os.ReadFile(path)
	if err != nil {
		return loaded{err: err}
	}
	content, flags, err := source.Normalize(raw)
	if err != nil {
		sf := fs.Get(fs.Add(path, raw, 0))
		return loaded{raw: raw, sf: sf, err: err}
	}
	return loaded{raw: raw, sf: fs.Get(fs.Add(path, content, flags))}
}

func jobs(n, files int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(min(n, files), 1)
}

func formatAll(ctx context.Context, files []string, inputs []loaded, opts FormatOptions) ([]FormatResult, error) {
	tr := trace.FromContext(ctx)
	run := trace.Begin(tr, trace.ScopeDriver, "fmt", 0)
	defer run.End(fmt.Sprintf("files=%d", len(files)))

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(opts.Jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sp := trace.Begin(tr, trace.ScopeFile, path, run.ID())
			results[i] = formatOne(path, inputs[i], opts, tr, sp.ID())
			sp.End(resultDetail(&results[i]))
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func resultDetail(r *FormatResult) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Cached:
		return "cached"
	case r.Changed:
		return "changed"
	}
	return "unchanged"
}

func formatOne(path string, in loaded, opts FormatOptions, tr trace.Tracer, parent uint64) FormatResult {
	start := time.Now()
	result := FormatResult{Path: path, Original: in.raw, Bag: diag.NewBag(1)}
	fail := func(stage Stage, err error) FormatResult {
		result.Err = err
		emit(opts.Sink, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return result
	}

	if in.sf == nil {
		return fail(StageRead, in.err)
	}
	result.File = in.sf.ID
	if in.err != nil {
		diag.ReportError(diag.BagReporter{Bag: result.Bag}, diag.IODecodeFailed, source.Span{File: in.sf.ID}, "cannot decode file: "+in.err.Error()).Emit()
		return fail(StageRead, fmt.Errorf("read %s: %w", path, in.err))
	}
	emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: StatusWorking})

	useCache := opts.Cache != nil && opts.Range == nil && !opts.Verify
	var key project.Digest
	if useCache {
		key = CacheKey(in.raw, opts.Config)
		var entry CacheEntry
		if hit, err := opts.Cache.Get(key, &entry); err == nil && hit {
			result.Cached = true
			result.Formatted = in.raw
			emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: StatusCached, Elapsed: time.Since(start)})
			return result
		}
	}

	fopts := format.Options{
		Config:         opts.Config,
		MaxDiagnostics: opts.MaxDiagnostics,
		Tracer:         tr,
		Parent:         parent,
		Timer:          opts.Timer,
	}
	var (
		out printer.Printed
		err error
	)
	if opts.Range != nil {
		out, result.Bag, err = format.FormatRange(in.sf, *opts.Range, fopts)
	} else {
		out, result.Bag, err = format.FormatFile(in.sf, fopts)
	}
	if err != nil {
		return fail(StageFormat, err)
	}

	var formatted []byte
	if opts.Range != nil {
		formatted = splice(in.sf, out)
	} else {
		formatted = append(utf8BOM(in.sf), out.Code...)
	}
	result.Formatted = formatted
	result.Changed = !bytes.Equal(in.raw, formatted)

	if opts.Verify {
		emit(opts.Sink, Event{File: path, Stage: StageCheck, Status: StatusWorking})
		if err := verify(in.sf, formatted, fopts, opts.Range == nil, result.Bag); err != nil {
			return fail(StageCheck, err)
		}
	}

	if useCache && !result.Changed && !result.Bag.HasErrors() {
		if err := opts.Cache.Put(key, &CacheEntry{Path: path, Size: len(in.raw), Stored: time.Now()}); err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: result.Bag}, diag.IOCacheFailed, source.Span{File: in.sf.ID}, "cannot update format cache: "+err.Error()).Emit()
		}
	}

	if !opts.Check && !opts.Stdout {
		if result.Changed {
			emit(opts.Sink, Event{File: path, Stage: StageWrite, Status: StatusWorking})
			if err := writeBack(path, formatted); err != nil {
				diag.ReportError(diag.BagReporter{Bag: result.Bag}, diag.IOWriteFailed, source.Span{File: in.sf.ID}, err.Error()).Emit()
				return fail(StageWrite, err)
			}
		}
		result.Original = nil
		result.Formatted = nil
	}

	emit(opts.Sink, Event{File: path, Stage: StageFormat, Status: StatusDone, Changed: result.Changed, Elapsed: time.Since(start)})
	return result
}

// writeBack replaces the file keeping its permissions.
func writeBack(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// utf8BOM returns the byte order mark to write back: a UTF-8 BOM survives
// formatting, UTF-16 input is written as plain UTF-8.
func utf8BOM(sf *source.File) []byte {
	if sf.Flags&source.FileHadBOM != 0 && sf.Flags&source.FileDecodedUTF16 == 0 {
		return []byte("\xEF\xBB\xBF")
	}
	return nil
}

// splice puts a formatted range back into the file. Line endings of the
// untouched text are restored when the file used CRLF.
func splice(sf *source.File, out printer.Printed) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM(sf))
	restore := func(b []byte) []byte {
		if sf.Flags&source.FileNormalizedCRLF == 0 {
			return b
		}
		return bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))
	}
	buf.Write(restore(sf.Content[:out.Range.Start]))
	buf.WriteString(out.Code)
	buf.Write(restore(sf.Content[out.Range.End:]))
	return buf.Bytes()
}
