package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"forma/internal/driver"
	"forma/internal/source"
	"forma/internal/ui"
)

type formatOutcome struct {
	fileSet *source.FileSet
	results []driver.FormatResult
	err     error
}

// runFormatWithUI runs FormatPaths while a progress model renders its
// events.
func runFormatWithUI(ctx context.Context, title string, files []string, paths []string, opts driver.FormatOptions) (*source.FileSet, []driver.FormatResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = driver.ChannelSink{Ch: events}
		fs, res, err := driver.FormatPaths(ctx, paths, optsCopy)
		outcomeCh <- formatOutcome{fileSet: fs, results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
