package main

import (
	"os"

	"tidy-go/internal/tidy"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressObserver renders a progress bar while an organize pass runs.
// Falls back to silence when stdout is not a terminal, so piped output
// stays clean.
type progressObserver struct {
	bar    *progressbar.ProgressBar
	dryRun bool
}

func newProgressObserver(dryRun bool) tidy.Observer {
	if !stdoutIsTerminal() {
		return tidy.NopObserver{}
	}
	return &progressObserver{dryRun: dryRun}
}

func (o *progressObserver) OnEvent(e tidy.Event) {
	switch e.Type {
	case tidy.EventScanStarted:
		desc := "Organizing"
		if o.dryRun {
			desc = "Scanning (dry run)"
		}
		o.bar = progressbar.Default(int64(e.Total), desc)
	case tidy.EventFileProcessed, tidy.EventFileSkipped:
		if o.bar != nil {
			_ = o.bar.Set(e.Index)
		}
	case tidy.EventScanCompleted:
		if o.bar != nil {
			_ = o.bar.Finish()
		}
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
