package main

import (
	"fmt"
	"time"

	"tidy-go/internal/classify"
	"tidy-go/internal/tidy"

	"github.com/dustin/go-humanize"
)

func printOrganizeResult(result *tidy.OrganizeResult) {
	verb := "Moved"
	if result.DryRun {
		verb = "Would move"
	}
	fmt.Printf("%s %d file(s) in %s\n", verb, result.Moved, result.Elapsed.Truncate(time.Millisecond))

	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d file(s):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Printf("  %s: %s\n", s.Path, s.Reason)
		}
	}
}

func printDuplicateReport(report *tidy.DuplicateReport) {
	if len(report.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}

	var wasted int64
	rows := make([][]string, 0, len(report.Groups))
	for _, g := range report.Groups {
		extra := int64(len(g.Paths)-1) * g.Size
		wasted += extra
		for i, p := range g.Paths {
			size := ""
			hash := ""
			if i == 0 {
				size = humanize.IBytes(uint64(g.Size))
				hash = g.Hash[:12]
			}
			rows = append(rows, []string{hash, size, p})
		}
	}

	fmt.Println(renderTable(
		[]string{"Hash", "Size", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	fmt.Printf("%d group(s), %s recoverable\n", len(report.Groups), humanize.IBytes(uint64(wasted)))

	for _, s := range report.Skipped {
		fmt.Printf("  skipped %s: %s\n", s.Path, s.Reason)
	}
}

func printLargeFiles(entries []tidy.FileEntry) {
	if len(entries) == 0 {
		fmt.Println("No files above the threshold.")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			humanize.IBytes(uint64(e.Size)),
			e.ModTime.Format("2006-01-02 15:04"),
			e.Path,
		})
	}
	fmt.Println(renderTable(
		[]string{"Size", "Modified", "Path"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}

func printSearchResults(entries []tidy.FileEntry) {
	if len(entries) == 0 {
		fmt.Println("No matching files.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%10s  %s\n", humanize.IBytes(uint64(e.Size)), e.Path)
	}
	fmt.Printf("%d file(s)\n", len(entries))
}

func printStats(stats *tidy.FolderStats) {
	fmt.Printf("Total: %d file(s), %s\n", stats.TotalFiles, humanize.IBytes(uint64(stats.TotalSize)))

	if len(stats.Breakdown) == 0 {
		return
	}
	rows := make([][]string, 0, len(stats.Breakdown))
	for _, c := range classify.Categories {
		if n, ok := stats.Breakdown[c]; ok {
			rows = append(rows, []string{string(c), fmt.Sprintf("%d", n)})
		}
	}
	fmt.Println(renderTable(
		[]string{"Category", "Files"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func printHistory(sessions []tidy.Session) {
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := ""
		if !s.FinishedAt.IsZero() {
			duration = s.FinishedAt.Sub(s.StartedAt).Truncate(time.Millisecond).String()
		}
		status := ""
		if s.Undone {
			status = "undone"
		}
		rows = append(rows, []string{
			s.StartedAt.Format("2006-01-02 15:04:05"),
			string(s.Kind),
			fmt.Sprintf("%d", s.Moved),
			fmt.Sprintf("%d", s.Skipped),
			duration,
			status,
			s.Root,
		})
	}
	fmt.Println(renderTable(
		[]string{"Started", "Kind", "Moved", "Skipped", "Duration", "Status", "Root"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	))
}
