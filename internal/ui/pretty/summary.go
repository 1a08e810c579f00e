package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/texviz/pkg/runner"
	"github.com/yaklabco/texviz/pkg/texast"
)

const (
	summaryDividerWidth = 40
	summaryTopKinds     = 5
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files failed (1 parse failure, 1 unreadable) of 5 checked".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := stats.FilesParsed + stats.FilesFailed + stats.FilesErrored

	if stats.FilesFailed == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("All files parsed") +
			s.Dim.Render(fmt.Sprintf(" (%d %s, %d nodes)", checked, plural(checked, "file", "files"), stats.Nodes)) + "\n"
	}

	failed := stats.FilesFailed + stats.FilesErrored

	var reasons []string
	if stats.FilesFailed > 0 {
		reasons = append(reasons, s.Error.Render(fmt.Sprintf("%d parse %s",
			stats.FilesFailed, plural(stats.FilesFailed, "failure", "failures"))))
	}
	if stats.FilesErrored > 0 {
		reasons = append(reasons, s.Warning.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return fmt.Sprintf("%d %s failed (%s) of %d checked\n",
		failed, plural(failed, "file", "files"), strings.Join(reasons, ", "), checked)
}

// FormatSummary formats run statistics as a summary block, including the
// most frequent node kinds.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " + s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files parsed:      " + s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)) + "\n")
	if stats.FilesFailed > 0 {
		builder.WriteString("  Parse failures:    " + s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Unreadable:        " + s.Warning.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	builder.WriteString("  Nodes:             " + s.SummaryValue.Render(strconv.Itoa(stats.Nodes)) + "\n")

	for _, entry := range topKinds(stats.NodesByKind, summaryTopKinds) {
		fmt.Fprintf(&builder, "    %-17s  %s\n", entry.kind+":", s.Dim.Render(strconv.Itoa(entry.count)))
	}

	builder.WriteString("\n")
	if stats.FilesFailed > 0 || stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Check failed"))
	} else {
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

type kindCount struct {
	kind  string
	count int
}

// topKinds returns the n most frequent kinds, ties broken by name.
func topKinds(byKind map[string]int, n int) []kindCount {
	entries := make([]kindCount, 0, len(byKind))
	for kind, count := range byKind {
		entries = append(entries, kindCount{kind: kind, count: count})
	}
	slices.SortFunc(entries, func(a, b kindCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.kind, b.kind)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// FormatRelations renders how an edit classified the nodes of a tree.
func (s *Styles) FormatRelations(report texast.EditReport) string {
	return fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
		s.Dim.Render("before"), report.Before,
		s.Edited.Render("within"), report.Within,
		s.Warning.Render("across"), report.Across,
		s.Dim.Render("after"), report.After,
	)
}
