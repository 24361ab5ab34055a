package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// checkState is the outcome shown beside one report line.
type checkState int

const (
	stateInfo checkState = iota
	statePass
	stateWarn
	stateFail
)

func (s checkState) glyph() string {
	switch s {
	case statePass:
		return "✓"
	case stateWarn:
		return "!"
	case stateFail:
		return "✗"
	default:
		return "·"
	}
}

func (s checkState) label() string {
	switch s {
	case statePass:
		return "ok"
	case stateWarn:
		return "warn"
	case stateFail:
		return "fail"
	default:
		return "info"
	}
}

func (s checkState) color() text.Color {
	switch s {
	case statePass:
		return text.FgGreen
	case stateWarn:
		return text.FgYellow
	case stateFail:
		return text.FgRed
	default:
		return text.FgHiBlack
	}
}

type reportLine struct {
	label  string
	state  checkState
	detail string
}

type reportSection struct {
	title string
	lines []reportLine
}

const reportLabelWidth = 16

// writeReport prints sections as glyph-prefixed aligned lines.
func writeReport(w io.Writer, sections []reportSection, colorize bool) {
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := section.title
		if colorize {
			title = text.Bold.Sprint(title)
		}
		fmt.Fprintln(w, title)
		for _, line := range section.lines {
			fmt.Fprintln(w, formatReportLine(line, colorize))
		}
	}
}

func formatReportLine(line reportLine, colorize bool) string {
	glyph := line.state.glyph()
	if colorize {
		glyph = line.state.color().Sprint(glyph)
	}
	if line.detail == "" {
		return fmt.Sprintf("  %s %s", glyph, line.label)
	}
	return fmt.Sprintf("  %s %-*s %s", glyph, reportLabelWidth, line.label, line.detail)
}

// reportTable flattens sections into one table with a section column.
func reportTable(sections []reportSection) string {
	var rows [][]string
	for _, section := range sections {
		for _, line := range section.lines {
			rows = append(rows, []string{section.title, line.label, line.state.label(), line.detail})
		}
	}
	return renderTable([]string{"Section", "Check", "Status", "Detail"}, rows)
}

// renderTable draws rows under headers; short rows are padded and the last
// column wraps.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: len(headers), WidthMax: 60}})
	return tw.Render()
}

// shouldColorize reports whether w is a terminal and NO_COLOR is unset.
func shouldColorize(w io.Writer) bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
