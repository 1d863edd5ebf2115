package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/modelsync/pkg/engine"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
)

var summaryHeader = []string{"PROVIDER", "STATUS", "DISCOVERED", "PREFERRED", "SOURCE"}

// renderSummary formats one row per provider of the written document.
func renderSummary(out engine.Outcome) string {
	rows := summaryRows(out)

	widths := make([]int, len(summaryHeader))
	for _, row := range append([][]string{summaryHeader}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(joinRow(summaryHeader, widths)))
	sb.WriteByte('\n')

	for _, row := range rows {
		line := joinRow(row, widths)
		if row[len(row)-1] != "live" {
			line = fallbackStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if out.Status == engine.Fallback {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("fallback document written: %v", out.Err)))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func summaryRows(out engine.Outcome) [][]string {
	if out.Status == engine.Fallback {
		rows := make([][]string, 0, len(out.Document.Providers))
		for _, p := range out.Document.Providers {
			rows = append(rows, []string{p.Name, "-", "-", strconv.Itoa(len(p.Config.Prefer)), "static"})
		}
		return rows
	}

	rows := make([][]string, 0, len(out.Reports))
	for _, r := range out.Reports {
		source := "live"
		if r.UsedFallback {
			source = "fallback"
		}

		rows = append(rows, []string{
			r.Provider,
			string(r.Status),
			strconv.Itoa(len(r.Models)),
			strconv.Itoa(r.Preferred),
			source,
		})
	}

	return rows
}

// joinRow pads every cell but the last to its column width.
func joinRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		if i == len(cells)-1 {
			padded[i] = c
			continue
		}
		padded[i] = runewidth.FillRight(c, widths[i])
	}
	return strings.Join(padded, "  ")
}
