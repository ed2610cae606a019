package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	tracering "github.com/edgerelay/go-trace-ring"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))

	statusClient = color.New(color.FgYellow)
	statusServer = color.New(color.FgRed)
	slowLatency  = color.New(color.FgYellow, color.Bold)
	mutedText    = color.New(color.Faint)
)

// renderTable lays the table out as plain text first, then styles whole
// lines. tabwriter counts every byte as printable, so escape sequences
// must never reach the cells themselves or the columns drift.
func renderTable(w io.Writer, header []string, rows [][]string, rowColor func(row int) *color.Color) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintln(w, headerStyle.Render(line))
			continue
		}
		if rowColor != nil {
			if c := rowColor(i - 1); c != nil {
				fmt.Fprintln(w, c.Sprint(line))
				continue
			}
		}
		fmt.Fprintln(w, line)
	}
}

// renderRecords prints records as a table, newest first. newest is the
// largest monotonic timestamp in view and anchors the AGE column.
func renderRecords(w io.Writer, title string, recs []tracering.TraceRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "no records")
		return
	}

	newest := recs[0].Timestamp()
	for _, r := range recs {
		if ts := r.Timestamp(); ts > newest {
			newest = ts
		}
	}

	rows := make([][]string, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		rows = append(rows, []string{
			formatAge(newest, r.Timestamp()),
			fmt.Sprintf("%d", r.RequestID()),
			r.Method().String(),
			fmt.Sprintf("%d", r.Status()),
			formatLatency(r.LatencyUS()),
			formatLatency(r.UpstreamLatencyUS()),
			fmt.Sprintf("%d", r.BytesIn()),
			fmt.Sprintf("%d", r.BytesOut()),
			displayPath(r),
		})
	}

	fmt.Fprintln(w, titleStyle.Render(title))
	header := []string{"AGE", "ID", "METHOD", "STATUS", "LATENCY", "UPSTREAM", "IN", "OUT", "PATH"}
	renderTable(w, header, rows, func(row int) *color.Color {
		return recordColor(&recs[row])
	})
}

// recordColor picks the row highlight: server errors beat client errors
// beat slow requests; healthy traffic stays unstyled.
func recordColor(r *tracering.TraceRecord) *color.Color {
	switch {
	case r.Status() >= 500:
		return statusServer
	case r.Status() >= 400:
		return statusClient
	case r.IsSlow(1000):
		return slowLatency
	default:
		return nil
	}
}

// displayPath falls back to the raw stored bytes when truncation cut a
// multi-byte character and Path decodes to nothing.
func displayPath(r *tracering.TraceRecord) string {
	if p := r.Path(); p != "" || r.PathLen() == 0 {
		return p
	}
	return fmt.Sprintf("%q (broken utf-8)", r.TruncatedPathBytes())
}

func formatLatency(us uint32) string {
	d := time.Duration(us) * time.Microsecond
	return d.Round(10 * time.Microsecond).String()
}

// formatAge renders how long before the newest visible record this one
// happened. Timestamps are monotonic and machine-local, so only the
// difference carries meaning.
func formatAge(newest, ts uint64) string {
	if ts == 0 || ts > newest {
		return "?"
	}
	d := time.Duration(newest - ts)
	switch {
	case d == 0:
		return "now"
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Minute:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// parseMethods turns a comma-separated --method value into enum values.
func parseMethods(s string) []tracering.Method {
	if s == "" {
		return nil
	}
	var out []tracering.Method
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, tracering.MethodFromString(part))
	}
	return out
}
