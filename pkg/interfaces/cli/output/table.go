package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type table struct {
	title   string
	headers []string
	rows    [][]string
	footer  []string
}

func (t table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	return widths
}

func (t table) writeText(w io.Writer) error {
	widths := t.widths()
	line := func(cells []string) string {
		var sb strings.Builder
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%-*s", widths[i], cell)
		}
		return strings.TrimRight(sb.String(), " ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", t.title)
	fmt.Fprintf(&sb, "%s\n", strings.Repeat("=", utf8.RuneCountInString(t.title)))
	if len(t.rows) == 0 {
		sb.WriteString("(none)\n")
	} else {
		sb.WriteString(line(t.headers) + "\n")
		dashes := make([]string, len(widths))
		for i, n := range widths {
			dashes[i] = strings.Repeat("-", n)
		}
		sb.WriteString(line(dashes) + "\n")
		for _, row := range t.rows {
			sb.WriteString(line(row) + "\n")
		}
	}
	for _, f := range t.footer {
		sb.WriteString(f + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t table) writeCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
