package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"gfontapi/internal/fontrun"
	"gfontapi/internal/pipeline"
	"gfontapi/internal/style"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func variantRows() [][]string {
	tokens := style.Tokens()
	rows := make([][]string, 0, len(tokens))
	for _, token := range tokens {
		tag, err := style.Resolve(token)
		if err != nil {
			continue
		}
		rows = append(rows, []string{token, tag.String(), string(tag.Slant), tag.CSSWeight()})
	}
	return rows
}

// renderRunSummary lists every variant in key order followed by the
// succeeded/total footer.
func renderRunSummary(summary *fontrun.Summary) string {
	if summary == nil || summary.Result == nil {
		return ""
	}
	result := summary.Result
	rows := make([][]string, 0, len(result.Units))
	for _, unit := range result.Units {
		rows = append(rows, unitRow(unit))
	}
	var b strings.Builder
	if len(rows) > 0 {
		b.WriteString(renderTable(
			[]string{"Variant", "Style", "Weight", "Outcome", "Downloaded", "Error"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
		))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Converted %d/%d fonts in %.2fs", len(result.Tags), result.Total, result.Elapsed.Seconds())
	if summary.StylesheetErr != nil {
		fmt.Fprintf(&b, " (fonts.css incomplete: %v)", summary.StylesheetErr)
	}
	return b.String()
}

func unitRow(unit pipeline.Unit) []string {
	name, weight := "-", "-"
	if unit.Tag.Name != "" {
		name = unit.Tag.String()
		weight = unit.Tag.CSSWeight()
	}
	size := "-"
	if unit.Bytes > 0 {
		size = humanize.Bytes(uint64(unit.Bytes))
	}
	detail := ""
	if unit.Err != nil {
		detail = unit.Err.Error()
	}
	return []string{unit.Key, name, weight, string(unit.Outcome), size, detail}
}
