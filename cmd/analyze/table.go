package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxCellWidth = 60

// newTable returns a writer preconfigured with the CLI's table style.
// Numeric columns are right-aligned by passing their 1-based indexes.
func newTable(headers table.Row, numericColumns ...int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(headers)

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{Number: i + 1, WidthMax: maxCellWidth}
	}
	for _, n := range numericColumns {
		if n >= 1 && n <= len(configs) {
			configs[n-1].Align = text.AlignRight
			configs[n-1].AlignHeader = text.AlignLeft
		}
	}
	tw.SetColumnConfigs(configs)
	return tw
}
