package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Box interface {
	AppendRow(row ...any)
	Render() error
}

func newBox(cmd *cobra.Command, header ...string) Box {
	format, _ := cmd.Flags().GetString("format")
	style, _ := cmd.Flags().GetString("box-style")
	b := &boxEnc{
		w:      table.NewWriter(),
		format: strings.ToLower(format),
		header: header,
		out:    cmd.OutOrStdout(),
	}
	b.w.SetOutputMirror(b.out)

	s := table.StyleDefault
	switch style {
	case "bold":
		s = table.StyleBold
	case "double":
		s = table.StyleDouble
	case "light":
		s = table.StyleLight
	case "round":
		s = table.StyleRounded
	}
	b.w.SetStyle(s)

	vs := make(table.Row, len(header))
	for i, h := range header {
		vs[i] = h
	}
	b.w.AppendHeader(vs)
	return b
}

type boxEnc struct {
	w      table.Writer
	format string
	header []string
	rows   [][]any
	out    io.Writer
}

func (b *boxEnc) AppendRow(row ...any) {
	cells := make(table.Row, len(row))
	for i, v := range row {
		if f, ok := v.(float64); ok {
			cells[i] = strconv.FormatFloat(f, 'f', -1, 64)
			if math.IsInf(f, 0) || math.IsNaN(f) {
				row[i] = cells[i]
			}
		} else {
			cells[i] = v
		}
	}
	b.rows = append(b.rows, row)
	b.w.AppendRow(cells)
}

func (b *boxEnc) Render() error {
	switch b.format {
	case "", "box":
		b.w.Render()
	case "csv":
		b.w.RenderCSV()
	case "md", "markdown":
		b.w.RenderMarkdown()
	case "json":
		recs := make([]map[string]any, len(b.rows))
		for i, row := range b.rows {
			rec := make(map[string]any, len(b.header))
			for j, h := range b.header {
				if j < len(row) {
					rec[h] = row[j]
				}
			}
			recs[i] = rec
		}
		enc := json.NewEncoder(b.out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	default:
		return fmt.Errorf("unknown format %q", b.format)
	}
	return nil
}
