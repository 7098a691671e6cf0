package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"harvester/internal/bing"
)

const maxNameWidth = 48

// renderResultTable renders image results as a rounded-border table.
func renderResultTable(images []bing.ImageMetadata) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Name", "Dimensions", "Size", "Format", "URL"})

	for i, img := range images {
		tw.AppendRow(table.Row{
			i + 1,
			truncate(img.Name, maxNameWidth),
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			formatContentSize(img.ContentSize),
			img.EncodingFormat,
			img.ContentURL,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func truncate(value string, width int) string {
	if width <= 3 || len(value) <= width {
		return value
	}
	return value[:width-3] + "..."
}

func formatContentSize(size *int64) string {
	if size == nil {
		return ""
	}
	v := *size
	switch {
	case v >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(v)/float64(1<<20))
	case v >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(v)/float64(1<<10))
	default:
		return strconv.FormatInt(v, 10) + " B"
	}
}
