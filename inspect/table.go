package inspect

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Fprint writes entries to w as a table.
func Fprint(w io.Writer, entries []Entry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Dependency recipes")
	tw.AppendHeader(table.Row{"Type", "Constructor", "Params", "Cache", "Lifecycle"})

	for _, e := range entries {
		cache := "-"
		switch {
		case e.Cached:
			cache = "built"
		case e.Cache:
			cache = "pending"
		}
		tw.AppendRow(table.Row{
			e.Type,
			e.Constructor,
			formatParams(e.Params),
			cache,
			strings.Join(append(append([]string(nil), e.Attrs...), e.Calls...), "\n"),
		})
	}

	tw.AppendFooter(table.Row{"", "", "", "Total", len(entries)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignCenter},
	})
	tw.Render()
}

func formatParams(params []Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		source := p.Source
		if source == "" {
			source = "unresolved"
		}
		parts = append(parts, p.Name+" "+p.Type+" <"+source+">")
	}
	return strings.Join(parts, "\n")
}
