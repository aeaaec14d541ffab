package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTable returns a writer that keeps header labels as-is instead of
// upper-casing them
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Header = text.FormatDefault
	return t
}

// RenderTables writes the overall and per-party summaries as markdown
// tables
func RenderTables(w io.Writer, rep Report) {
	overall := newTable(w)
	overall.AppendHeader(table.Row{
		"political_ancestor_percentage",
		"political_relations_percentage",
		"mps",
	})
	overall.AppendRow(table.Row{
		formatPct(rep.Overall.AncestorPct),
		formatPct(rep.Overall.RelationsPct),
		rep.Overall.Count,
	})
	overall.RenderMarkdown()

	fmt.Fprintln(w)

	byParty := newTable(w)
	byParty.AppendHeader(table.Row{
		"party",
		"political_ancestor_percentage",
		"political_relations_percentage",
		"mps",
	})
	for _, row := range rep.ByParty {
		byParty.AppendRow(table.Row{
			row.Party,
			formatPct(row.AncestorPct),
			formatPct(row.RelationsPct),
			row.Count,
		})
	}
	byParty.RenderMarkdown()
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
