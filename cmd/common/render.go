package common

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/heritagelab/ichcrawl/internal/pipeline"
)

// RenderOutcomes prints a gate outcome summary table for a run.
func RenderOutcomes(title string, stats *pipeline.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Outcome", "Count"})
	t.AppendRow(table.Row{"accepted", stats.Get(pipeline.OutcomeAccepted)})
	t.AppendRow(table.Row{"dup-url", stats.Get(pipeline.OutcomeDuplicateURL)})
	t.AppendRow(table.Row{"dup-content", stats.Get(pipeline.OutcomeDuplicateContent)})
	t.AppendRow(table.Row{"short", stats.Get(pipeline.OutcomeTooShort)})
	t.AppendRow(table.Row{"no-url", stats.Get(pipeline.OutcomeNoURL)})
	t.AppendFooter(table.Row{"total", stats.Total()})
	t.Render()
}
