package pipeline

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/oshokin/azan-release/internal/domain/release"
)

// RenderArtifacts writes a table of produced artifacts.
func RenderArtifacts(w io.Writer, artifacts []release.Artifact) error {
	tbl := newTable(w)
	tbl.Header([]string{"Kind", "Path", "Produced By"})

	data := make([][]any, 0, len(artifacts))
	for _, a := range artifacts {
		data = append(data, []any{string(a.Kind), a.Path, a.ProducedBy()})
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}

	return tbl.Render()
}

// RenderTargets writes a table of build targets.
func RenderTargets(w io.Writer, targets []release.BuildTarget) error {
	tbl := newTable(w)
	tbl.Header([]string{"Platform", "Class", "Triple", "Mode"})

	data := make([][]any, 0, len(targets))
	for _, t := range targets {
		data = append(data, []any{string(t.Platform), string(t.Class), t.Triple, string(t.Mode)})
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}

	return tbl.Render()
}

// newTable renders the inner grid only, without an outer frame.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(
		w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Separators: tw.Separators{BetweenColumns: tw.On, BetweenRows: tw.Off}},
		})),
	)
}
