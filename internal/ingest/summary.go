package ingest

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
)

// RenderReport writes r to w as a two-column table.
func RenderReport(w io.Writer, r Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("warc-ingestor run")

	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Mode", r.Mode},
		{"Budget", int(r.Budget)},
		{"Duration", r.Duration.String()},
	})
	if r.Mode == domain.ModeFetch {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Resume cursor", r.ResumeCursor},
			{"Records seen", r.RecordsSeen},
			{"Records skipped", r.RecordsSkipped},
			{"Records accepted", r.RecordsAccepted},
			{"Remaining", r.Remaining},
			{"Metadata failures", r.MetadataFailures},
			{"Content failures", r.ContentFailures},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Synced", r.Sync.Indexed},
			{"Sync failures", r.Sync.Failed},
			{"Sync aborted", r.Sync.Aborted},
		})
	}

	t.Render()
}
