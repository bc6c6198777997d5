package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/parts-pile/carprice/ingest"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Load the listings file into an empty database",
		Long: `Load the pipe-delimited listings file into the database.

Nothing is imported when the listings table already has rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			report, err := ingest.NewLoader(a.store, a.logger).Bootstrap(cmd.Context(), a.cfg.DataFile)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printReport(w io.Writer, r ingest.Report) {
	if r.Skipped {
		_, _ = fmt.Fprintf(w, "Database already has %s records. Skipping import.\n", humanize.Comma(r.Existing))
		return
	}
	_, _ = fmt.Fprintf(w, "%s records inserted in %s (%s rows read, %s skipped).\n",
		humanize.Comma(int64(r.Inserted)),
		r.Elapsed.Round(time.Millisecond),
		humanize.Comma(int64(r.Stats.Rows)),
		humanize.Comma(int64(r.Stats.Skipped)))
}
