package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/parts-pile/carprice/estimator"
	"github.com/parts-pile/carprice/handlers"
	"github.com/parts-pile/carprice/listing"
	"github.com/parts-pile/carprice/ui"
)

var errNoEstimate = errors.New(handlers.MsgNoData)

func newEstimateCmd() *cobra.Command {
	var values ui.FormValues

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a price from the command line",
		Example: `  carprice estimate --year 2020 --make Toyota --model Camry
  carprice estimate --year 2020 --make Toyota --model Camry --mileage 30000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := handlers.ParseEstimateForm(values)
			if err != nil {
				return errors.New(handlers.MsgInvalidInput)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			res := estimator.New(a.store, a.logger).Estimate(cmd.Context(), filter)
			return renderEstimate(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&values.Year, "year", "", "model year")
	cmd.Flags().StringVar(&values.Make, "make", "", "make, e.g. Toyota")
	cmd.Flags().StringVar(&values.Model, "model", "", "model, e.g. Camry")
	cmd.Flags().StringVar(&values.Mileage, "mileage", "", "odometer reading (optional)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("make")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func renderEstimate(w io.Writer, res estimator.Result) error {
	switch res.Status {
	case estimator.StatusOK:
	case estimator.StatusUnavailable:
		return fmt.Errorf("%s: %w", handlers.MsgUnavailable, res.Err)
	default:
		return errNoEstimate
	}

	_, _ = fmt.Fprintf(w, "Estimated Price: %s\n", ui.FormatPrice(res.Price))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Year", "Make", "Model", "Mileage", "Price", "Location"})
	for _, l := range res.Listings {
		t.AppendRow(table.Row{l.Year, l.Make, l.Model, formatOptional(l.Mileage), formatPrice(l), l.Location})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d listings)\n", len(res.Listings))
	return nil
}

func formatOptional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatPrice(l listing.Listing) string {
	if l.Price == nil {
		return "-"
	}
	return ui.FormatPrice(*l.Price)
}
