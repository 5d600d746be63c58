package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/mapharvest/internal/entrypoint"
	"github.com/mrlokans/mapharvest/internal/harvester"
)

func newHarvestCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "harvest [etl names...]",
		Short: "Harvest the given ETLs, or every discovered ETL, in the foreground.",
		Example: `  mapharvest harvest
  mapharvest harvest Living-Atlas_EsriHarvester --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := entrypoint.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := app.Discover(ctx); err != nil {
				return err
			}

			var results []harvester.Result
			var runErr error
			if len(args) == 0 {
				results, runErr = app.Harvester.RunAll(ctx, force)
			} else {
				var errs []error
				for _, name := range args {
					result, err := app.Harvester.Run(ctx, name, force)
					if result != nil {
						results = append(results, *result)
					}
					if err != nil {
						errs = append(errs, fmt.Errorf("%s: %w", name, err))
					}
				}
				runErr = errors.Join(errs...)
			}

			renderResults(cmd.OutOrStdout(), results)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "harvest even when a group is unchanged since the last run")
	return cmd
}

func renderResults(w io.Writer, results []harvester.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ETL", "Total", "Harvested", "Malformed", "Skipped", "Duration"})

	var harvested int
	for _, r := range results {
		t.AppendRow(table.Row{r.ETLName, r.Total, r.Harvested, r.Malformed, r.Skipped, r.Duration.Round(time.Millisecond)})
		harvested += r.Harvested
	}
	t.AppendFooter(table.Row{"", "", harvested, "", "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
