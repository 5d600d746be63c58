package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/mapharvest/internal/entities"
	"github.com/mrlokans/mapharvest/internal/entrypoint"
	"github.com/mrlokans/mapharvest/internal/etl"
)

func newETLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "etls",
		Short: "Discover the portal groups and print one row per ETL with its last harvest.",
		Args:  cobra.NoArgs,
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
			states, err := app.States.List()
			if err != nil {
				return err
			}

			renderETLs(cmd.OutOrStdout(), app.Harvester.ETLs(), states)
			return nil
		},
	}
}

func renderETLs(w io.Writer, etls []*etl.ETL, states []entities.HarvestState) {
	byName := make(map[string]entities.HarvestState, len(states))
	for _, s := range states {
		byName[s.ETLName] = s
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ETL", "Portal", "Group", "Status", "Documents", "Last completed"})
	for _, e := range etls {
		status, processed, completed := "never", "", ""
		if s, ok := byName[e.Name]; ok {
			status = string(s.Status)
			processed = strconv.Itoa(s.Processed)
			if s.CompletedAt != nil {
				completed = s.CompletedAt.Local().Format(time.DateTime)
			}
		}
		t.AppendRow(table.Row{e.Name, e.BaseURL, e.GroupID, status, processed, completed})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
