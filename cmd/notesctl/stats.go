package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/notesapp/notes-server/internal/service"
)

func statsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project, note and tag counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector, closeFn, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := do.MustInvoke[*service.StatsService](injector).GetStats(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Projects\t%d\n", stats.TotalProjects)
			fmt.Fprintf(w, "Projects with notes\t%d\n", stats.ProjectsWithNotes)
			fmt.Fprintf(w, "Notes\t%d\n", stats.TotalNotes)
			fmt.Fprintf(w, "Tags\t%d\n", stats.TotalTags)
			fmt.Fprintf(w, "Flags\t%d\n", stats.TotalFlags)
			if len(stats.RecentSyncs) > 0 {
				fmt.Fprintln(w, "\nRecently synced\t")
				for _, r := range stats.RecentSyncs {
					fmt.Fprintf(w, "  %s\t%s\n", r.Title, r.UpdatedAt.Format(time.DateTime))
				}
			}
			return w.Flush()
		},
	}
}
