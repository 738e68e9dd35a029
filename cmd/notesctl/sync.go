package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/notesapp/notes-server/internal/service"
)

func syncCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Analyzer sync operations",
	}
	cmd.AddCommand(syncImportCmd(opts))
	return cmd
}

func syncImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an analyzer batch file (JSON, or YAML by extension)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, closeFn, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			importer := do.MustInvoke[*service.ImportService](injector)
			result, err := importer.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, item := range result.Results {
				fmt.Fprintf(out, "synced  %s / %s (%d tags)\n", item.ProjectName, item.NoteTitle, item.TagsAttached)
			}
			for _, item := range result.Errors {
				fmt.Fprintf(out, "failed  #%d %s: %s\n", item.Index, item.Project, item.Error)
			}
			fmt.Fprintf(out, "Run %s: %d synced, %d failed\n", result.RunID, result.Synced(), result.FailedCount())

			if !result.OK() {
				return fmt.Errorf("%d of %d projects failed to sync", result.FailedCount(), result.Synced()+result.FailedCount())
			}
			return nil
		},
	}
}
