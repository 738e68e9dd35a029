package main

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/notesapp/notes-server/internal/service"
)

func pagesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Manage public project pages",
	}
	cmd.AddCommand(pagesGenerateCmd(opts))
	return cmd
}

func pagesGenerateCmd(opts *globalOptions) *cobra.Command {
	var (
		all       bool
		missing   bool
		unpublish bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create pages for projects that do not have one",
		Long: `Create a page for every project without one. Slugs are derived from the
project name and made unique with a numeric suffix.

Examples:
  notesctl pages generate --missing
  notesctl pages generate --all --unpublish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && missing {
				return errors.New("--all and --missing are mutually exclusive")
			}
			mode := service.GenerateMissing
			if all {
				mode = service.GenerateAll
			}

			injector, closeFn, err := openContainer(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			pages := do.MustInvoke[*service.PageService](injector)
			result, err := pages.GeneratePages(cmd.Context(), service.GenerateOptions{
				Mode:        mode,
				Unpublished: unpublish,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range result.Pages {
				fmt.Fprintf(out, "created /project/%s\n", p.Slug)
			}
			fmt.Fprintf(out, "Created: %d, skipped: %d\n", result.Created, result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "visit every project")
	cmd.Flags().BoolVar(&missing, "missing", false, "visit only projects without a page (default)")
	cmd.Flags().BoolVar(&unpublish, "unpublish", false, "create the pages unpublished")

	return cmd
}
