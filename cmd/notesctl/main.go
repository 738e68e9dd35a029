// Package main provides notesctl, an operator CLI for the notes server database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/di"
	"github.com/notesapp/notes-server/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dataPath string
	envFile  string
	verbose  bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "Maintenance commands for the notes server database",
		SilenceUsage:  true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "directory holding notes.db (default: DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to .env file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at info level")

	rootCmd.AddCommand(pagesCmd(opts))
	rootCmd.AddCommand(syncCmd(opts))
	rootCmd.AddCommand(statsCmd(opts))

	return rootCmd
}

// openContainer loads configuration the same way the server does, with the
// CLI flags taking precedence, and returns a container over it. Callers must
// call the returned close function.
func openContainer(opts *globalOptions) (*do.RootScope, func(), error) {
	args := []string{"-env-file", opts.envFile}
	if opts.dataPath != "" {
		args = append(args, "-data-path", opts.dataPath)
	}
	if opts.verbose {
		args = append(args, "-log-level", "info")
	} else {
		args = append(args, "-log-level", "warn")
	}

	cfg, err := config.Load(flag.NewFlagSet("notesctl", flag.ContinueOnError), args)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	injector := di.NewContainer(cfg)
	closeFn := func() {
		log, _ := do.Invoke[*logger.Logger](injector)
		if err := injector.Shutdown(); err != nil && log != nil {
			log.Debug("container shutdown", "report", err)
		}
		if log != nil {
			_ = log.Close()
		}
	}
	return injector, closeFn, nil
}
