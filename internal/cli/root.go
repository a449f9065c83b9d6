// Package cli implements the blogctl administration commands.
package cli

import (
	"context"
	"fmt"

	"blogly/internal/config"
	"blogly/internal/database"
	"blogly/internal/middleware"
	"blogly/internal/observability"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags and the loaded configuration shared by all commands.
type RootOptions struct {
	Verbose bool

	cfg *config.Config
}

// NewRootCommand creates the root command for blogctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Blogly administration",
		Long:  "Schema migrations and demo data for the Blogly API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg

			logger := middleware.ConfigureLogger(cfg.Env, cfg.LogFile)
			observability.SetLogger(logger)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// withDB opens the configured database, runs fn and closes the connection.
func (o *RootOptions) withDB(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	db, err := database.Connect(o.cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()
	return fn(ctx, db)
}

func (o *RootOptions) verbosef(cmd *cobra.Command, format string, args ...any) {
	if o.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
