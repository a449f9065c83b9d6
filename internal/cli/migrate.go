package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"blogly/internal/config"
	"blogly/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var errSQLMigrationsNeedPostgres = errors.New("sql migrations target postgres; use `blogctl migrate auto` for sqlite")

// NewMigrateCommand creates the migrate command and its subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rootOpts.cfg.DBDriver != config.DriverPostgres {
				return errSQLMigrationsNeedPostgres
			}
			return rootOpts.withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				if err := database.RunMigrations(ctx, db); err != nil {
					return fmt.Errorf("sql migrations failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sql migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [version]",
		Short: "Roll back one migration, the latest when no version is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.cfg.DBDriver != config.DriverPostgres {
				return errSQLMigrationsNeedPostgres
			}
			version := 0
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				version = v
			}
			return rootOpts.withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				if version == 0 {
					v, err := database.RollbackLatest(ctx, db)
					if err != nil {
						return fmt.Errorf("rollback failed: %w", err)
					}
					if v == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "no applied migrations")
						return nil
					}
					version = v
				} else if err := database.RollbackMigration(ctx, db, version); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back migration %06d\n", version)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "auto",
		Short: "Create or update tables from the models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *rootOpts.cfg
			cfg.DBSchemaMode = database.SchemaModeAuto
			return rootOpts.withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				if err := database.ApplySchema(ctx, db, &cfg); err != nil {
					return fmt.Errorf("auto schema apply failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "automigrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema mode and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rootOpts.withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				status, err := database.GetSchemaStatus(ctx, db, rootOpts.cfg)
				if err != nil {
					return fmt.Errorf("schema status failed: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "driver=%s mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
					status.Driver, status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
					len(status.AppliedVersions), len(status.PendingMigrations))
				for _, m := range status.PendingMigrations {
					fmt.Fprintf(out, "pending: %s\n", m.String())
				}
				return nil
			})
		},
	})

	return cmd
}
