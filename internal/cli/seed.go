package cli

import (
	"context"
	"fmt"

	"blogly/internal/database"
	"blogly/internal/repository"
	"blogly/internal/seed"
	"blogly/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	Clean        bool
	SkipFixture  bool
	Fake         int
	PostsPerUser int
	RandSeed     int64
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		Long: `Load the built-in demo users, posts and tags.

With --fake N, N additional random users are created, each with a few posts
tagged from the existing tags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rootOpts.withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				return runSeed(ctx, cmd, rootOpts, opts, db)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Clean, "clean", false, "delete all rows before seeding")
	cmd.Flags().BoolVar(&opts.SkipFixture, "no-fixture", false, "skip the built-in demo data")
	cmd.Flags().IntVar(&opts.Fake, "fake", 0, "number of random users to create")
	cmd.Flags().IntVar(&opts.PostsPerUser, "posts-per-user", 3, "maximum posts per random user")
	cmd.Flags().Int64Var(&opts.RandSeed, "rand-seed", 0, "seed for random data (0 picks one)")

	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, opts *SeedOptions, db *gorm.DB) error {
	if opts.Fake < 0 {
		return fmt.Errorf("--fake must not be negative")
	}

	if err := database.ApplySchema(ctx, db, rootOpts.cfg); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}

	if opts.Clean {
		if err := database.ResetData(ctx, db); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		rootOpts.verbosef(cmd, "existing data removed")
	}

	seeder := seed.NewSeeder(
		service.NewUserService(repository.NewUserRepository(db, nil), rootOpts.cfg.DefaultImageURL),
		service.NewPostService(repository.NewPostRepository(db, nil)),
		service.NewTagService(repository.NewTagRepository(db, nil)),
	)

	var total seed.Result
	if !opts.SkipFixture {
		fixture, err := seed.DefaultFixture()
		if err != nil {
			return err
		}
		res, err := seeder.Load(ctx, fixture)
		if err != nil {
			return fmt.Errorf("fixture seeding failed: %w", err)
		}
		rootOpts.verbosef(cmd, "fixture: %s", res)
		total = add(total, res)
	}

	if opts.Fake > 0 {
		res, err := seeder.Fake(ctx, seed.NewFactory(opts.RandSeed), opts.Fake, opts.PostsPerUser)
		if err != nil {
			return fmt.Errorf("fake seeding failed: %w", err)
		}
		rootOpts.verbosef(cmd, "fake: %s", res)
		total = add(total, res)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", total)
	return nil
}

func add(a, b seed.Result) seed.Result {
	return seed.Result{Users: a.Users + b.Users, Posts: a.Posts + b.Posts, Tags: a.Tags + b.Tags}
}
