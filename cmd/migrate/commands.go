package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/employee-directory/assets"
	"github.com/ogurasousui/employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/role"
	"github.com/ogurasousui/employee-directory/internal/core/seed"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	"github.com/ogurasousui/employee-directory/internal/platform/db/migration"
	pg "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
)

type options struct {
	configPath    string
	migrationsDir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the employee directory database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	root.PersistentFlags().StringVar(&opts.migrationsDir, "dir", "", "directory containing migration files (defaults to the embedded migrations)")

	root.AddCommand(
		migrationCmd(opts, "up", "Apply all pending migrations", (*migration.Migrator).Up),
		migrationCmd(opts, "down", "Revert all applied migrations", (*migration.Migrator).Down),
		migrationCmd(opts, "drop", "Drop every table in the database", (*migration.Migrator).Drop),
		versionCmd(opts),
		seedCmd(opts),
	)
	return root
}

func migrationCmd(opts *options, use, short string, run func(*migration.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			defer env.close()

			if err := run(env.migrator); err != nil {
				return fmt.Errorf("migration %s failed: %w", use, err)
			}
			env.log.Info().Str("action", use).Msg("migration completed")
			return nil
		},
	}
}

func versionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			defer env.close()

			version, dirty, applied, err := env.migrator.Version()
			if err != nil {
				return err
			}
			if !applied {
				fmt.Fprintln(cmd.OutOrStdout(), "no migration applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	}
}

func seedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the schema and load the demo data set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			defer env.close()

			ctx := cmd.Context()
			pool, err := pg.NewPool(ctx, env.cfg.Database, env.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			employeeRepo := postgres.NewEmployeeRepository(pool)
			svc := seed.NewService(seed.Dependencies{
				Schema:      env.migrator,
				Departments: department.NewService(postgres.NewDepartmentRepository(pool), nil),
				Roles:       role.NewService(postgres.NewRoleRepository(pool), nil),
				Employees:   employeeRepo,
				Memberships: postgres.NewMembershipRepository(pool),
				Tx:          pg.NewTransactionManager(pool),
			})

			result, err := svc.Seed(ctx)
			if err != nil {
				return err
			}
			env.log.Info().
				Int("departments", result.Departments).
				Int("roles", result.Roles).
				Int("employees", result.Employees).
				Msg("database seeded")
			return nil
		},
	}
}

type environment struct {
	cfg      *config.Config
	log      zerolog.Logger
	migrator *migration.Migrator
	closer   interface{ Close() error }
}

func (e *environment) close() {
	_ = e.closer.Close()
}

func (o *options) load() (*environment, error) {
	cfg, err := config.Load(effectiveConfigPath(o.configPath))
	if err != nil {
		return nil, err
	}

	l, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg:      cfg,
		log:      l,
		migrator: migration.New(migrationSource(o.migrationsDir), cfg.Database.DSN()),
		closer:   closer,
	}, nil
}

func migrationSource(dir string) migration.Source {
	if dir != "" {
		return migration.DirSource(dir)
	}
	return migration.EmbeddedSource(assets.Migrations, assets.MigrationsDir)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
