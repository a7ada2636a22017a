package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ogurasousui/employee-directory/assets"
	"github.com/ogurasousui/employee-directory/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-directory/internal/core/department"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/core/role"
	"github.com/ogurasousui/employee-directory/internal/core/seed"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	"github.com/ogurasousui/employee-directory/internal/platform/db/migration"
	pg "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-directory/internal/platform/logger"
	"github.com/ogurasousui/employee-directory/internal/platform/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLog, closer, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closer.Close()

	migrator := migration.New(migration.EmbeddedSource(assets.Migrations, assets.MigrationsDir), cfg.Database.DSN())
	if err := migrator.Up(); err != nil {
		appLog.Fatal().Err(err).Msg("failed to apply migrations")
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, appLog)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer dbPool.Close()

	tx := pg.NewTransactionManager(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	membershipRepo := postgres.NewMembershipRepository(dbPool)
	departmentRepo := postgres.NewDepartmentRepository(dbPool)
	roleRepo := postgres.NewRoleRepository(dbPool)

	employeeSvc := employee.NewService(employee.Dependencies{
		Employees:   employeeRepo,
		Memberships: membershipRepo,
		Departments: departmentRepo,
		Roles:       roleRepo,
		Tx:          tx,
	})
	departmentSvc := department.NewService(departmentRepo, nil)
	roleSvc := role.NewService(roleRepo, nil)
	seedSvc := seed.NewService(seed.Dependencies{
		Schema:      migrator,
		Departments: departmentSvc,
		Roles:       roleSvc,
		Employees:   employeeRepo,
		Memberships: membershipRepo,
		Tx:          tx,
	})

	e := handler.NewEcho(appLog, handler.Handlers{
		Employees: handler.NewEmployeeHandler(employeeSvc),
		Directory: handler.NewDirectoryHandler(departmentSvc, roleSvc),
		Seed:      handler.NewSeedHandler(seedSvc, appLog),
	})

	srv := server.New(cfg.Server, e, appLog)
	if err := srv.Run(ctx); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped with error")
	}
	appLog.Info().Msg("server stopped")
}
