package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/housebudget/internal/catalog"
	"github.com/alexanderramin/housebudget/internal/cli"
	"github.com/alexanderramin/housebudget/internal/config"
	"github.com/alexanderramin/housebudget/internal/db"
	"github.com/alexanderramin/housebudget/internal/repository"
	"github.com/alexanderramin/housebudget/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// HOUSEBUDGET_CONFIG points at an explicit config file; otherwise
	// ./housebudget.yaml and ~/.housebudget/ are searched.
	cfg, err := config.Load(os.Getenv(config.EnvPrefix+"_CONFIG"), ".env")
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	simRepo := repository.NewSQLiteSimulationRepo(database)
	dayRepo := repository.NewSQLiteDayRecordRepo(database)
	changeRepo := repository.NewSQLiteChangeRepo(database)
	resultRepo := repository.NewSQLiteResultRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewSlogUseCaseObserver(cfg.Logging.NewLogger(os.Stderr))

	// Wire services
	simSvc := service.NewSimulationService(simRepo, dayRepo, changeRepo, uow, cat, cfg.Simulation.Seed, observer)

	app := &cli.App{
		Simulations: simSvc,
		Results:     service.NewResultService(resultRepo),
		Import:      service.NewPlanImportService(simSvc, cat, observer),
		Catalog:     cat,
		Defaults: cli.PlanDefaults{
			Budget:   cfg.Simulation.DefaultBudget,
			Duration: cfg.Simulation.DefaultDuration,
		},
	}

	// Detect interactive terminal for the plan wizard and the play view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Load()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}
