// Package bootstrap builds the storage, cache and services shared by the
// server, the scheduler and the CLI.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/segyhp/fund-ledger/internal/cache"
	"github.com/segyhp/fund-ledger/internal/config"
	"github.com/segyhp/fund-ledger/internal/repository"
	"github.com/segyhp/fund-ledger/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger

	// DB and Redis are nil unless enabled
	DB    *sqlx.DB
	Redis *redis.Client

	Advances     *service.AdvanceService
	ARCodes      *service.ARCodeService
	Incomes      *service.IncomeService
	Expenditures *service.ExpenditureService
	Reports      *service.ReportService
	Catalog      *service.SpendCatalog
}

// New opens the configured backends and wires every service.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	tables := repository.NewTableCache()
	book := func(name string) *repository.Workbook {
		return repository.NewWorkbook(cfg.Path(name), tables)
	}

	var advances repository.AdvanceRepository
	if cfg.UsesPostgresLedger() {
		db, err := initDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.DB = db
		advances = repository.NewAdvancePostgresRepository(db)
		logger.Info("advance ledger backend", "backend", config.LedgerBackendPostgres)
	} else {
		advances = repository.NewAdvanceFileRepository(book(cfg.Storage.AdvanceFile))
		logger.Info("advance ledger backend", "backend", config.LedgerBackendFile, "path", cfg.Path(cfg.Storage.AdvanceFile))
	}

	var summaryCache cache.SummaryCache = cache.Nop{}
	if cfg.Redis.Enabled {
		client, err := cache.OpenRedis(net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		app.Redis = client
		summaryCache = cache.NewRedisSummaryCache(client, cfg.Redis.CacheTTL)
	}

	incomes := repository.NewIncomeFileRepository(book(cfg.Storage.IncomeFile))
	expenditures := repository.NewExpenditureFileRepository(book(cfg.Storage.ExpenditureFile))
	arCodes := repository.NewARCodeFileRepository(book(cfg.Storage.ARCodeFile))
	app.Catalog = service.NewSpendCatalog(repository.NewSpendCodeCSVRepository(cfg.Path(cfg.Storage.SpendCodeFile)))

	app.Advances = service.NewAdvanceService(advances, summaryCache, cfg, logger)
	app.ARCodes = service.NewARCodeService(arCodes, logger)
	app.Incomes = service.NewIncomeService(incomes, arCodes, app.Catalog, logger)
	app.Expenditures = service.NewExpenditureService(expenditures, incomes, arCodes, advances, app.Catalog, summaryCache, cfg, logger)
	app.Reports = service.NewReportService(incomes, expenditures, cfg, logger)

	return app, nil
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}
