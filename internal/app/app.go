package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/config"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/last-man-standing/internal/interfaces/httpapi"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	idgen "github.com/riskibarqy/last-man-standing/internal/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// App owns the HTTP server and the resources behind it.
type App struct {
	Server *http.Server
	db     *sqlx.DB
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	manager, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	engine := usecase.NewEngine(manager, idgen.NewUUIDGenerator(), usecase.EngineConfig{
		TiebreakType:           cfg.TiebreakType,
		TiebreakMaxScore:       cfg.TiebreakMaxScore,
		TiebreakFallbackWindow: cfg.TiebreakFallbackWindow,
		ExactoMaxGoals:         cfg.ExactoMaxGoals,
		IngestWorkers:          cfg.IngestWorkers,
	}, logger)

	leaderboardSvc := usecase.NewLeaderboardService(engine, cache.NewStore(cfg.LeaderboardCacheTTL))
	engine.SetNotifier(leaderboardSvc)

	handler := httpapi.NewHandler(
		usecase.NewCompetitionService(engine, usecase.CompetitionDefaults{
			ResultPolicy:  cfg.DefaultResultPolicy,
			LockPolicy:    cfg.DefaultLockPolicy,
			LivesPerRound: cfg.DefaultLivesPerRound,
		}),
		usecase.NewPickService(engine),
		usecase.NewExactoService(engine),
		usecase.NewSettlementService(engine),
		usecase.NewRoundService(engine),
		usecase.NewTiebreakService(engine),
		usecase.NewResultsService(engine),
		leaderboardSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		db: db,
	}, nil
}

// Close releases the database pool, if any. Call it after Server.Shutdown.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (store.Manager, *sqlx.DB, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("storage selected", "driver", config.StorageMemory)
		return memory.NewStore(), nil, nil
	}

	dbName := dbNameFromURL(cfg.DBURL)
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("storage selected", "driver", config.StoragePostgres, "db_name", dbName, "max_open_conns", cfg.DBMaxOpenConns)
	return postgres.NewManager(db), db, nil
}
