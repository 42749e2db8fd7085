package app

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fantasyfecha/fantasy-api/external/statsfeed"
	"github.com/fantasyfecha/fantasy-api/internal/config"
	"github.com/fantasyfecha/fantasy-api/internal/domain/formation"
	"github.com/fantasyfecha/fantasy-api/internal/domain/matchday"
	"github.com/fantasyfecha/fantasy-api/internal/domain/player"
	"github.com/fantasyfecha/fantasy-api/internal/domain/scoring"
	"github.com/fantasyfecha/fantasy-api/internal/domain/squad"
	"github.com/fantasyfecha/fantasy-api/internal/domain/stats"
	"github.com/fantasyfecha/fantasy-api/internal/domain/team"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/account/demo"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/account/introspect"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/memory"
	"github.com/fantasyfecha/fantasy-api/internal/infrastructure/repository/postgres"
	"github.com/fantasyfecha/fantasy-api/internal/interfaces/httpapi"
	"github.com/fantasyfecha/fantasy-api/internal/platform/cache"
	idgen "github.com/fantasyfecha/fantasy-api/internal/platform/id"
	"github.com/fantasyfecha/fantasy-api/internal/platform/logging"
	"github.com/fantasyfecha/fantasy-api/internal/platform/resilience"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

type repositories struct {
	players   player.Repository
	teams     team.Repository
	squads    squad.Repository
	matchdays matchday.Repository
	stats     stats.Repository
	scoring   scoring.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP router. The
// returned cleanup closes the database pool when one was opened.
func NewHTTPServer(cfg config.Config, logger *slog.Logger, platformLogger *logging.Logger) (*http.Server, func(), error) {
	idGen := idgen.NewRandomGenerator()

	repos, cleanup, err := buildRepositories(cfg, idGen)
	if err != nil {
		return nil, nil, err
	}

	rules := squad.Rules{
		StartingBudget: cfg.StartingBudget,
		MaxSquadSize:   cfg.MaxSquadSize,
		MaxStarters:    cfg.MaxStarters,
		MaxBench:       cfg.MaxBench,
	}
	multipliers := usecase.Multipliers{
		Captain: cfg.CaptainMultiplier,
		Starter: cfg.StarterMultiplier,
		Bench:   cfg.BenchMultiplier,
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	defaultCode := formation.Code(cfg.DefaultFormation)
	if !formation.IsValid(defaultCode) {
		cleanup()
		return nil, nil, fmt.Errorf("invalid default formation %q", cfg.DefaultFormation)
	}

	rosterSvc := usecase.NewRosterService(repos.players, repos.squads, rules, idGen, logger)
	transferSvc := usecase.NewTransferService(rosterSvc, repos.players, rules, cfg.SellTaxRate, logger)
	transferSvc.SetDefaultFormation(defaultCode)
	playerSvc := usecase.NewPlayerService(repos.players, repos.teams, logger)
	scoringSvc := usecase.NewScoringService(repos.squads, repos.matchdays, repos.stats, repos.scoring, multipliers, cfg.ScoringWorkers, logger)
	matchdaySvc := usecase.NewMatchdayService(repos.matchdays, repos.players, repos.stats, scoringSvc, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.scoring, cacheStore, logger)

	if cfg.StatsFeedEnabled {
		matchdaySvc.UseStatsProvider(statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			Token:      cfg.StatsFeedToken,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			Logger:     platformLogger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailures,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenReq,
			},
		}))
	}

	var verifier httpapi.TokenVerifier
	if cfg.AuthIntrospectBaseURL != "" {
		verifier = introspect.NewClient(nil, cfg.AuthIntrospectBaseURL, cfg.AuthIntrospectPath, logger)
	} else {
		verifier = demo.NewVerifier()
	}

	handler := httpapi.NewHandler(rosterSvc, transferSvc, playerSvc, matchdaySvc, scoringSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, verifier, matchdaySvc, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, idGen idgen.Generator) (repositories, func(), error) {
	if cfg.DBURL == "" {
		return repositories{
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			teams:     memory.NewTeamRepository(memory.SeedTeams()),
			squads:    memory.NewSquadRepository(),
			matchdays: memory.NewMatchdayRepository(memory.SeedMatchdays(), memory.SeedMatches()),
			stats:     memory.NewStatsRepository(),
			scoring:   memory.NewScoringRepository(idGen),
		}, func() {}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	return repositories{
		players:   postgres.NewPlayerRepository(db),
		teams:     postgres.NewTeamRepository(db),
		squads:    postgres.NewSquadRepository(db),
		matchdays: postgres.NewMatchdayRepository(db),
		stats:     postgres.NewStatsRepository(db),
		scoring:   postgres.NewScoringRepository(db, idGen),
	}, func() { _ = db.Close() }, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}
