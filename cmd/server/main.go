package main

import (
	"context"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/rs/zerolog"

	httpadapter "grindstone/internal/adapter/http"
	metricsinmem "grindstone/internal/adapter/metrics/inmemory"
	gormrepo "grindstone/internal/adapter/repo/gorm"
	memrepo "grindstone/internal/adapter/repo/memory"
	"grindstone/internal/adapter/report"
	"grindstone/internal/adapter/rng"
	staticstats "grindstone/internal/adapter/stats/static"
	"grindstone/internal/app/busy"
	"grindstone/internal/app/ports"
	"grindstone/internal/app/status"
	"grindstone/internal/app/trip"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"

	gambleuc "grindstone/internal/app/gamble"
)

type config struct {
	Addr             string `env:"GRINDSTONE_ADDR" envDefault:":8080"`
	DBDSN            string `env:"GRINDSTONE_DB_DSN"`
	MigrationsDir    string `env:"GRINDSTONE_MIGRATIONS_DIR" envDefault:"./migrations"`
	MemoryStore      bool   `env:"GRINDSTONE_MEMORY_STORE" envDefault:"false"`
	RandSeed         int64  `env:"GRINDSTONE_RAND_SEED" envDefault:"0"`
	MaxTripSeconds   int    `env:"GRINDSTONE_MAX_TRIP_SECONDS" envDefault:"1800"`
	GambleTTLSeconds int    `env:"GRINDSTONE_GAMBLE_TTL_SECONDS" envDefault:"120"`
	SweepSeconds     int    `env:"GRINDSTONE_SWEEP_SECONDS" envDefault:"30"`
	SweepBatch       int    `env:"GRINDSTONE_SWEEP_BATCH" envDefault:"100"`
	FishingLevel     int    `env:"GRINDSTONE_FISHING_LEVEL" envDefault:"1"`
	EquipmentBonus   int    `env:"GRINDSTONE_EQUIPMENT_BONUS" envDefault:"0"`
	Debug            bool   `env:"GRINDSTONE_DEBUG" envDefault:"false"`
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("parse environment")
	}
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	activities, ledger, favourRepo, gambleRepo, txManager := mustBuildRepos(logger, cfg)

	randSource := rng.NewSource(cfg.RandSeed)
	kpiRecorder := metricsinmem.NewRecorder()
	sink := report.NewLogSink(logger.With().Str("component", "report").Logger())
	statsProvider := staticstats.NewProvider(minion.Stats{
		FishingLevel:   cfg.FishingLevel,
		EquipmentBonus: cfg.EquipmentBonus,
	})
	tracker := busy.NewTracker()
	favourCfg := favour.DefaultConfig()

	tripUC := &trip.UseCase{
		TxManager:  txManager,
		Activities: activities,
		Ledger:     ledger,
		FavourRepo: favourRepo,
		Stats:      statsProvider,
		Busy:       tracker,
		RNG:        randSource,
		Reporter:   sink,
		Metrics:    kpiRecorder,
		FavourCfg:  favourCfg,
		MaxTrip:    time.Duration(cfg.MaxTripSeconds) * time.Second,
	}
	gambleUC := &gambleuc.UseCase{
		TxManager: txManager,
		Sessions:  gambleRepo,
		Ledger:    ledger,
		RNG:       randSource,
		Reporter:  sink,
		TTL:       time.Duration(cfg.GambleTTLSeconds) * time.Second,
	}

	h := httpadapter.Handler{
		TripUC:   tripUC,
		GambleUC: gambleUC,
		StatusUC: status.UseCase{
			Activities: activities,
			FavourRepo: favourRepo,
			Busy:       tracker,
			FavourCfg:  favourCfg,
		},
		KPI: kpiRecorder,
	}

	if cfg.SweepSeconds > 0 {
		go runSweeper(logger, tripUC, time.Duration(cfg.SweepSeconds)*time.Second, cfg.SweepBatch)
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	s.Use(httpadapter.Middleware()...)
	h.RegisterRoutes(s)

	logger.Info().Str("addr", cfg.Addr).Bool("memory_store", cfg.MemoryStore).Msg("grindstone server listening")
	s.Spin()
}

func mustBuildRepos(logger zerolog.Logger, cfg config) (ports.ActivityRepository, ports.Ledger, ports.FavourStateRepository, ports.GambleSessionRepository, ports.TxManager) {
	if cfg.MemoryStore {
		store := memrepo.NewStore()
		return memrepo.NewActivityRepo(store),
			memrepo.NewLedgerRepo(store),
			memrepo.NewFavourStateRepo(store),
			memrepo.NewGambleSessionRepo(store),
			memrepo.NewTxManager(store)
	}

	if cfg.DBDSN == "" {
		logger.Fatal().Msg("GRINDSTONE_DB_DSN is required unless GRINDSTONE_MEMORY_STORE=true")
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open postgres")
	}
	if cfg.MigrationsDir != "" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
	}

	return gormrepo.NewActivityRepo(db),
		gormrepo.NewLedgerRepo(db),
		gormrepo.NewFavourStateRepo(db),
		gormrepo.NewGambleSessionRepo(db),
		gormrepo.NewTxManager(db)
}

// runSweeper resolves due trips for owners that stopped polling, so
// chained activities and reports keep flowing.
func runSweeper(logger zerolog.Logger, uc *trip.UseCase, every time.Duration, batch int) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		resolved, err := uc.PollAll(context.Background(), batch)
		if err != nil {
			logger.Warn().Err(err).Msg("sweep due trips")
			continue
		}
		if resolved > 0 {
			logger.Debug().Int("resolved", resolved).Msg("swept due trips")
		}
	}
}
