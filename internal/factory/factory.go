package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rbt-academy/trainer/internal/api/sse"
	"github.com/rbt-academy/trainer/internal/dependencies/clock"
	"github.com/rbt-academy/trainer/internal/dependencies/random"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/admin"
	"github.com/rbt-academy/trainer/internal/services/exercise"
	"github.com/rbt-academy/trainer/internal/services/judge"
	"github.com/rbt-academy/trainer/internal/services/ledger"
	"github.com/rbt-academy/trainer/internal/services/profanity"
	"github.com/rbt-academy/trainer/internal/services/progression"
	"github.com/rbt-academy/trainer/internal/services/registry"
	"github.com/rbt-academy/trainer/internal/services/responses"
	"github.com/rbt-academy/trainer/internal/services/session"
	"github.com/rbt-academy/trainer/internal/services/stats"
	"github.com/rbt-academy/trainer/internal/storage"
	"github.com/rbt-academy/trainer/internal/storage/memory"
	"github.com/rbt-academy/trainer/internal/storage/postgres"
	redisstorage "github.com/rbt-academy/trainer/internal/storage/redis"
	"github.com/rbt-academy/trainer/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage is the durable store; Volatile holds sessions that must not
	// survive a restart
	Storage  storage.Storage
	Volatile storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Judge  judge.Judge

	// Services
	Guard              *judge.Guard
	Registry           *registry.Store
	Watcher            *registry.Watcher
	Ledger             *ledger.Ledger
	Responses          *responses.Log
	AccountService     *account.Service
	ProgressionService *progression.Service
	StatsService       *stats.Service
	AdminService       *admin.Service
	Catalog            *exercise.Catalog
	Hub                *sse.Hub

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PostgresConfig holds connection settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// JudgeConfig configures the judgement collaborator. Without a usable
	// API key every exercise runs on its fallbacks.
	JudgeConfig judge.Config
	// AccountConfig holds the admin secret
	// If zero value, defaults to account.DefaultConfig()
	AccountConfig account.Config
	// WatchInterval is how often the registry is polled for outside writes
	WatchInterval time.Duration
	// ProfanityFile replaces the built-in profanity stems (optional)
	ProfanityFile string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var j judge.Judge = judge.Offline{}
	if judge.KeyConfigured(cfg.JudgeConfig.APIKey) {
		g, err := judge.NewGemini(ctx, cfg.JudgeConfig)
		if err != nil {
			logger.Warn("judgement service unavailable, using fallbacks", slog.Any("error", err))
		} else {
			j = g
		}
	} else {
		logger.Info("no judgement API key configured, using fallbacks")
	}

	filter := profanity.Default()
	if cfg.ProfanityFile != "" {
		if err := filter.LoadFromFile(cfg.ProfanityFile); err != nil {
			logger.Warn("could not load profanity list, using built-in stems",
				slog.String("path", cfg.ProfanityFile),
				slog.Any("error", err))
		}
	}

	accountCfg := cfg.AccountConfig
	if accountCfg.AdminSecret == "" && accountCfg.AdminSecretHash == "" {
		accountCfg = account.DefaultConfig()
	}

	app, err := newWithDependencies(dependencies{
		store:         store,
		clock:         clock.New(),
		random:        random.New(),
		judge:         j,
		profanity:     filter,
		accountCfg:    accountCfg,
		watchInterval: cfg.WatchInterval,
		logger:        logger,
	})
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	app.closer = closer
	return app, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		s, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis storage: %w", err)
		}
		return s, s, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, s, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		s, err := postgres.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// dependencies are the externally supplied pieces of an App
type dependencies struct {
	store         storage.Storage
	clock         clock.Clock
	random        random.Random
	judge         judge.Judge
	profanity     exercise.Profanity
	accountCfg    account.Config
	watchInterval time.Duration
	logger        *slog.Logger
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(d dependencies) (*App, error) {
	volatile := memory.New()

	hub := sse.NewHub(d.logger)
	notifier := sse.NewBroadcaster(hub, d.logger)

	reg := registry.New(d.store, d.clock, notifier, d.logger)
	watcher := registry.NewWatcher(d.store, d.clock, notifier, d.watchInterval, d.logger)
	led := ledger.New(d.store, d.clock, d.logger)
	respLog := responses.New(d.store, d.clock, d.logger)

	accountService, err := account.New(d.store, reg, d.clock, d.accountCfg, d.logger)
	if err != nil {
		return nil, fmt.Errorf("account service: %w", err)
	}
	progressionService := progression.New(accountService, led, reg, d.logger)
	statsService := stats.New(accountService, led, reg, d.logger)
	adminService := admin.New(accountService, reg, respLog, d.logger)

	guard := judge.NewGuard(d.judge, d.logger)
	catalog := exercise.NewCatalog(exercise.Deps{
		Sessions:  session.NewManager(d.store, d.random, d.logger),
		Volatile:  session.NewManager(volatile, d.random, d.logger),
		Guard:     guard,
		Progress:  progressionService,
		Profanity: d.profanity,
		Responses: respLog,
		Clock:     d.clock,
		Random:    d.random,
		Logger:    d.logger,
	})

	return &App{
		Storage:            d.store,
		Volatile:           volatile,
		Clock:              d.clock,
		Random:             d.random,
		Judge:              d.judge,
		Guard:              guard,
		Registry:           reg,
		Watcher:            watcher,
		Ledger:             led,
		Responses:          respLog,
		AccountService:     accountService,
		ProgressionService: progressionService,
		StatsService:       statsService,
		AdminService:       adminService,
		Catalog:            catalog,
		Hub:                hub,
	}, nil
}
