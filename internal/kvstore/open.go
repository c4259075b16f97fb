package kvstore

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/telemetry/metrics"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

type OpenParams struct {
	Backend        string
	DataDir        string
	SQLitePath     string
	PostgresHost   string
	PostgresPort   string
	PostgresDBName string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	CacheSizeMB    int
	TracingEnabled bool
	// MetricsManager, if set, gets store op durations observed
	MetricsManager *metrics.Manager
}

func OpenParamsFromConfig(cfg *config.Config) OpenParams {
	return OpenParams{
		Backend:        cfg.StoreBackend,
		DataDir:        cfg.DataDir,
		SQLitePath:     cfg.SQLitePath,
		PostgresHost:   cfg.PostgresHost,
		PostgresPort:   cfg.PostgresPort,
		PostgresDBName: cfg.PostgresDBName,
		RedisHost:      cfg.RedisHost,
		RedisPort:      cfg.RedisPort,
		RedisPassword:  cfg.RedisPassword,
		CacheSizeMB:    cfg.CacheSizeMB,
		TracingEnabled: cfg.TracingEnabled,
	}
}

// Opened is the result of Open: the ready-to-use store and, for the
// postgres backend, its pool (so callers can register pool metrics).
type Opened struct {
	Store  Store
	DBPool *pgxpool.Pool
}

// Open creates the configured backend, wrapped in a freecache read cache
// when CacheSizeMB > 0 and in an InstrumentedStore when a metrics manager is given.
func Open(ctx context.Context, params OpenParams) (*Opened, error) {
	opened := &Opened{}

	var store Store
	switch params.Backend {
	case config.BackendMemory:
		store = NewMemoryStore()
	case config.BackendDisk:
		diskStore, err := NewDiskStore(params.DataDir)
		if err != nil {
			return nil, err
		}
		store = diskStore
	case config.BackendSQLite:
		gormDB, err := db.OpenSQLite(params.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqliteStore, err := NewSQLiteStore(gormDB)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	case config.BackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.PostgresHost,
			DBPort:         params.PostgresPort,
			DBName:         params.PostgresDBName,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		pgStore, err := NewPostgresStore(ctx, dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("new postgres store: %w", err)
		}
		opened.DBPool = dbPool
		store = pgStore
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.RedisHost, params.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.TracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}
		store = NewRedisStore(rdb)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, params.Backend)
	}

	log.Infof("using [%s] store backend", params.Backend)

	if params.CacheSizeMB > 0 {
		log.Debugf("store read cache enabled: %d MB", params.CacheSizeMB)
		store = NewCachedStore(store, params.CacheSizeMB*megabyte)
	}

	if params.MetricsManager != nil {
		store = NewInstrumentedStore(store, params.MetricsManager)
	}

	opened.Store = store
	return opened, nil
}
