package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// GetDBPoolAndCtx connects to a live postgres (GYMLOG_DB_HOST, GYMLOG_DB_NAME)
// for integration tests. The pool is closed on test cleanup.
func GetDBPoolAndCtx(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	dbHost := os.Getenv("GYMLOG_DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbName := os.Getenv("GYMLOG_DB_NAME")
	if dbName == "" {
		dbName = "gymlog_test"
	}
	t.Logf("using db: [%s/%s]", dbHost, dbName)

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: dbHost,
		DBPort: "5432",
		DBName: dbName,
	})
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, dbPool.Ping(ctx))
	return ctx, dbPool
}
