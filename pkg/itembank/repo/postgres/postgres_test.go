package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tendant/itembank/pkg/itembank/repo/postgres"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
	"github.com/tendant/itembank/pkg/itembank/repo/storetest"
)

// databaseURL returns TEST_DATABASE_URL or starts a disposable container.
func databaseURL(t *testing.T) string {
	t.Helper()
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("itembank_test"),
		tcpostgres.WithUsername("itembank"),
		tcpostgres.WithPassword("itembank"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return url
}

func openPool(t *testing.T, url, schema string) *pgxpool.Pool {
	t.Helper()
	pool, err := postgres.Open(context.Background(), postgres.PoolConfig{URL: url, Schema: schema, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	url := databaseURL(t)

	admin := openPool(t, url, "")
	_, err := admin.Exec(ctx, `DROP SCHEMA IF EXISTS itembank_test CASCADE; CREATE SCHEMA itembank_test`)
	require.NoError(t, err)

	db := postgres.New(openPool(t, url, "itembank_test"))
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))

	storetest.Run(t, func(t *testing.T) sqlstore.DB { return db })
}

func TestOpen_RejectsEmptyURL(t *testing.T) {
	_, err := postgres.Open(context.Background(), postgres.PoolConfig{})
	require.Error(t, err)
}
