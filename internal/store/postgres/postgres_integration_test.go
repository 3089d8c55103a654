//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-intake/db"
	"github.com/NomadCrew/feedback-intake/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:14",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestStore_Integration(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	s := New(pool, "feedback")

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Put(ctx, record))

	var name, createdAt string
	err := pool.QueryRow(ctx, "SELECT name, created_at FROM feedback WHERE id = $1", record.ID).Scan(&name, &createdAt)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, record.CreatedAt, createdAt)

	assert.ErrorIs(t, s.Put(ctx, record), store.ErrConflict)
}
