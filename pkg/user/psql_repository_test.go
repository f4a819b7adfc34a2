package user_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tendant/simple-ads/migrations"
	"github.com/tendant/simple-ads/pkg/user"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgresUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool := setupTestDatabase(t)
	repo := user.NewPostgresUserRepository(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, user.CreateUserParams{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "hashed",
		IsActive:       true,
	})
	require.NoError(t, err)
	require.NotEqual(t, [16]byte{}, created.ID)

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := repo.Create(ctx, user.CreateUserParams{
			Username:       "alice",
			Email:          "other@example.com",
			HashedPassword: "hashed",
		})
		assert.ErrorIs(t, err, user.ErrUserExists)
	})

	t.Run("Lookup", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		got, err = repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("TokenLifecycle", func(t *testing.T) {
		expiresAt := time.Now().UTC().Add(time.Hour)
		require.NoError(t, repo.SetVerificationToken(ctx, created.ID, "token-1", expiresAt))

		pending, err := repo.FindPendingVerifications(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, created.ID, pending[0].ID)

		// A superseded token must not clear the current one.
		require.NoError(t, repo.SetVerificationToken(ctx, created.ID, "token-2", expiresAt))
		cleared, err := repo.ClearVerificationToken(ctx, created.ID, "token-1")
		require.NoError(t, err)
		assert.False(t, cleared)

		consumed, err := repo.ConsumeVerificationToken(ctx, "token-2")
		require.NoError(t, err)
		assert.True(t, consumed.IsVerified)
		assert.Nil(t, consumed.VerificationToken)

		_, err = repo.ConsumeVerificationToken(ctx, "token-2")
		assert.ErrorIs(t, err, user.ErrTokenNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		_, err := repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
