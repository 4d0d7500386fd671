//go:build integration

package sqlstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/postgres"
)

func setupPostgres(t testing.TB) config.Postgres {
	t.Helper()

	ctx := context.Background()

	pgUser := "test"
	pgPassword := "test"
	pgDB := "shortlink"

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	pgHost, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	pgPort, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return config.Postgres{
		User:     pgUser,
		Password: pgPassword,
		Host:     pgHost,
		Port:     pgPort.Int(),
		DB:       pgDB,
		SSLMode:  "disable",
	}
}

type PostgresRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *URLRepository
}

func (suite *PostgresRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	cfg := setupPostgres(suite.T())

	db, err := postgres.New(suite.ctx, cfg.DSN())
	suite.Require().NoError(err)
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.Require().NoError(postgres.RunMigrations(db, migrations.Postgres()))
	// Applying twice is a no-op.
	suite.Require().NoError(postgres.RunMigrations(db, migrations.Postgres()))

	suite.repo = NewURLRepository(db, Postgres)
}

func (suite *PostgresRepositoryTestSuite) SetupTest() {
	_, err := suite.repo.db.ExecContext(suite.ctx, `TRUNCATE TABLE urls RESTART IDENTITY`)
	suite.Require().NoError(err)
}

func (suite *PostgresRepositoryTestSuite) TestLifecycle() {
	saved, err := suite.repo.Save(suite.ctx, "abc123", "https://example.com/")
	suite.Require().NoError(err)
	suite.Equal(int64(1), saved.ID)
	suite.True(saved.Active)

	_, err = suite.repo.Save(suite.ctx, "abc123", "https://example.com/other")
	suite.ErrorIs(err, entity.ErrShortCodeExists)

	exists, err := suite.repo.ShortCodeExists(suite.ctx, "abc123")
	suite.Require().NoError(err)
	suite.True(exists)

	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
	updated, err := suite.repo.Update(suite.ctx, saved.ID, entity.URLUpdate{
		ExpiresAt: entity.OptionalTime{Set: true, Value: &expiresAt},
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.ExpiresAt)
	suite.True(expiresAt.Equal(*updated.ExpiresAt))

	suite.Require().NoError(suite.repo.IncrementClicks(suite.ctx, "abc123"))

	got, err := suite.repo.RetrieveByID(suite.ctx, saved.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), got.Clicks)
	suite.NotNil(got.LastClickAt)

	suite.Require().NoError(suite.repo.Remove(suite.ctx, saved.ID))
	suite.ErrorIs(suite.repo.Remove(suite.ctx, saved.ID), entity.ErrURLNotFound)
}

func (suite *PostgresRepositoryTestSuite) TestListSearchIsLiteral() {
	_, err := suite.repo.Save(suite.ctx, "pct", "https://example.com/100%25_off")
	suite.Require().NoError(err)
	_, err = suite.repo.Save(suite.ctx, "plain", "https://example.com/plain")
	suite.Require().NoError(err)

	urls, err := suite.repo.List(suite.ctx, entity.ListFilter{Query: "%25_", Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(urls, 1)
	suite.Equal("pct", urls[0].ShortCode)

	urls, err = suite.repo.List(suite.ctx, entity.ListFilter{Query: "_", Limit: 10})
	suite.Require().NoError(err)
	suite.Len(urls, 1)
}

func (suite *PostgresRepositoryTestSuite) TestConcurrentClicks() {
	_, err := suite.repo.Save(suite.ctx, "hot", "https://example.com/")
	suite.Require().NoError(err)

	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(suite.T(), suite.repo.IncrementClicks(suite.ctx, "hot"))
		}()
	}
	wg.Wait()

	got, err := suite.repo.RetrieveByShortCode(suite.ctx, "hot")
	require.NoError(suite.T(), err)
	suite.Equal(int64(n), got.Clicks)
}

func TestPostgresRepository(t *testing.T) {
	suite.Run(t, new(PostgresRepositoryTestSuite))
}
