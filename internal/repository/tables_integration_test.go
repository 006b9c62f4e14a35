//go:build integration

package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestLoadTable_Postgres(t *testing.T) {
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("meridian"),
		postgres.WithUsername("meridian"),
		postgres.WithPassword("meridian"),
		postgres.BasicWaitStrategies(),
	)
	defer func() {
		if errTerm := testcontainers.TerminateContainer(ctr); errTerm != nil {
			t.Logf("failed to terminate container: %v", errTerm)
		}
	}()
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		CREATE TABLE clientes (
			cliente TEXT NOT NULL,
			unidade TEXT,
			"latitude / longitude" TEXT
		);
		INSERT INTO clientes VALUES
			('Acme', 'Campinas', '-22.9056, -47.0608'),
			('Globex', NULL, 'abc,def'),
			('Hooli', 'SP', '-23.5505, -46.6333');
	`)
	require.NoError(t, err)

	repo := repository.NewRepository(pool, slog.Default())
	table, err := repository.NewTableSource(repo, ingest.DatasetCustomers, "clientes").Load(ctx)
	require.NoError(t, err)

	ds, err := ingest.Build(table, ingest.CustomerSchema())
	require.NoError(t, err)

	points := ds.Points()
	require.Len(t, points, 2)
	assert.Equal(t, "Acme", points[0].ID)
	assert.Equal(t, "Hooli", points[1].ID)
	require.Len(t, ds.Rejected, 1)
	assert.Equal(t, "Globex", ds.Rejected[0].ID)
}
