package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/dugout/internal/registry"
	"github.com/fortuna/dugout/internal/store"
)

func TestAssemble(t *testing.T) {
	records := assemble(
		[]teamRow{{"BOS", "Boston Red Sox"}, {"NYY", "New York Yankees"}},
		[]aliasRow{{"BOS", "Boston"}, {"BOS", "Red Sox"}, {"NYY", "Yankees"}, {"XXX", "orphan"}},
		[]providerRow{{"NYY", "scoreboard-provider", "10"}, {"BOS", "roster-provider", "bos"}, {"XXX", "roster-provider", "x"}},
	)

	require.Len(t, records, 2)
	assert.Equal(t, "BOS", records[0].Code)
	assert.Equal(t, []string{"Boston", "Red Sox"}, records[0].Aliases)
	assert.Equal(t, map[registry.Provider]string{registry.ProviderRoster: "bos"}, records[0].ProviderIDs)
	assert.Equal(t, "10", records[1].ProviderIDs[registry.ProviderScoreboard])

	reg, err := registry.New(records)
	require.NoError(t, err)
	rec, err := reg.FindByAlias("red sox")
	require.NoError(t, err)
	assert.Equal(t, "BOS", rec.Code)
}

// TestRoundTrip needs a scratch database: DUGOUT_TEST_DSN=postgres://...
func TestRoundTrip(t *testing.T) {
	dsn := os.Getenv("DUGOUT_TEST_DSN")
	if dsn == "" {
		t.Skip("DUGOUT_TEST_DSN not set")
	}
	ctx := context.Background()

	db, err := store.NewDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations(ctx))
	require.NoError(t, db.RunMigrations(ctx), "migrations must be idempotent")
	require.NoError(t, db.HealthCheck(ctx))

	def, err := registry.LoadDefault()
	require.NoError(t, err)
	want := def.Records()

	repo := NewTeamRepository(db)
	require.NoError(t, repo.Upsert(ctx, want))
	require.NoError(t, repo.Upsert(ctx, want))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, len(want))

	reg, err := repo.LoadRegistry(ctx)
	require.NoError(t, err)
	for _, rec := range want {
		got, err := reg.Get(rec.Code)
		require.NoError(t, err)
		assert.Equal(t, rec.FullName, got.FullName)
		assert.Equal(t, rec.Aliases, got.Aliases)
		assert.Equal(t, rec.ProviderIDs, got.ProviderIDs)
	}
}
