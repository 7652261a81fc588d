package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()

	seeded, err := Seed(ctx, b)
	require.NoError(t, err)
	assert.True(t, seeded)

	assert.Equal(t, len(seedPrograms), countRows(t, b, "program"))
	assert.Equal(t, len(seedActors), countRows(t, b, "actor"))
	assert.Equal(t, len(seedDirectors), countRows(t, b, "director"))
	assert.Equal(t, len(seedProducers), countRows(t, b, "producer"))
	assert.Equal(t, len(seedPlatforms), countRows(t, b, "streaming_platform"))

	cast := 0
	listings := 0
	for _, p := range seedPrograms {
		cast += len(p.cast)
		listings += len(p.listings)
	}
	assert.Equal(t, cast, countRows(t, b, "program_actor"))
	assert.Equal(t, listings, countRows(t, b, "program_streaming_platform"))

	// Second run is a no-op.
	seeded, err = Seed(ctx, b)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, len(seedPrograms), countRows(t, b, "program"))
}

func TestSeedOnlyTVShowsCarrySeasons(t *testing.T) {
	b := openTestBackend(t)
	ctx := context.Background()
	_, err := Seed(ctx, b)
	require.NoError(t, err)

	var n int
	err = b.WithConn(ctx, func(q Querier) error {
		return q.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM program WHERE seasons IS NOT NULL AND type <> 'tv_show'").Scan(&n)
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}
