package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reels/pkg/types"
)

func TestPeopleFindByNationality(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	recs, err := c.Directors.FindByNationality(ctx, "Italian")
	require.NoError(t, err)
	assert.Equal(t, []any{"Frank Capra"}, column(recs, "name"))

	recs, err = c.Producers.FindByNationality(ctx, "Canad")
	require.NoError(t, err)
	assert.Equal(t, []any{"René Dupont"}, column(recs, "name"))

	recs, err = c.Actors.FindByNationality(ctx, "American")
	require.NoError(t, err)
	assert.Len(t, recs, 13)
	assert.Equal(t, "Daryl Sabara", recs[0]["name"])
}

func TestActorsFindByBirthYear(t *testing.T) {
	c := newTestCatalog(t)
	recs, err := c.Actors.FindByBirthYear(context.Background(), 1980)
	require.NoError(t, err)
	assert.Equal(t, []any{"Macaulay Culkin"}, column(recs, "name"))
}

func TestActorsSearchAdvanced(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		criteria ActorCriteria
		want     []any
	}{
		{"name only", ActorCriteria{Name: "James"}, []any{"James Caan", "James Stewart"}},
		{"name and year", ActorCriteria{Name: "James", BirthYear: 1908}, []any{"James Stewart"}},
		{"all criteria", ActorCriteria{Name: "Tom", Nationality: "Amer", BirthYear: 1956}, []any{"Tom Hanks"}},
		{"conflicting criteria", ActorCriteria{Name: "Tom", BirthYear: 1908}, []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := c.Actors.SearchAdvanced(ctx, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(recs, "name"))
		})
	}

	recs, err := c.Actors.SearchAdvanced(ctx, ActorCriteria{})
	require.NoError(t, err)
	assert.Len(t, recs, 13)
}

func TestPeopleWithPrograms(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		people *People
		id     int64
		want   string
	}{
		{"actor", c.Actors.People, 1, "A Christmas Story (Ralphie Parker - lead)"},
		{"director", c.Directors.People, 4, "It's a Wonderful Life (1946) - Director"},
		{"producer", c.Producers.People, 6, "The Office Christmas Episodes (2005)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.people.FindWithProgramsByID(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec["programs"])

			_, err = tt.people.FindWithProgramsByID(ctx, 999)
			assert.ErrorIs(t, err, types.ErrNotFound)

			all, err := tt.people.FindWithPrograms(ctx)
			require.NoError(t, err)
			n, err := tt.people.CountAll(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, n, len(all))
		})
	}
}

func TestPeopleWithoutProgramsHaveNullAggregate(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	res, err := c.Directors.Create(ctx, types.Record{"name": "Nora Ephron", "nationality": "American"})
	require.NoError(t, err)
	rec, err := c.Directors.FindByID(ctx, res.InsertID)
	require.NoError(t, err)
	assert.Nil(t, rec["programs"])
}

func TestCatalogPeople(t *testing.T) {
	c := newTestCatalog(t)
	for _, name := range []string{types.TableActors, types.TableDirectors, types.TableProducers} {
		p, err := c.People(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Descriptor().Table)
	}
	_, err := c.People(types.TablePrograms)
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}
