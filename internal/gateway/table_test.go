package gateway

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/reels/pkg/types"
)

func TestNewTableValidatesDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		desc    Descriptor
		wantErr error
	}{
		{"valid", PlatformTable, nil},
		{"default key must be a column", Descriptor{Table: "actor", Columns: []string{"actor_id", "name"}}, types.ErrInvalidData},
		{"default key accepted", Descriptor{Table: "tag", Columns: []string{"id", "label"}}, nil},
		{"table name injection", Descriptor{Table: "actor; DROP TABLE actor", Key: "actor_id", Columns: []string{"actor_id"}}, types.ErrInvalidData},
		{"column name injection", Descriptor{Table: "actor", Key: "actor_id", Columns: []string{"actor_id", "name--"}}, types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable(nil, tt.desc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tbl.Descriptor().Key)
		})
	}
}

func TestFindAllAndCount(t *testing.T) {
	b := openBackend(t)
	ctx := context.Background()

	for _, d := range []Descriptor{ProgramTable, ActorTable, DirectorTable, ProducerTable, PlatformTable} {
		t.Run(d.Table, func(t *testing.T) {
			tbl, err := NewTable(b, d)
			require.NoError(t, err)

			recs, err := tbl.FindAll(ctx)
			require.NoError(t, err)
			n, err := tbl.CountAll(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, len(recs), n)

			var prev int64
			for _, r := range recs {
				id, ok := r.Int64(d.Key)
				require.True(t, ok)
				assert.Greater(t, id, prev, "rows ordered by key")
				prev = id
			}
		})
	}
}

func TestFindByID(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)
	ctx := context.Background()

	rec, err := tbl.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec["program_id"])
	assert.Equal(t, "Home Alone", rec["title"])

	_, err = tbl.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, types.IsNotFound(err))
}

func TestSearch(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		column  string
		term    string
		want    []any
		wantErr error
	}{
		{"substring", "title", "Christmas", []any{"A Christmas Story", "The Office Christmas Episodes"}, nil},
		{"no match", "title", "Halloween", []any{}, nil},
		{"percent is literal", "title", "%", []any{}, nil},
		{"underscore is literal", "type", "tv_", []any{"The Office Christmas Episodes"}, nil},
		{"unknown column", "title; --", "x", nil, types.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := tbl.Search(ctx, tt.column, tt.term)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(recs, "title"))
		})
	}
}

func TestSort(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		direction string
		first     int64
		last      int64
	}{
		{"DESC", 2005, 1946},
		{"desc", 2005, 1946},
		{"ASC", 1946, 2005},
		{"sideways", 1946, 2005},
		{"", 1946, 2005},
	}
	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			recs, err := tbl.Sort(ctx, "yr_released", tt.direction)
			require.NoError(t, err)
			require.NotEmpty(t, recs)
			assert.EqualValues(t, tt.first, recs[0]["yr_released"])
			assert.EqualValues(t, tt.last, recs[len(recs)-1]["yr_released"])
		})
	}

	_, err = tbl.Sort(ctx, "yr_released DESC, (SELECT 1)", "ASC")
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
}

func TestCreate(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ActorTable)
	require.NoError(t, err)
	ctx := context.Background()

	data := types.Record{"name": "Zooey Deschanel", "birth_date": "1980-01-17", "nationality": "American"}
	res, err := tbl.Create(ctx, data)
	require.NoError(t, err)
	assert.Positive(t, res.InsertID)
	assert.EqualValues(t, 1, res.AffectedRows)

	rec, err := tbl.FindByID(ctx, res.InsertID)
	require.NoError(t, err)
	for k, v := range data {
		assert.EqualValues(t, v, rec[k], k)
	}

	tests := []struct {
		name    string
		data    types.Record
		wantErr error
	}{
		{"empty record", types.Record{}, types.ErrInvalidData},
		{"client supplied key", types.Record{"actor_id": 500, "name": "X"}, types.ErrInvalidData},
		{"unknown column", types.Record{"name": "X", "salary": 1}, types.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := tbl.CountAll(ctx)
			require.NoError(t, err)
			_, err = tbl.Create(ctx, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
			after, err := tbl.CountAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestCreateStoreFailureIsQueryError(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)

	// title is NOT NULL.
	_, err = tbl.Create(context.Background(), types.Record{"yr_released": 2020})
	assert.ErrorIs(t, err, types.ErrQuery)
}

func TestUpdate(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)
	ctx := context.Background()

	before, err := tbl.FindByID(ctx, 3)
	require.NoError(t, err)

	res, err := tbl.Update(ctx, 3, types.Record{"rating": 7.5})
	require.NoError(t, err)
	assert.Equal(t, types.UpdateResult{AffectedRows: 1, ChangedRows: 1}, res)

	after, err := tbl.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 7.5, after["rating"])
	for k, v := range before {
		if k != "rating" {
			assert.Equal(t, v, after[k], k)
		}
	}

	// Same value again matches the row but changes nothing.
	res, err = tbl.Update(ctx, 3, types.Record{"rating": 7.5})
	require.NoError(t, err)
	assert.Equal(t, types.UpdateResult{AffectedRows: 1, ChangedRows: 0}, res)

	// NULL to NULL is unchanged; NULL to a value is a change.
	res, err = tbl.Update(ctx, 3, types.Record{"image_url": nil})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.ChangedRows)
	res, err = tbl.Update(ctx, 3, types.Record{"image_url": "https://example.com/elf.jpg"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ChangedRows)

	res, err = tbl.Update(ctx, 9999, types.Record{"rating": 1.0})
	require.NoError(t, err)
	assert.Equal(t, types.UpdateResult{}, res)

	_, err = tbl.Update(ctx, 3, types.Record{"program_id": 4})
	assert.ErrorIs(t, err, types.ErrInvalidData)
	_, err = tbl.Update(ctx, 3, types.Record{"budget": 4})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
}

func TestConcurrentUpdates(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	const workers = 200
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := int64(i%6 + 1)
			res, err := c.Programs.Update(ctx, id, types.Record{"rating": float64(i%10) + 0.5})
			if err != nil {
				errs <- err
				return
			}
			if res.AffectedRows != 1 {
				errs <- fmt.Errorf("program %d: affected %d rows", id, res.AffectedRows)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := c.Programs.FindAll(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	var failed []error
	for err := range errs {
		failed = append(failed, err)
	}
	require.Empty(t, failed)

	recs, err := c.Programs.FindAll(ctx)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotNil(t, r["rating"], r["title"])
	}
}

func TestDelete(t *testing.T) {
	tbl, err := NewTable(openBackend(t), ProgramTable)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := tbl.Delete(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.AffectedRows)
	_, err = tbl.FindByID(ctx, 1)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Associations cascade with the program.
	assert.Zero(t, countWhere(t, tbl, "program_actor", "program_id = ?", 1))

	before, err := tbl.CountAll(ctx)
	require.NoError(t, err)
	res, err = tbl.Delete(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.AffectedRows)
	after, err := tbl.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestClosedBackendIsConnectionError(t *testing.T) {
	b := openBackend(t)
	tbl, err := NewTable(b, ProgramTable)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = tbl.FindAll(context.Background())
	assert.ErrorIs(t, err, types.ErrConnection)
	assert.NotErrorIs(t, err, types.ErrQuery)
}
