package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/internal/metrics"
	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Association defaults stamped by the composite write.
const (
	DefaultDirectorRole  = "Director"
	DefaultActorRoleType = "supporting"
)

// Composite write outcomes.
const (
	writeCommitted  = "committed"
	writeRejected   = "rejected"
	writeRolledBack = "rolled_back"
)

const minReleaseYear = 1900

// ProgramDraft is a program together with the people and platforms to link
// it to.
type ProgramDraft struct {
	Title         string   `json:"title" validate:"required,max=255"`
	YearReleased  int      `json:"yr_released" validate:"required,gte=1900"`
	Runtime       *int     `json:"runtime,omitempty" validate:"omitempty,gt=0"`
	Format        string   `json:"format" validate:"required,max=50"`
	Type          string   `json:"type,omitempty" validate:"omitempty,oneof=movie tv_show special"`
	ProgramRating string   `json:"program_rating" validate:"required,max=10"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Description   string   `json:"description" validate:"required"`
	ImageURL      string   `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	Seasons       *int     `json:"seasons,omitempty" validate:"omitempty,gt=0"`
	Episodes      *int     `json:"episodes,omitempty" validate:"omitempty,gt=0"`
	ProducerID    *int64   `json:"producer_id,omitempty" validate:"omitempty,gt=0"`
	DirectorIDs   []int64  `json:"director_ids,omitempty" validate:"dive,gt=0"`
	ActorIDs      []int64  `json:"actor_ids,omitempty" validate:"dive,gt=0"`
	PlatformIDs   []int64  `json:"platform_ids,omitempty" validate:"dive,gt=0"`
}

func (d ProgramDraft) kind() string {
	if d.Type == "" {
		return types.ProgramTypeMovie
	}
	return d.Type
}

// record returns the program row for d. Unset optional fields are omitted so
// the store applies its defaults.
func (d ProgramDraft) record() types.Record {
	rec := types.Record{
		"title":          d.Title,
		"yr_released":    d.YearReleased,
		"format":         d.Format,
		"type":           d.kind(),
		"program_rating": d.ProgramRating,
		"description":    d.Description,
	}
	if d.Runtime != nil {
		rec["runtime"] = *d.Runtime
	}
	if d.Rating != nil {
		rec["rating"] = *d.Rating
	}
	if d.ImageURL != "" {
		rec["image_url"] = d.ImageURL
	}
	if d.Seasons != nil {
		rec["seasons"] = *d.Seasons
	}
	if d.Episodes != nil {
		rec["episodes"] = *d.Episodes
	}
	if d.ProducerID != nil {
		rec["producer_id"] = *d.ProducerID
	}
	return rec
}

// ComposeResult reports a committed composite write.
type ComposeResult struct {
	AttemptID string `json:"attempt_id"`
	ProgramID int64  `json:"program_id"`
	Directors int64  `json:"directors"`
	Actors    int64  `json:"actors"`
	Platforms int64  `json:"platforms"`
}

// Composer creates programs with their associations as one unit.
type Composer struct {
	backend  *store.Backend
	programs *Table
	now      func() time.Time
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithClock overrides the clock used for the release-year bound and the
// available_from stamp.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

// NewComposer returns a Composer writing through b.
func NewComposer(b *store.Backend, opts ...ComposerOption) *Composer {
	c := &Composer{
		backend:  b,
		programs: mustTable(b, ProgramTable),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks d and returns a *types.ValidationError carrying every
// problem found, or nil.
func (c *Composer) Validate(d ProgramDraft) error {
	msgs := validationMessages(d)
	if year := c.now().UTC().Year(); d.YearReleased > year {
		msgs = append(msgs, fmt.Sprintf("yr_released must be between %d and %d", minReleaseYear, year))
	}
	if d.kind() != types.ProgramTypeTVShow && (d.Seasons != nil || d.Episodes != nil) {
		msgs = append(msgs, "seasons and episodes apply only to tv_show programs")
	}
	if len(msgs) > 0 {
		return &types.ValidationError{Messages: msgs}
	}
	return nil
}

// CreateProgram validates d, then inserts the program row and one
// association row per distinct director, actor, and platform id in a single
// transaction. Any failure rolls back every row of the attempt; nothing is
// retried.
func (c *Composer) CreateProgram(ctx context.Context, d ProgramDraft) (ComposeResult, error) {
	res := ComposeResult{AttemptID: uuid.NewString()}
	log := logging.With().Str("attempt", res.AttemptID).Str("title", d.Title).Logger()

	if err := c.Validate(d); err != nil {
		metrics.ProgramWrites.WithLabelValues(writeRejected).Inc()
		log.Debug().Err(err).Msg("program draft rejected")
		return res, err
	}

	today := c.now().UTC().Format(time.DateOnly)
	err := c.backend.WithTx(ctx, func(q store.Querier) error {
		created, err := c.programs.insert(ctx, q, d.record())
		if err != nil {
			return err
		}
		if created.InsertID <= 0 {
			return fmt.Errorf("%w: program insert returned no id", types.ErrQuery)
		}
		res.ProgramID = created.InsertID

		var rows [][]any
		for _, id := range distinct(d.DirectorIDs) {
			rows = append(rows, []any{res.ProgramID, id, DefaultDirectorRole})
		}
		if res.Directors, err = insertBatch(ctx, q, ProgramDirectorTable, rows); err != nil {
			return err
		}

		rows = nil
		for _, id := range distinct(d.ActorIDs) {
			rows = append(rows, []any{res.ProgramID, id, nil, DefaultActorRoleType})
		}
		if res.Actors, err = insertBatch(ctx, q, ProgramActorTable, rows); err != nil {
			return err
		}

		rows = nil
		for _, id := range distinct(d.PlatformIDs) {
			rows = append(rows, []any{res.ProgramID, id, today, true})
		}
		res.Platforms, err = insertBatch(ctx, q, ProgramPlatformTable, rows)
		return err
	})
	if err != nil {
		metrics.ProgramWrites.WithLabelValues(writeRolledBack).Inc()
		log.Error().Err(err).Msg("program write rolled back")
		return ComposeResult{AttemptID: res.AttemptID}, err
	}

	metrics.ProgramWrites.WithLabelValues(writeCommitted).Inc()
	log.Info().Int64("program_id", res.ProgramID).
		Int64("directors", res.Directors).Int64("actors", res.Actors).Int64("platforms", res.Platforms).
		Msg("program created")
	return res, nil
}

// insertBatch writes rows into the association table d with one multi-row
// INSERT. Each row holds a value for every column of d, in order.
func insertBatch(ctx context.Context, q store.Querier, d Descriptor, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(rows)*len(d.Columns))
	for _, r := range rows {
		if len(r) != len(d.Columns) {
			return 0, fmt.Errorf("%w: %s row has %d values, want %d",
				types.ErrInvalidData, d.Table, len(r), len(d.Columns))
		}
		args = append(args, r...)
	}
	r, err := q.ExecContext(ctx, insertStatement(d.Table, d.Columns, len(rows)), args...)
	if err != nil {
		return 0, fmt.Errorf("%w: insert %s (%d rows): %w", types.ErrQuery, d.Table, len(rows), err)
	}
	return r.RowsAffected()
}

// distinct drops repeated ids, keeping first occurrences in order.
func distinct(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
