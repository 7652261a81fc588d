package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/internal/metrics"
	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Operation names used in logs and metrics.
const (
	opFindAll  = "find_all"
	opFindByID = "find_by_id"
	opCount    = "count"
	opSearch   = "search"
	opSort     = "sort"
	opCreate   = "create"
	opUpdate   = "update"
	opDelete   = "delete"
	opQuery    = "query"
)

// Gateway is the record-level contract shared by the generic table and the
// specialized entity gateways.
type Gateway interface {
	Descriptor() Descriptor
	FindAll(ctx context.Context) ([]types.Record, error)
	FindByID(ctx context.Context, id int64) (types.Record, error)
	CountAll(ctx context.Context) (int64, error)
	Search(ctx context.Context, column, term string) ([]types.Record, error)
	Sort(ctx context.Context, column, direction string) ([]types.Record, error)
	Create(ctx context.Context, data types.Record) (types.CreateResult, error)
	Update(ctx context.Context, id int64, data types.Record) (types.UpdateResult, error)
	Delete(ctx context.Context, id int64) (types.DeleteResult, error)
}

var _ Gateway = (*Table)(nil)

// Table is the generic gateway for one table. It holds no state besides its
// descriptor and the backend, so one Table may serve concurrent callers.
type Table struct {
	desc    Descriptor
	backend *store.Backend
}

// NewTable validates d and returns a gateway over it.
func NewTable(b *store.Backend, d Descriptor) (*Table, error) {
	d.Columns = append([]string(nil), d.Columns...)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Table{desc: d, backend: b}, nil
}

func mustTable(b *store.Backend, d Descriptor) *Table {
	t, err := NewTable(b, d)
	if err != nil {
		panic(err)
	}
	return t
}

// Descriptor returns the table descriptor.
func (t *Table) Descriptor() Descriptor {
	return t.desc
}

// FindAll returns every row ordered by key.
func (t *Table) FindAll(ctx context.Context) ([]types.Record, error) {
	start := time.Now()
	recs, err := t.list(ctx, opFindAll, t.selectSQL("", "ORDER BY "+t.desc.Key))
	t.observe(opFindAll, start, err)
	return recs, err
}

// FindByID returns the row whose key equals id, or ErrNotFound.
func (t *Table) FindByID(ctx context.Context, id int64) (types.Record, error) {
	start := time.Now()
	rec, err := t.one(ctx, opFindByID, id, t.selectSQL("WHERE "+t.desc.Key+" = ?", ""), id)
	t.observe(opFindByID, start, err)
	return rec, err
}

// CountAll returns the number of rows in the table.
func (t *Table) CountAll(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := t.backend.WithConn(ctx, func(q store.Querier) error {
		if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.desc.Table).Scan(&n); err != nil {
			return t.queryErr(opCount, err)
		}
		return nil
	})
	t.observe(opCount, start, err)
	return n, err
}

// Search returns rows whose column contains term as a literal substring,
// ordered by key.
func (t *Table) Search(ctx context.Context, column, term string) ([]types.Record, error) {
	start := time.Now()
	if err := t.desc.CheckColumns(column); err != nil {
		t.observe(opSearch, start, err)
		return nil, err
	}
	query := t.selectSQL("WHERE "+store.LikeClause(column), "ORDER BY "+t.desc.Key)
	recs, err := t.list(ctx, opSearch, query, store.ContainsPattern(term))
	t.observe(opSearch, start, err)
	return recs, err
}

// Sort returns every row ordered by column. Any direction other than a
// case-insensitive "DESC" sorts ascending.
func (t *Table) Sort(ctx context.Context, column, direction string) ([]types.Record, error) {
	start := time.Now()
	if err := t.desc.CheckColumns(column); err != nil {
		t.observe(opSort, start, err)
		return nil, err
	}
	query := t.selectSQL("", fmt.Sprintf("ORDER BY %s %s, %s", column, sortDirection(direction), t.desc.Key))
	recs, err := t.list(ctx, opSort, query)
	t.observe(opSort, start, err)
	return recs, err
}

func sortDirection(direction string) string {
	if strings.EqualFold(strings.TrimSpace(direction), types.SortDesc) {
		return types.SortDesc
	}
	return types.SortAsc
}

// Create inserts data as a new row and returns the store-assigned key.
func (t *Table) Create(ctx context.Context, data types.Record) (types.CreateResult, error) {
	start := time.Now()
	var res types.CreateResult
	err := t.checkWrite(data)
	if err == nil {
		err = t.backend.WithConn(ctx, func(q store.Querier) error {
			var err error
			res, err = t.insert(ctx, q, data)
			return err
		})
	}
	t.observe(opCreate, start, err)
	return res, err
}

// insert runs the INSERT for data on q, which may be a transaction.
func (t *Table) insert(ctx context.Context, q store.Querier, data types.Record) (types.CreateResult, error) {
	cols := data.Columns()
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = data[c]
	}
	r, err := q.ExecContext(ctx, insertStatement(t.desc.Table, cols, 1), args...)
	if err != nil {
		return types.CreateResult{}, t.queryErr(opCreate, err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return types.CreateResult{}, t.queryErr(opCreate, err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return types.CreateResult{}, t.queryErr(opCreate, err)
	}
	return types.CreateResult{InsertID: id, AffectedRows: n}, nil
}

// Update sets the columns in data on the row keyed by id. AffectedRows is 0
// when no such row exists; ChangedRows counts rows whose values differed.
func (t *Table) Update(ctx context.Context, id int64, data types.Record) (types.UpdateResult, error) {
	start := time.Now()
	var res types.UpdateResult
	err := t.checkWrite(data)
	if err == nil {
		err = t.backend.WithTx(ctx, func(q store.Querier) error {
			var err error
			res, err = t.update(ctx, q, id, data)
			return err
		})
	}
	t.observe(opUpdate, start, err)
	return res, err
}

func (t *Table) update(ctx context.Context, q store.Querier, id int64, data types.Record) (types.UpdateResult, error) {
	var res types.UpdateResult
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+t.desc.Table+" WHERE "+t.desc.Key+" = ?", id).Scan(&res.AffectedRows)
	if err != nil {
		return res, t.queryErr(opUpdate, err)
	}
	if res.AffectedRows == 0 {
		return res, nil
	}

	d := t.backend.Dialect()
	cols := data.Columns()
	sets := make([]string, len(cols))
	same := make([]string, len(cols))
	args := make([]any, 0, 2*len(cols)+1)
	for i, c := range cols {
		sets[i] = c + " = ?"
		same[i] = d.NullSafeEqual(c)
		args = append(args, data[c])
	}
	args = append(args, id)
	for _, c := range cols {
		args = append(args, data[c])
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? AND NOT (%s)",
		t.desc.Table, strings.Join(sets, ", "), t.desc.Key, strings.Join(same, " AND "))
	r, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return res, t.queryErr(opUpdate, err)
	}
	if res.ChangedRows, err = r.RowsAffected(); err != nil {
		return res, t.queryErr(opUpdate, err)
	}
	return res, nil
}

// Delete removes the row keyed by id. Deleting a missing id affects zero
// rows and is not an error.
func (t *Table) Delete(ctx context.Context, id int64) (types.DeleteResult, error) {
	start := time.Now()
	var res types.DeleteResult
	err := t.backend.WithConn(ctx, func(q store.Querier) error {
		r, err := q.ExecContext(ctx, "DELETE FROM "+t.desc.Table+" WHERE "+t.desc.Key+" = ?", id)
		if err != nil {
			return t.queryErr(opDelete, err)
		}
		if res.AffectedRows, err = r.RowsAffected(); err != nil {
			return t.queryErr(opDelete, err)
		}
		return nil
	})
	t.observe(opDelete, start, err)
	return res, err
}

// Query runs a caller-supplied statement and materializes its rows. Values
// must be passed as args, never formatted into query.
func (t *Table) Query(ctx context.Context, query string, args ...any) ([]types.Record, error) {
	start := time.Now()
	recs, err := t.list(ctx, opQuery, query, args...)
	t.observe(opQuery, start, err)
	return recs, err
}

// checkWrite rejects empty records, unknown columns, and client-supplied keys.
func (t *Table) checkWrite(data types.Record) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: no columns to write", types.ErrInvalidData)
	}
	if _, ok := data[t.desc.Key]; ok {
		return fmt.Errorf("%w: %s is assigned by the store", types.ErrInvalidData, t.desc.Key)
	}
	return t.desc.CheckColumns(data.Columns()...)
}

func (t *Table) selectSQL(where, orderBy string) string {
	query := "SELECT " + selectList("", t.desc.Columns) + " FROM " + t.desc.Table
	if where != "" {
		query += " " + where
	}
	if orderBy != "" {
		query += " " + orderBy
	}
	return query
}

// list runs query on one borrowed connection.
func (t *Table) list(ctx context.Context, op, query string, args ...any) ([]types.Record, error) {
	var recs []types.Record
	err := t.backend.WithConn(ctx, func(q store.Querier) error {
		var err error
		if recs, err = queryRecords(ctx, q, query, args...); err != nil {
			return t.queryErr(op, err)
		}
		return nil
	})
	return recs, err
}

// one runs query and returns its first row, or ErrNotFound when it has none.
func (t *Table) one(ctx context.Context, op string, id int64, query string, args ...any) (types.Record, error) {
	recs, err := t.list(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s %d", types.ErrNotFound, t.desc.Table, id)
	}
	return recs[0], nil
}

func (t *Table) queryErr(op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", types.ErrQuery, op, t.desc.Table, err)
}

// observe records the operation's duration and logs store failures.
func (t *Table) observe(op string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, types.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
		if errors.Is(err, types.ErrQuery) || errors.Is(err, types.ErrConnection) {
			logging.Error().Err(err).Str("table", t.desc.Table).Str("operation", op).
				Msg("gateway operation failed")
		}
	}
	metrics.ObserveOperation(t.desc.Table, op, outcome, start)
}
