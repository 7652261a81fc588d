package gateway

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// queryRecords runs query on q and materializes every row. The result is
// never nil so an empty table encodes as [].
func queryRecords(ctx context.Context, q store.Querier, query string, args ...any) ([]types.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	recs := []types.Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(types.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalize(vals[i], dbType(colTypes, i))
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func dbType(colTypes []*sql.ColumnType, i int) string {
	if i >= len(colTypes) || colTypes[i] == nil {
		return ""
	}
	return strings.ToUpper(colTypes[i].DatabaseTypeName())
}

// normalize converts raw driver bytes to the Go type matching the column so
// that both drivers produce the same record shapes.
func normalize(v any, typ string) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	switch {
	case strings.Contains(typ, "INT"):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case strings.Contains(typ, "DECIMAL"), strings.Contains(typ, "FLOAT"),
		strings.Contains(typ, "DOUBLE"), strings.Contains(typ, "REAL"), strings.Contains(typ, "NUMERIC"):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// insertStatement renders a multi-row INSERT with one placeholder per value.
func insertStatement(table string, cols []string, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	for i := 0; i < rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
	}
	return sb.String()
}

// selectList prefixes each column with alias; an empty alias leaves the
// columns bare.
func selectList(alias string, cols []string) string {
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}
