package types

import (
	"sort"
	"strconv"
)

// Record is one row keyed by column name.
type Record map[string]any

// Columns returns the record's column names in sorted order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Int64 returns the column as an int64 when the driver produced any integer
// or numeric text representation.
func (r Record) Int64(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// String returns the column as a string; NULL yields "" and false.
func (r Record) String(col string) (string, bool) {
	switch v := r[col].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

// CreateResult reports the outcome of an insert.
type CreateResult struct {
	InsertID     int64 `json:"insert_id"`
	AffectedRows int64 `json:"affected_rows"`
}

// UpdateResult reports the outcome of an update. AffectedRows counts rows
// matched by the key; ChangedRows counts rows whose values actually changed.
type UpdateResult struct {
	AffectedRows int64 `json:"affected_rows"`
	ChangedRows  int64 `json:"changed_rows"`
}

// DeleteResult reports the outcome of a delete. Zero rows means no such id.
type DeleteResult struct {
	AffectedRows int64 `json:"affected_rows"`
}

// number is satisfied by json.Number from a decoder run with UseNumber.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
}

// RecordFromJSON converts a decoded JSON object into a Record. Integral
// numbers become int64 and the rest float64.
func RecordFromJSON(raw map[string]any) Record {
	rec := make(Record, len(raw))
	for k, v := range raw {
		if n, ok := v.(number); ok {
			if i, err := n.Int64(); err == nil {
				v = i
			} else if f, err := n.Float64(); err == nil {
				v = f
			}
		}
		rec[k] = v
	}
	return rec
}
