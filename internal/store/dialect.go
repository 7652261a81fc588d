package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/reels/pkg/types"
)

// Dialect renders the statement fragments that differ between stores.
type Dialect interface {
	Name() string
	// Concat joins SQL expressions into one string expression.
	Concat(parts ...string) string
	// GroupConcat aggregates expr across rows, separated by sep. orderBy may be empty.
	GroupConcat(expr, sep, orderBy string) string
	// Year extracts the calendar year of a date expression as an integer.
	Year(expr string) string
	// NullSafeEqual compares column to one bound parameter, treating NULL = NULL as true.
	NullSafeEqual(column string) string
	// True is the boolean true literal.
	True() string
	// Schema lists the DDL statements for the catalog, in dependency order.
	Schema() []string
}

// LikeEscape is the escape character used with LIKE patterns. It is the same
// in every dialect so patterns can be built once.
const LikeEscape = '!'

// LikeClause renders "column LIKE ? ESCAPE '!'".
func LikeClause(column string) string {
	return column + " LIKE ? ESCAPE '" + string(LikeEscape) + "'"
}

// ContainsPattern wraps term in wildcards, escaping any wildcard it contains,
// so the pattern matches term as a literal substring.
func ContainsPattern(term string) string {
	r := strings.NewReplacer(
		string(LikeEscape), string(LikeEscape)+string(LikeEscape),
		"%", string(LikeEscape)+"%",
		"_", string(LikeEscape)+"_",
	)
	return "%" + r.Replace(term) + "%"
}

// Literal quotes s as a SQL string literal.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case types.DriverSQLite:
		return SQLite{}, nil
	case types.DriverMySQL:
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w %q", types.ErrDriverUnknown, driver)
	}
}

// SQLite renders fragments for modernc.org/sqlite.
type SQLite struct{}

func (SQLite) Name() string { return types.DriverSQLite }

func (SQLite) Concat(parts ...string) string {
	return "(" + strings.Join(parts, " || ") + ")"
}

func (SQLite) GroupConcat(expr, sep, orderBy string) string {
	if orderBy != "" {
		return fmt.Sprintf("group_concat(%s, %s ORDER BY %s)", expr, Literal(sep), orderBy)
	}
	return fmt.Sprintf("group_concat(%s, %s)", expr, Literal(sep))
}

func (SQLite) Year(expr string) string {
	return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", expr)
}

func (SQLite) NullSafeEqual(column string) string { return column + " IS ?" }

func (SQLite) True() string { return "1" }

func (SQLite) Schema() []string { return sqliteSchema }

// MySQL renders fragments for github.com/go-sql-driver/mysql.
type MySQL struct{}

func (MySQL) Name() string { return types.DriverMySQL }

func (MySQL) Concat(parts ...string) string {
	return "CONCAT(" + strings.Join(parts, ", ") + ")"
}

func (MySQL) GroupConcat(expr, sep, orderBy string) string {
	if orderBy != "" {
		return fmt.Sprintf("GROUP_CONCAT(%s ORDER BY %s SEPARATOR %s)", expr, orderBy, Literal(sep))
	}
	return fmt.Sprintf("GROUP_CONCAT(%s SEPARATOR %s)", expr, Literal(sep))
}

func (MySQL) Year(expr string) string { return "YEAR(" + expr + ")" }

func (MySQL) NullSafeEqual(column string) string { return column + " <=> ?" }

func (MySQL) True() string { return "TRUE" }

func (MySQL) Schema() []string { return mysqlSchema }
