package catalog

import "strings"

// Dialect abstracts the SQL syntax differences between SQLite and
// PostgreSQL so the rest of the package can be written against a single
// query shape.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// SupportsLastInsertID reports whether the driver supports
	// LastInsertId(). SQLite: true, PostgreSQL: false (uses RETURNING).
	SupportsLastInsertID() bool

	// ReturningClause returns the RETURNING clause for INSERT statements.
	ReturningClause(column string) string

	// InitStatements returns dialect-specific initialization statements.
	InitStatements() []string

	// IsDuplicateKeyError reports whether err is a unique-constraint
	// violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType names a supported SQL dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the Dialect for the named type, defaulting to
// SQLite for anything unrecognized.
func NewDialect(t DialectType) Dialect {
	switch t {
	case DialectPostgres:
		return &postgresDialect{}
	default:
		return &sqliteDialect{}
	}
}

type sqliteDialect struct{}

func (d *sqliteDialect) DriverName() string          { return "sqlite" }
func (d *sqliteDialect) SupportsLastInsertID() bool   { return true }
func (d *sqliteDialect) ReturningClause(string) string { return "" }
func (d *sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}
func (d *sqliteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type postgresDialect struct{}

func (d *postgresDialect) DriverName() string        { return "postgres" }
func (d *postgresDialect) SupportsLastInsertID() bool { return false }
func (d *postgresDialect) ReturningClause(column string) string {
	return " RETURNING " + column
}
func (d *postgresDialect) InitStatements() []string { return nil }
func (d *postgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "23505") ||
		strings.Contains(errStr, "unique constraint")
}

// queryBuilder converts a query written with ? placeholders into the
// target dialect's placeholder style.
type queryBuilder struct {
	dialect Dialect
}

func newQueryBuilder(d Dialect) *queryBuilder {
	return &queryBuilder{dialect: d}
}

func (qb *queryBuilder) build(query string) string {
	if _, ok := qb.dialect.(*sqliteDialect); ok {
		return query
	}
	var out strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			out.WriteString("$")
			out.WriteString(itoa(position))
			position++
		} else {
			out.WriteByte(query[i])
		}
	}
	return out.String()
}

func (qb *queryBuilder) buildWithReturning(query, column string) string {
	converted := qb.build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
