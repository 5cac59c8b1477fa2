package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect hides the differences between the supported SQL databases.
// Queries are always written with ? placeholders.
type Dialect interface {
	DriverName() string
	DSN(config DialectConfig) string

	// RewriteQuery adapts a ? placeholder query to the driver's syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId is false where inserts need RETURNING id
	SupportsLastInsertId() bool

	// ConfigureConnection sets pool limits and session pragmas
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory to apply
	MigrationsSubdir() string
	CreateMigrationsTableQuery() string

	// ResetSequenceQuery returns SQL that moves table's id sequence past
	// its highest id after rows were inserted with explicit ids, or "" if
	// the database tracks that itself
	ResetSequenceQuery(table string) string

	// IsUniqueViolation reports whether err is a unique constraint failure
	IsUniqueViolation(err error) bool
}

// DialectConfig locates the database: Path for SQLite, URL otherwise
type DialectConfig struct {
	Path string
	URL  string
}

// numberPlaceholders rewrites ? placeholders to $1, $2, ... Question marks
// inside single-quoted literals are left alone.
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
