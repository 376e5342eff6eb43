package warehouse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/fleximart/pkg/models/store"
)

var ErrUnsupportedDestination = errors.New("unsupported destination")

const (
	DuckDB     = "duckdb"
	SQLite     = "sqlite"
	Snowflake  = "snowflake"
	Databricks = "databricks"
)

// Dialect carries what differs between destination engines: the driver
// name, column type names, identifier quoting and transaction support.
type Dialect struct {
	Name          string
	Driver        string
	Types         map[store.ColumnType]string
	QuoteChar     string
	Transactional bool
}

var dialects = map[string]Dialect{
	DuckDB: {
		Name:   DuckDB,
		Driver: "duckdb",
		Types: map[store.ColumnType]string{
			store.ColumnText:      "VARCHAR",
			store.ColumnNumber:    "DOUBLE",
			store.ColumnInteger:   "BIGINT",
			store.ColumnDate:      "DATE",
			store.ColumnTimestamp: "TIMESTAMP",
		},
		QuoteChar:     `"`,
		Transactional: true,
	},
	SQLite: {
		Name:   SQLite,
		Driver: "sqlite",
		Types: map[store.ColumnType]string{
			store.ColumnText:      "TEXT",
			store.ColumnNumber:    "REAL",
			store.ColumnInteger:   "INTEGER",
			store.ColumnDate:      "DATE",
			store.ColumnTimestamp: "TIMESTAMP",
		},
		QuoteChar:     `"`,
		Transactional: true,
	},
	Snowflake: {
		Name:   Snowflake,
		Driver: "snowflake",
		Types: map[store.ColumnType]string{
			store.ColumnText:      "VARCHAR",
			store.ColumnNumber:    "DOUBLE",
			store.ColumnInteger:   "BIGINT",
			store.ColumnDate:      "DATE",
			store.ColumnTimestamp: "TIMESTAMP_NTZ",
		},
		QuoteChar:     `"`,
		Transactional: true,
	},
	Databricks: {
		Name:   Databricks,
		Driver: "databricks",
		Types: map[store.ColumnType]string{
			store.ColumnText:      "STRING",
			store.ColumnNumber:    "DOUBLE",
			store.ColumnInteger:   "BIGINT",
			store.ColumnDate:      "DATE",
			store.ColumnTimestamp: "TIMESTAMP",
		},
		QuoteChar: "`",
	},
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDestination, name)
	}
	return d, nil
}

// ParseDSN splits "<dialect>://<driver dsn>" into the dialect and the
// connection string handed to its driver.
func ParseDSN(dsn string) (Dialect, string, error) {
	scheme, conn, ok := strings.Cut(dsn, "://")
	if !ok {
		return Dialect{}, "", fmt.Errorf("%w: %q has no scheme", ErrUnsupportedDestination, dsn)
	}
	d, err := LookupDialect(strings.ToLower(scheme))
	if err != nil {
		return Dialect{}, "", err
	}
	return d, conn, nil
}

func (d Dialect) Quote(ident string) string {
	return d.QuoteChar + strings.ReplaceAll(ident, d.QuoteChar, d.QuoteChar+d.QuoteChar) + d.QuoteChar
}

func (d Dialect) columnType(t store.ColumnType) string {
	if name, ok := d.Types[t]; ok {
		return name
	}
	return d.Types[store.ColumnText]
}

func (d Dialect) CreateTableSQL(table string, columns []store.Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", d.Quote(c.Name), d.columnType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.Quote(table), strings.Join(defs, ", "))
}

func (d Dialect) InsertSQL(table string, columns []store.Column) string {
	names := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		names[i] = d.Quote(c.Name)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table), strings.Join(names, ", "), strings.Join(placeholders, ", "))
}

// bootQueries create the tables whose schema does not depend on the input.
func bootQueries(d Dialect) []string {
	return []string{
		d.CreateTableSQL(store.RunsTable, store.RunsSchema),
		d.CreateTableSQL(store.OrdersTable, store.OrdersSchema),
		d.CreateTableSQL(store.OrderItemsTable, store.OrderItemsSchema),
	}
}
