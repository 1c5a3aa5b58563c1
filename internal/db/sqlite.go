package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/thesavant42/evds-ng/internal/frame"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z"

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// ExportRecord is one row of the export history
type ExportRecord struct {
	ID          int64
	Series      string
	URL         string
	Fingerprint string
	Table       string
	Rows        int
	Columns     int
	FromCache   bool
	ExportedAt  time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createExportsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create exports schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// TableName turns an index such as "TP.DK.USD.A-TP.DK.EUR.A" into a
// usable table name ("TP_DK_USD_A_TP_DK_EUR_A"). Names that are empty,
// start with a digit, or collide with the history table or SQLite's
// reserved sqlite_ prefix get an "s_" prefix.
func TableName(index string) string {
	var b strings.Builder
	for _, r := range index {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	name := b.String()
	lower := strings.ToLower(name)
	if name == "" || unicode.IsDigit(rune(name[0])) ||
		lower == exportsTable || strings.HasPrefix(lower, "sqlite_") {
		name = "s_" + name
	}
	return name
}

// WriteFrame replaces table with the contents of df. Integer columns are
// stored as INTEGER, float columns as REAL, everything else as TEXT; Null
// cells become SQL NULL. It returns the number of rows written.
func (db *DB) WriteFrame(table string, df *frame.DataFrame) (int, error) {
	columns := df.Columns()
	if len(columns) == 0 {
		return 0, fmt.Errorf("frame for %s has no columns", table)
	}

	series := make([]*frame.Series, len(columns))
	defs := make([]string, len(columns))
	for i, name := range columns {
		s, err := df.Series(name)
		if err != nil {
			return 0, err
		}
		series[i] = s
		defs[i] = quoteIdent(name) + " " + sqlType(s.Kind())
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), placeholders))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	rows := df.Len()
	args := make([]interface{}, len(columns))
	for r := 0; r < rows; r++ {
		for i, s := range series {
			var c frame.Cell
			if r < s.Len() {
				c = s.At(r)
			}
			args[i] = sqlValue(c, s.Kind())
		}
		if _, err := stmt.Exec(args...); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", r, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rows, nil
}

// Tables returns the series tables, excluding the export history
func (db *DB) Tables() ([]string, error) {
	rows, err := db.conn.Query(selectTables)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RecordExport appends an entry to the export history
func (db *DB) RecordExport(rec ExportRecord) error {
	if rec.ExportedAt.IsZero() {
		rec.ExportedAt = time.Now()
	}
	fromCache := 0
	if rec.FromCache {
		fromCache = 1
	}
	_, err := db.conn.Exec(insertExport,
		rec.Series,
		rec.URL,
		rec.Fingerprint,
		rec.Table,
		rec.Rows,
		rec.Columns,
		fromCache,
		rec.ExportedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// ListExports returns the most recent exports, newest first
func (db *DB) ListExports(limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(selectExports, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()
	return scanExports(rows)
}

// ExportsForSeries returns the export history of one index, newest first
func (db *DB) ExportsForSeries(series string) ([]ExportRecord, error) {
	rows, err := db.conn.Query(selectExportsForSeries, series)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()
	return scanExports(rows)
}

func scanExports(rows *sql.Rows) ([]ExportRecord, error) {
	var out []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var fromCache int
		var exportedAt string
		if err := rows.Scan(
			&rec.ID,
			&rec.Series,
			&rec.URL,
			&rec.Fingerprint,
			&rec.Table,
			&rec.Rows,
			&rec.Columns,
			&fromCache,
			&exportedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		rec.FromCache = fromCache != 0
		rec.ExportedAt, _ = time.Parse(timeLayout, exportedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func sqlType(k frame.Kind) string {
	switch k {
	case frame.KindInt:
		return "INTEGER"
	case frame.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// sqlValue converts c for a column of kind k. Cells that do not match a
// numeric column kind are stored as their rendered text.
func sqlValue(c frame.Cell, k frame.Kind) interface{} {
	if c.IsNull() {
		return nil
	}
	switch k {
	case frame.KindInt:
		if v, ok := c.Int(); ok {
			return v
		}
	case frame.KindFloat:
		if v, ok := c.Number(); ok {
			return v
		}
	}
	return c.Render()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
