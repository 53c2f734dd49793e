// Package sqlstore implements the storage interface over database/sql.
//
// Two drivers are supported: the embedded SQLite driver for local files and
// :memory: databases, and the MySQL driver for hosted stores. The driver is
// chosen from the shape of the connection string.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/Azarem/gaia-scribe/internal/storage"
)

// Store implements storage.Storage over a SQL database.
type Store struct {
	db     *sql.DB
	driver string
	closed atomic.Bool
}

// New opens (and if necessary initializes) a store at the given connection
// string. SQLite paths get their parent directory created; MySQL DSNs are
// used as-is.
func New(ctx context.Context, conn string) (*Store, error) {
	driver := storage.DetectDriver(conn)

	var db *sql.DB
	var err error
	switch driver {
	case storage.DriverMySQL:
		dsn := storage.MySQLDSN(conn)
		if !strings.Contains(dsn, "parseTime") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		db, err = sql.Open("mysql", dsn)
	default:
		if conn != ":memory:" && !strings.HasPrefix(conn, "file:") {
			if dir := filepath.Dir(conn); dir != "." {
				if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
					return nil, fmt.Errorf("failed to create directory: %w", mkErr)
				}
			}
		}
		db, err = sql.Open("sqlite3", storage.SQLiteConnString(conn))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == storage.DriverSQLite {
		// SQLite in-memory databases are isolated per connection; force a
		// single connection so all statements see the same data.
		if conn == ":memory:" || strings.Contains(conn, "mode=memory") {
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
		} else {
			db.SetMaxOpenConns(runtime.NumCPU() + 1)
			db.SetMaxIdleConns(2)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close releases the database handle. Safe to call more than once.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := schemaSQLite
	if s.driver == storage.DriverMySQL {
		ddl = schemaMySQL
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// batchInsert writes all rows for one table inside a single transaction.
// The batch is atomic: either every row lands or none do. Cross-batch
// atomicity is deliberately not provided; the import pipeline documents
// and accounts for that.
func (s *Store) batchInsert(ctx context.Context, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(cols, ", "), placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert into %s: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if len(row) != len(cols) {
			return fmt.Errorf("insert into %s: row has %d values, want %d", table, len(row), len(cols))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert into %s: %w", table, err)
	}
	return nil
}
