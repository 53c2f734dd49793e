package storage

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Driver names understood by the sqlstore implementation.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// DetectDriver classifies a connection string as a SQLite path or a MySQL
// DSN. MySQL DSNs look like "user:pass@tcp(host:port)/db" or carry a
// "mysql://" prefix; everything else is treated as a SQLite file path.
func DetectDriver(conn string) string {
	conn = strings.TrimSpace(conn)
	if strings.HasPrefix(conn, "mysql://") {
		return DriverMySQL
	}
	if strings.Contains(conn, "@tcp(") || strings.Contains(conn, "@unix(") {
		return DriverMySQL
	}
	return DriverSQLite
}

// MySQLDSN strips the optional mysql:// prefix so the string can be handed
// to the go-sql-driver directly.
func MySQLDSN(conn string) string {
	return strings.TrimPrefix(strings.TrimSpace(conn), "mysql://")
}

// SQLiteConnString builds a SQLite connection string with standard pragmas.
//
// Includes busy_timeout (prevents "database is locked" under concurrency)
// and foreign_keys (enforces referential integrity). Honors the
// SCRIBE_LOCK_TIMEOUT env var for busy timeout (default 30s). In-memory
// databases use a shared cache so multiple connections see the same data.
func SQLiteConnString(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	busy := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("SCRIBE_LOCK_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			busy = d
		}
	}
	busyMs := int64(busy / time.Millisecond)

	if path == ":memory:" {
		return fmt.Sprintf("file:scribedb?mode=memory&cache=shared&_pragma=journal_mode(DELETE)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite", busyMs)
	}

	if strings.HasPrefix(path, "file:") {
		conn := path
		sep := "?"
		if strings.Contains(conn, "?") {
			sep = "&"
		}
		if !strings.Contains(conn, "_pragma=busy_timeout") {
			conn += fmt.Sprintf("%s_pragma=busy_timeout(%d)", sep, busyMs)
			sep = "&"
		}
		if !strings.Contains(conn, "_pragma=foreign_keys") {
			conn += sep + "_pragma=foreign_keys(ON)"
			sep = "&"
		}
		if !strings.Contains(conn, "_time_format=") {
			conn += sep + "_time_format=sqlite"
		}
		return conn
	}

	return fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(%d)&_time_format=sqlite", path, busyMs)
}
