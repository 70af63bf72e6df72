package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Table names.
const (
	suppliersTable     = "suppliers"
	presetsTable       = "weight_presets"
	artifactsTable     = "artifacts"
	reportsTable       = "esg_reports"
	controversiesTable = "controversies"
	mediaSignalsTable  = "media_signals"
)

// allTables lists every table in dependency order, children last.
var allTables = []string{
	suppliersTable,
	presetsTable,
	artifactsTable,
	reportsTable,
	controversiesTable,
	mediaSignalsTable,
}

// SQLStore implements every store contract over a single database/sql connection.
// A store with a nil db is the no-op store used by the none backend.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var (
	_ contract.SupplierStore = &SQLStore{} // Compile-time check
	_ contract.PresetStore   = &SQLStore{} // Compile-time check
	_ contract.ArtifactStore = &SQLStore{} // Compile-time check
	_ contract.SignalStore   = &SQLStore{} // Compile-time check
)

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// openDB opens and pings a connection for the backend.
// MySQL connections enable multi-statement migrations and found-row counts.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var dsn string
	switch backend {
	case schema.SQLiteBackend:
		dsn = connStr
		if dsn == "" {
			dsn = contract.GetDBFilePath()
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, eris.Wrap(err, "store: parse mysql dsn")
		}
		cfg.MultiStatements = true
		cfg.ClientFoundRows = true
		dsn = cfg.FormatDSN()
	case schema.PostgreSQLBackend:
		dsn = connStr
	default:
		return nil, eris.Errorf("store: unsupported backend %s", backend)
	}

	db, err := sql.Open(driverName(backend), dsn)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", backend)
	}
	if backend == schema.SQLiteBackend {
		// SQLite allows one writer; a single connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, eris.Wrapf(err, "store: ping %s", backend)
	}
	return db, nil
}

// NewSQLStore opens the backend, applies pending migrations and returns the store.
// The none backend returns a no-op store.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	if backend == schema.NoneBackend {
		return &SQLStore{backend: backend}, nil
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return nil, eris.Wrap(err, "store: invalid connection string")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLStore{db: db, backend: backend}, nil
}

// Backend returns the configured backend.
func (s *SQLStore) Backend() schema.DatabaseBackend { return s.backend }

// Close closes the underlying connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var placeholderRe = regexp.MustCompile(`\?`)

// rebind rewrites ? placeholders into the backend's bind style.
func (s *SQLStore) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	n := 0
	return placeholderRe.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func (s *SQLStore) exec(ctx context.Context, q execer, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return eris.Wrap(tx.Commit(), "store: commit transaction")
}

// validateTableName checks that a table name contains only safe characters.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid table name %q: only letters, digits and underscores are allowed", name)
		}
	}
	return nil
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// boolInt stores booleans portably as 0/1.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullFloat converts an optional metric to a driver value.
func nullFloat(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// nullInt converts an optional int to a driver value.
func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// intPtr converts a nullable column into an optional int.
func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return schema.Int(int(n.Int64))
}

// notFound wraps ErrNotFound with the missing entity.
func notFound(kind, id string) error {
	return eris.Wrapf(ErrNotFound, "%s %q", kind, id)
}
