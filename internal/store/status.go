package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// GetStatus returns row counts, schema version and an approximate size of the store.
func (s *SQLStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: map[string]int64{},
	}
	if s.db == nil {
		return status, nil
	}

	for _, table := range allTables {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return status, eris.Wrapf(err, "store: count %s", table)
		}
		status.TableSizes[table] = n
	}

	if status.TableSizes[suppliersTable] > 0 {
		var last sql.NullInt64
		query := fmt.Sprintf("SELECT MAX(updated_at) FROM %s", quoteTableName(suppliersTable, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(&last); err != nil {
			return status, eris.Wrap(err, "store: get last update")
		}
		if last.Valid {
			status.LastUpdated = time.Unix(last.Int64, 0)
		}
	}

	version, dirty, err := migrationVersion(ctx, s.db)
	if err != nil {
		return status, err
	}
	status.MigrationVersion, status.Dirty = version, dirty

	// Size is best effort; a failing size query leaves it at 0.
	var sizeQuery string
	switch s.backend {
	case schema.SQLiteBackend:
		sizeQuery = "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	case schema.MySQLBackend:
		sizeQuery = "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = DATABASE()"
	case schema.PostgreSQLBackend:
		sizeQuery = "SELECT pg_database_size(current_database())"
	}
	if err := s.db.QueryRowContext(ctx, sizeQuery).Scan(&status.SizeBytes); err != nil {
		status.SizeBytes = 0
	}

	return status, nil
}

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Migration Version: %d (dirty: %t)\n", status.MigrationVersion, status.Dirty)
	if !status.LastUpdated.IsZero() {
		fmt.Printf("Last Update: %s\n", status.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Size: %d bytes\n", status.SizeBytes)
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
