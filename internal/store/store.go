// Package store persists suppliers, weight presets, score history, external
// signals and opaque artifacts over SQLite, MySQL or PostgreSQL.
package store

import (
	"database/sql"
	"os"
	"sync"

	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = contract.ErrNotFound

// ErrInvalid is returned when a record fails validation before it is written.
var ErrInvalid = contract.ErrInvalid

// StoreManager hands out the stores backed by one open connection.
type StoreManager struct {
	sync.RWMutex
	store *SQLStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps an open store.
func NewStoreManager(s *SQLStore) *StoreManager {
	return &StoreManager{store: s}
}

// GetSupplierStore returns the supplier store, or nil before initialization.
func (m *StoreManager) GetSupplierStore() contract.SupplierStore {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return nil
	}
	return m.store
}

// GetPresetStore returns the weight preset store.
func (m *StoreManager) GetPresetStore() contract.PresetStore {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return nil
	}
	return m.store
}

// GetArtifactStore returns the artifact store.
func (m *StoreManager) GetArtifactStore() contract.ArtifactStore {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return nil
	}
	return m.store
}

// GetSignalStore returns the report and signal store.
func (m *StoreManager) GetSignalStore() contract.SignalStore {
	m.RLock()
	defer m.RUnlock()
	if m.store == nil {
		return nil
	}
	return m.store
}

// SQL returns the concrete store for status and export.
func (m *StoreManager) SQL() *SQLStore {
	m.RLock()
	defer m.RUnlock()
	return m.store
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores opens the configured backend once and installs it in Manager.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		s, err := NewSQLStore(backend, connStr)
		if err != nil {
			initErr = eris.Wrap(err, "store: initialize")
			return
		}
		Manager.Lock()
		Manager.store = s
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// ClearStore removes all persisted data for the backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it drops every table including the migration bookkeeping.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		path := connStr
		if path == "" {
			path = contract.GetDBFilePath()
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return eris.Wrapf(err, "store: remove sqlite database file %s", path)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		tables := append([]string{}, allTables...)
		tables = append(tables, "schema_migrations")
		for i := len(tables) - 1; i >= 0; i-- {
			if err := dropTable(db, backend, tables[i]); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return eris.Errorf("store: unsupported backend for clearing: %s", backend)
	}
}

// dropTable drops the table if it exists.
func dropTable(db *sql.DB, backend schema.DatabaseBackend, table string) error {
	if err := validateTableName(table); err != nil {
		return eris.Wrap(err, "store: drop table")
	}
	if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteTableName(table, backend)); err != nil {
		return eris.Wrapf(err, "store: drop table %s", table)
	}
	return nil
}
