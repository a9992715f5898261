// Package pathutil resolves the storage locations used by the tool:
// the data directory, the database file, the receipts directory, and
// the legacy flat-file location.
package pathutil

import (
	"os"
	"path/filepath"
)

// Resolver computes concrete paths from the configured locations.
// Paths are injected explicitly so a store can be pointed at an
// ephemeral directory in tests.
type Resolver struct {
	home        string
	dbPath      string
	receiptsDir string
	legacyCSV   string
}

// Config carries the configured locations. Empty fields default under
// Home: {home}/pagto.db, {home}/comprovantes and {home}/pagamentos.csv.
type Config struct {
	Home        string
	DBPath      string
	ReceiptsDir string
	LegacyCSV   string
}

// New creates a Resolver, filling in defaults for unset paths.
func New(cfg Config) *Resolver {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Home, "pagto.db")
	}
	receiptsDir := cfg.ReceiptsDir
	if receiptsDir == "" {
		receiptsDir = filepath.Join(cfg.Home, "comprovantes")
	}
	legacyCSV := cfg.LegacyCSV
	if legacyCSV == "" {
		legacyCSV = filepath.Join(cfg.Home, "pagamentos.csv")
	}
	return &Resolver{
		home:        cfg.Home,
		dbPath:      dbPath,
		receiptsDir: receiptsDir,
		legacyCSV:   legacyCSV,
	}
}

// Home returns the data directory.
func (r *Resolver) Home() string { return r.home }

// DatabasePath returns the SQLite database file path.
func (r *Resolver) DatabasePath() string { return r.dbPath }

// ReceiptsDir returns the receipts directory.
func (r *Resolver) ReceiptsDir() string { return r.receiptsDir }

// LegacyCSVPath returns the flat-file location of the previous tool
// generation.
func (r *Resolver) LegacyCSVPath() string { return r.legacyCSV }

// EnsureHome creates the data directory if needed.
func (r *Resolver) EnsureHome() error {
	return os.MkdirAll(r.home, 0755)
}

// FileExists checks if a file exists.
func (r *Resolver) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
