package db

// Schema defines the payments database tables.
//
// The id column is AUTOINCREMENT on purpose: sqlite_sequence tracks the
// largest id ever issued, so ids stay strictly increasing and are never
// reused even though rows are only ever soft-deleted.
const Schema = `
CREATE TABLE IF NOT EXISTS payments (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    category      TEXT NOT NULL,
    payee         TEXT NOT NULL,
    payment_date  TEXT NOT NULL,               -- DD/MM/YYYY
    account       TEXT NOT NULL,
    amount_cents  INTEGER NOT NULL,            -- exact currency, no floats
    owed_to       TEXT NOT NULL DEFAULT '',
    pending       INTEGER NOT NULL DEFAULT 0,
    deleted       INTEGER NOT NULL DEFAULT 0,  -- soft-delete tombstone
    receipt_ref   TEXT NOT NULL DEFAULT '',
    note          TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_payments_deleted
    ON payments(deleted);

CREATE INDEX IF NOT EXISTS idx_payments_category
    ON payments(category);

-- Key-value metadata, e.g. the legacy import marker.
CREATE TABLE IF NOT EXISTS pagto_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
