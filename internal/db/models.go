// Package db persists the audit history in a local SQLite database.
//
// The database holds a single key/value table. The history is one named
// slot containing the JSON-serialized sequence of saved audits, newest
// first, overwritten wholesale on every change.
package db

import "time"

// Slot names in the kv table.
const (
	HistoryKey        = "audit_history"
	CorruptHistoryKey = "audit_history.corrupt"
)

// DefaultDateLayout renders creation dates as a short US date.
const DefaultDateLayout = "1/2/2006"

const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updatedAt REAL NOT NULL
	);
`

// Slot is one row of the kv table.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
