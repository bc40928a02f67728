package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS reports (
	       id          INTEGER PRIMARY KEY AUTOINCREMENT,
	       timestamp   INTEGER NOT NULL,
	       channel     INTEGER NOT NULL CHECK (channel IN (0, 1)),
	       hundredths  INTEGER NOT NULL CHECK (hundredths BETWEEN 0 AND 100)
	   );
	   CREATE INDEX IF NOT EXISTS reports_timestamp ON reports (timestamp);`

	insertReportSQL = `
    INSERT INTO reports (timestamp, channel, hundredths) VALUES (?, ?, ?)`

	recentReportsSQL = `
    SELECT timestamp, channel, hundredths FROM reports ORDER BY id DESC LIMIT ?`
)

// initSchema creates the tables on a fresh database and verifies the
// version of an existing one.
func initSchema(db *sql.DB, log zerolog.Logger) error {
	if _, err := db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInitFailed, err)
	}

	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_versions").Scan(&version); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInitFailed, err)
	}

	switch {
	case !version.Valid:
		log.Debug().Int("version", SchemaVersion).Msg("Creating database schema")
		_, err := db.Exec("INSERT INTO schema_versions (version, applied_at) VALUES (?, ?)",
			SchemaVersion, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSchemaInitFailed, err)
		}
	case version.Int64 != SchemaVersion:
		return fmt.Errorf("%w: %d (want %d)", ErrSchemaMismatch, version.Int64, SchemaVersion)
	}

	return nil
}
