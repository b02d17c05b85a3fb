package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

// initSchema initializes the database schema for sample storage
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp INTEGER PRIMARY KEY,
            millicelsius INTEGER,
            celsius REAL,
            fahrenheit REAL,
            source TEXT
        )
    `)
	if err != nil {
		errFactory := errors.New()
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}
