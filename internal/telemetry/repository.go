package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/thermalogd/internal/errors"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, sample *Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO samples (
            timestamp, millicelsius, celsius, fahrenheit, source
        ) VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            millicelsius = excluded.millicelsius,
            celsius = excluded.celsius,
            fahrenheit = excluded.fahrenheit,
            source = excluded.source
    `,
		sample.Timestamp.Unix(),
		sample.Reading.MilliCelsius,
		sample.Reading.Celsius(),
		sample.Reading.Fahrenheit(),
		sample.Source,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		errFactory := errors.New()
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}
