// Package runlog keeps a sqlite history of training runs
package runlog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started        INTEGER NOT NULL,
	corpus_rows    INTEGER NOT NULL,
	balanced_rows  INTEGER NOT NULL,
	extracted_rows INTEGER NOT NULL,
	loss           REAL NOT NULL,
	accuracy       REAL NOT NULL,
	model_dir      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started ON runs (started);
`

// Run is one finished training run
type Run struct {
	ID            string
	Started       time.Time
	CorpusRows    int // rows after merging every dataset
	BalancedRows  int
	ExtractedRows int // rows the model was trained on
	Loss          float64
	Accuracy      float64
	ModelDir      string
}

// DB is the run history database
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the history at path
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create history directory")
		}
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}
	return &DB{DB: sqlDB, path: path}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Record stores r
func (db *DB) Record(ctx context.Context, r Run) error {
	_, err := db.ExecContext(ctx, `INSERT INTO runs
		(id, started, corpus_rows, balanced_rows, extracted_rows, loss, accuracy, model_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Started.UnixNano(), r.CorpusRows, r.BalancedRows, r.ExtractedRows, r.Loss, r.Accuracy, r.ModelDir)
	if err != nil {
		return errors.Wrapf(err, "failed to record run %s", r.ID)
	}
	return nil
}

// List returns the recorded runs, newest first
func (db *DB) List(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `SELECT
		id, started, corpus_rows, balanced_rows, extracted_rows, loss, accuracy, model_dir
		FROM runs ORDER BY started DESC, rowid DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		if err := rows.Scan(&r.ID, &started, &r.CorpusRows, &r.BalancedRows, &r.ExtractedRows,
			&r.Loss, &r.Accuracy, &r.ModelDir); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		r.Started = time.Unix(0, started).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
