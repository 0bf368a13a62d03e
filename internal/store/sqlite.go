package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/profile-cli/internal/model"
)

// SQLiteStore persists snapshots using modernc.org/sqlite. Profiles are
// stored one row per domain so partial reads stay cheap.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, configures WAL mode
// and applies the schema.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	run_id     TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	run_id  TEXT NOT NULL REFERENCES snapshots(run_id),
	domain  TEXT NOT NULL,
	profile TEXT NOT NULL,
	PRIMARY KEY (run_id, domain)
);

CREATE INDEX IF NOT EXISTS idx_profiles_run_id ON profiles(run_id);
`

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces any previous snapshot with the given one inside a single
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return eris.Wrap(err, "sqlite: clear profiles")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return eris.Wrap(err, "sqlite: clear snapshots")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, created_at) VALUES (?, ?)`,
		snap.RunID, snap.CreatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return eris.Wrap(err, "sqlite: insert snapshot")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (run_id, domain, profile) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for domain, profile := range snap.Profiles {
		data, err := json.Marshal(profile)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal profile %s", domain)
		}
		if _, err := stmt.ExecContext(ctx, snap.RunID, domain, string(data)); err != nil {
			return eris.Wrapf(err, "sqlite: insert profile %s", domain)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// Load reads the stored snapshot back.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	var (
		runID     string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at FROM snapshots LIMIT 1`,
	).Scan(&runID, &createdAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read snapshot row")
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: parse created_at")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT domain, profile FROM profiles WHERE run_id = ?`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query profiles")
	}
	defer rows.Close()

	profiles := make(map[string]model.CompanyProfile)
	for rows.Next() {
		var domain, data string
		if err := rows.Scan(&domain, &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan profile")
		}
		var p model.CompanyProfile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal profile %s", domain)
		}
		profiles[domain] = p
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate profiles")
	}

	return &Snapshot{RunID: runID, CreatedAt: created, Profiles: profiles}, nil
}
