package dataset

import (
	"context"
	"database/sql"
	"os"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// ZIP3Asthma is one ZIP3-level asthma hospitalization row from the cache.
type ZIP3Asthma struct {
	Zip3        string
	AsthmaCount float64
}

// Store reads and writes the SQLite cache produced by the upstream analysis
// pipeline: the ZIP3-level asthma table and the UHF42-level final table.
type Store struct {
	db *sql.DB
}

// OpenStore opens the cache database at the given path and configures WAL
// mode. The file must already exist; its absence is a fatal precondition for
// the zip3 pipeline.
func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("cache: %s not found; run the analysis pipeline or `airmap seed` to generate it", path)
		}
		return nil, eris.Wrapf(err, "cache: stat %s", path)
	}
	return openStore(path)
}

// CreateStore opens (creating if necessary) the cache database and applies
// the schema. Used by the seed command and tests.
func CreateStore(path string) (*Store, error) {
	s, err := openStore(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func openStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS zip3_asthma (
	zip3         TEXT PRIMARY KEY,
	asthma_count REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS uhf_final (
	uhf42        INTEGER PRIMARY KEY,
	population   REAL NOT NULL,
	no2          REAL NOT NULL,
	o3           REAL NOT NULL,
	asthma_count REAL NOT NULL DEFAULT 0
);
`

// Migrate applies the cache schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadUHFFinal returns every UHF42-level row, ordered by code.
func (s *Store) ReadUHFFinal(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uhf42, population, no2, o3, asthma_count FROM uhf_final ORDER BY uhf42`)
	if err != nil {
		return nil, eris.Wrap(err, "cache: query uhf_final")
	}
	defer rows.Close() //nolint:errcheck

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.UHF42, &r.Population, &r.NO2, &r.O3, &r.AsthmaCount); err != nil {
			return nil, eris.Wrap(err, "cache: scan uhf_final row")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "cache: iterate uhf_final rows")
	}
	return records, nil
}

// ReadZIP3Asthma returns every ZIP3-level asthma row, ordered by prefix.
func (s *Store) ReadZIP3Asthma(ctx context.Context) ([]ZIP3Asthma, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT zip3, asthma_count FROM zip3_asthma ORDER BY zip3`)
	if err != nil {
		return nil, eris.Wrap(err, "cache: query zip3_asthma")
	}
	defer rows.Close() //nolint:errcheck

	var out []ZIP3Asthma
	for rows.Next() {
		var z ZIP3Asthma
		if err := rows.Scan(&z.Zip3, &z.AsthmaCount); err != nil {
			return nil, eris.Wrap(err, "cache: scan zip3_asthma row")
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "cache: iterate zip3_asthma rows")
	}
	return out, nil
}

// WriteUHFFinal replaces the UHF42-level table contents.
func (s *Store) WriteUHFFinal(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM uhf_final`); err != nil {
		return eris.Wrap(err, "cache: clear uhf_final")
	}
	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO uhf_final (uhf42, population, no2, o3, asthma_count) VALUES (?, ?, ?, ?, ?)`,
			r.UHF42, r.Population, r.NO2, r.O3, r.AsthmaCount)
		if err != nil {
			return eris.Wrapf(err, "cache: insert uhf_final %d", r.UHF42)
		}
	}
	return eris.Wrap(tx.Commit(), "cache: commit uhf_final")
}

// WriteZIP3Asthma replaces the ZIP3-level asthma table contents.
func (s *Store) WriteZIP3Asthma(ctx context.Context, rows []ZIP3Asthma) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM zip3_asthma`); err != nil {
		return eris.Wrap(err, "cache: clear zip3_asthma")
	}
	for _, z := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO zip3_asthma (zip3, asthma_count) VALUES (?, ?)`,
			z.Zip3, z.AsthmaCount)
		if err != nil {
			return eris.Wrapf(err, "cache: insert zip3_asthma %s", z.Zip3)
		}
	}
	return eris.Wrap(tx.Commit(), "cache: commit zip3_asthma")
}
