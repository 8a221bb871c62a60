/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements matrix.Store and trip.Store over a single database. In
  production the same patterns apply to MySQL/PostgreSQL - only SQL dialect
  and the schema-probe statements differ.

KEY TABLES:
  master_matrix:  Client-list rows (soft-deleted via active flag)
  driver_trips:   Append-only trip snapshots

SCHEMA EVOLUTION:
  New() runs the evolution steps once at open, in order:
    1. Ensure both tables and their indices exist
    2. If the is_complete column is missing (pre-completeness databases),
       add it and backfill it from the four key fields
    3. Drop the legacy uniq_row unique index if present - the business key
       is soft/advisory only
    4. Ensure the advisory lookup index on the 4-tuple exists
  Every step is re-entrant: running the whole sequence twice produces no
  errors and no duplicate structural changes. The completeness backfill
  also runs on every open so rows written by older code are repaired.

APPEND-ONLY ENFORCEMENT:
  driver_trips has no UPDATE or DELETE statements anywhere in this package.
  master_matrix rows are never DELETEd; deactivation flips the active flag.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block and crash recovery is cleaner.

CONCURRENCY:
  Uses sync.RWMutex for driver-level thread safety within one process.
  Cross-process coordination is store reads/writes only; no caller may rely
  on this mutex for row-level serialization.

USAGE:
  store, err := sqlite.New("./data/tripboard.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - matrix/engine.go: Lifecycle rules over matrix.Store
  - trip/validator.go: Submission gate over trip.Store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/tripboard/matrix"
	"github.com/warp/tripboard/trip"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate ensures the schema exists and runs the evolution steps.
func (s *Store) migrate() error {
	schema := `
	-- Trips (append-only snapshots)
	CREATE TABLE IF NOT EXISTS driver_trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		trip_date TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		weight TEXT NOT NULL DEFAULT '0',
		bill_number TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trips_user ON driver_trips(user_id);
	CREATE INDEX IF NOT EXISTS idx_trips_date ON driver_trips(trip_date);

	-- Client list (master matrix)
	CREATE TABLE IF NOT EXISTS master_matrix (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		client_name TEXT NOT NULL,
		unit_name TEXT NOT NULL,
		rate TEXT,
		is_complete INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matrix_active ON master_matrix(active);
	CREATE INDEX IF NOT EXISTS idx_matrix_complete ON master_matrix(is_complete);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.evolve()
}

// evolve upgrades databases created by earlier schema versions.
func (s *Store) evolve() error {
	hasComplete, err := s.hasColumn("master_matrix", "is_complete")
	if err != nil {
		return err
	}
	if !hasComplete {
		steps := []string{
			`ALTER TABLE master_matrix ADD COLUMN is_complete INTEGER NOT NULL DEFAULT 0`,
			`CREATE INDEX IF NOT EXISTS idx_matrix_complete ON master_matrix(is_complete)`,
		}
		for _, stmt := range steps {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("failed to add is_complete column: %w", err)
			}
		}
	}

	// The business key is soft: duplicates are tolerated, so any legacy
	// hard-uniqueness constraint on the 4-tuple must go.
	hasLegacyUnique, err := s.hasIndex("master_matrix", "uniq_row")
	if err != nil {
		return err
	}
	if hasLegacyUnique {
		if _, err := s.db.Exec(`DROP INDEX uniq_row`); err != nil {
			return fmt.Errorf("failed to drop legacy unique index: %w", err)
		}
	}

	if _, err := s.db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_matrix_lookup
		 ON master_matrix(origin, destination, client_name, unit_name)`,
	); err != nil {
		return fmt.Errorf("failed to ensure lookup index: %w", err)
	}

	// Completeness backfill (idempotent): repairs rows written before the
	// flag existed or by code that skipped the recompute.
	if _, err := s.db.Exec(
		`UPDATE master_matrix
		 SET is_complete = CASE
		     WHEN TRIM(origin) <> '' AND TRIM(destination) <> ''
		      AND TRIM(client_name) <> '' AND TRIM(unit_name) <> '' THEN 1
		     ELSE 0
		 END`,
	); err != nil {
		return fmt.Errorf("failed to backfill completeness: %w", err)
	}

	return nil
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func (s *Store) hasIndex(table, index string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA index_list(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return false, err
		}
		if name == index {
			return true, nil
		}
	}
	return false, rows.Err()
}

// =============================================================================
// MATRIX STORE (matrix.Store interface)
// =============================================================================

const matrixColumns = `id, origin, destination, client_name, unit_name, rate, is_complete, active, created_at`

// FindActiveByKey returns the first active+complete row with the exact
// 4-tuple. Comparison is case-sensitive (SQLite TEXT default collation).
func (s *Store) FindActiveByKey(ctx context.Context, origin, destination, client, unit string) (*matrix.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + matrixColumns + `
		FROM master_matrix
		WHERE active = 1 AND is_complete = 1
		  AND origin = ? AND destination = ? AND client_name = ? AND unit_name = ?
		ORDER BY id ASC
		LIMIT 1
	`
	return s.queryOneRow(ctx, query, origin, destination, client, unit)
}

// Insert persists a new matrix row.
func (s *Store) Insert(ctx context.Context, row matrix.Row) (matrix.RowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO master_matrix
		(origin, destination, client_name, unit_name, rate, is_complete, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		row.Origin,
		row.Destination,
		row.Client,
		row.Unit,
		rateString(row.Rate),
		boolInt(row.Complete),
		boolInt(row.Active),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert matrix row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted row id: %w", err)
	}
	return matrix.RowID(id), nil
}

// Get returns the row regardless of active state, or nil if absent.
func (s *Store) Get(ctx context.Context, id matrix.RowID) (*matrix.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + matrixColumns + ` FROM master_matrix WHERE id = ?`
	return s.queryOneRow(ctx, query, id)
}

// SetRate overwrites the rate; nil stores NULL.
func (s *Store) SetRate(ctx context.Context, id matrix.RowID, rate *decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE master_matrix SET rate = ? WHERE id = ?`,
		rateString(rate), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update rate: %w", err)
	}
	return nil
}

// Deactivate soft-deletes the row and reports whether anything changed.
func (s *Store) Deactivate(ctx context.Context, id matrix.RowID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE master_matrix SET active = 0 WHERE id = ? AND active = 1`, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate matrix row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListSelectable returns rows offered to the trip selector.
func (s *Store) ListSelectable(ctx context.Context) ([]matrix.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + matrixColumns + `
		FROM master_matrix
		WHERE active = 1 AND is_complete = 1
		ORDER BY origin ASC, destination ASC, client_name ASC, unit_name ASC
	`
	return s.queryRows(ctx, query)
}

// ListActive returns all active rows for the editing grid.
func (s *Store) ListActive(ctx context.Context) ([]matrix.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + matrixColumns + `
		FROM master_matrix
		WHERE active = 1
		ORDER BY origin ASC, destination ASC, client_name ASC, unit_name ASC
	`
	return s.queryRows(ctx, query)
}

func (s *Store) queryOneRow(ctx context.Context, query string, args ...any) (*matrix.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix row: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanMatrixRow(rows)
	if err != nil {
		return nil, err
	}
	return &row, rows.Err()
}

func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]matrix.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix rows: %w", err)
	}
	defer rows.Close()

	var out []matrix.Row
	for rows.Next() {
		row, err := scanMatrixRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanMatrixRow(rows *sql.Rows) (matrix.Row, error) {
	var (
		row       matrix.Row
		rate      sql.NullString
		complete  int
		active    int
		createdAt string
	)

	err := rows.Scan(
		&row.ID, &row.Origin, &row.Destination, &row.Client, &row.Unit,
		&rate, &complete, &active, &createdAt,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan matrix row: %w", err)
	}

	if rate.Valid && rate.String != "" {
		d, err := decimal.NewFromString(rate.String)
		if err != nil {
			return row, fmt.Errorf("failed to parse stored rate %q: %w", rate.String, err)
		}
		row.Rate = &d
	}
	row.Complete = complete != 0
	row.Active = active != 0
	row.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return row, nil
}

// =============================================================================
// TRIP STORE (trip.Store interface)
// =============================================================================

// FindSelectable returns the matrix row only if it is active and complete
// at the moment of the query.
func (s *Store) FindSelectable(ctx context.Context, id matrix.RowID) (*matrix.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + matrixColumns + `
		FROM master_matrix
		WHERE id = ? AND active = 1 AND is_complete = 1
	`
	return s.queryOneRow(ctx, query, id)
}

// InsertTrip appends a trip snapshot.
func (s *Store) InsertTrip(ctx context.Context, t trip.Trip) (trip.TripID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO driver_trips
		(user_id, trip_date, origin, destination, weight, bill_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		t.UserID,
		t.Date,
		t.Origin,
		t.Destination,
		t.Weight.String(),
		t.BillNumber,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trip: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted trip id: %w", err)
	}
	return trip.TripID(id), nil
}

// ListAll returns the latest trips, newest trip date first, ties broken by
// id descending.
func (s *Store) ListAll(ctx context.Context, limit int) ([]trip.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, trip_date, origin, destination, weight, bill_number, created_at
		FROM driver_trips
		ORDER BY trip_date DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		var (
			t         trip.Trip
			weight    string
			createdAt string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Origin, &t.Destination,
			&weight, &t.BillNumber, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		t.Weight, err = decimal.NewFromString(weight)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored weight %q: %w", weight, err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// Helper functions

func rateString(rate *decimal.Decimal) sql.NullString {
	if rate == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: rate.String(), Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
